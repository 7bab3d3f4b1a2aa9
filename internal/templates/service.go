// Package templates 管理模板的持久化与归属规则：内置模板只读，
// 用户模板只能由创建者修改，任何模板都可以被克隆。
package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resumeforge/internal/schema"
)

var (
	ErrNotFound  = errors.New("template not found")
	ErrForbidden = errors.New("template belongs to another user")
	ErrInvalid   = errors.New("invalid template")
)

// Repository 是 Service 依赖的持久化接口，Store 为其 gorm 实现。
type Repository interface {
	Get(ctx context.Context, id string) (schema.TemplateSchema, error)
	List(ctx context.Context, owner string) ([]schema.TemplateSchema, error)
	Put(ctx context.Context, t schema.TemplateSchema) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// Seed 写入内置模板，已存在的同 id 模板会被覆盖。
func (s *Service) Seed(ctx context.Context, builtins []schema.TemplateSchema) error {
	for _, t := range builtins {
		if !t.IsBuiltin() {
			return fmt.Errorf("%w: %s is not a system template", ErrInvalid, t.ID)
		}
		if err := s.repo.Put(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, owner string) ([]schema.TemplateSchema, error) {
	return s.repo.List(ctx, owner)
}

// Get 返回内置模板或 owner 自己的模板；他人的模板视为不存在。
func (s *Service) Get(ctx context.Context, owner, id string) (schema.TemplateSchema, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return schema.TemplateSchema{}, err
	}
	if !t.IsBuiltin() && t.CreatedBy != owner {
		return schema.TemplateSchema{}, ErrNotFound
	}
	return t, nil
}

// Clone 复制一份可见模板，新模板归 owner 所有。
func (s *Service) Clone(ctx context.Context, owner, id, name string) (schema.TemplateSchema, error) {
	src, err := s.Get(ctx, owner, id)
	if err != nil {
		return schema.TemplateSchema{}, err
	}
	c := schema.Clone(src, s.newID(), owner)
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return schema.TemplateSchema{}, err
	}
	return c, nil
}

// Save 覆盖 owner 的模板。内置模板与他人模板都会被拒绝，id 与归属不可修改。
func (s *Service) Save(ctx context.Context, owner string, t schema.TemplateSchema) (schema.TemplateSchema, error) {
	existing, err := s.repo.Get(ctx, t.ID)
	if err != nil {
		return schema.TemplateSchema{}, err
	}
	if existing.IsBuiltin() {
		return schema.TemplateSchema{}, schema.ErrBuiltinImmutable
	}
	if existing.CreatedBy != owner {
		return schema.TemplateSchema{}, ErrForbidden
	}
	t.CreatedBy = owner
	if strings.TrimSpace(t.Name) == "" {
		return schema.TemplateSchema{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return schema.TemplateSchema{}, err
	}
	return t, nil
}

// Edit 读取模板、应用编辑操作并保存。
func (s *Service) Edit(ctx context.Context, owner, id string, op func(*schema.TemplateSchema) error) (schema.TemplateSchema, error) {
	t, err := s.Get(ctx, owner, id)
	if err != nil {
		return schema.TemplateSchema{}, err
	}
	if err := op(&t); err != nil {
		return schema.TemplateSchema{}, err
	}
	return s.Save(ctx, owner, t)
}

func (s *Service) Delete(ctx context.Context, owner, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsBuiltin() {
		return schema.ErrBuiltinImmutable
	}
	if existing.CreatedBy != owner {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
