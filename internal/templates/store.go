package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumeforge/internal/database"
	"resumeforge/internal/schema"
)

// Store 以 gorm 持久化模板，schema 整体存为 JSONB。
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id string) (schema.TemplateSchema, error) {
	var rec database.Template
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.TemplateSchema{}, ErrNotFound
		}
		return schema.TemplateSchema{}, fmt.Errorf("load template %s: %w", id, err)
	}
	return decode(rec)
}

// List 返回系统内置模板与 owner 自己的模板，内置模板在前。
func (s *Store) List(ctx context.Context, owner string) ([]schema.TemplateSchema, error) {
	var recs []database.Template
	err := s.db.WithContext(ctx).
		Where("created_by IN ?", []string{schema.SystemOwner, owner}).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN created_by = ? THEN 0 ELSE 1 END, name, id",
			Vars: []any{schema.SystemOwner},
		}}).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]schema.TemplateSchema, 0, len(recs))
	for _, rec := range recs {
		t, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Put 插入或覆盖模板。
func (s *Store) Put(ctx context.Context, t schema.TemplateSchema) error {
	rec, err := encode(t)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "created_by", "schema", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&database.Template{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete template %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func encode(t schema.TemplateSchema) (database.Template, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return database.Template{}, fmt.Errorf("encode template %s: %w", t.ID, err)
	}
	return database.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Schema:      datatypes.JSON(raw),
	}, nil
}

func decode(rec database.Template) (schema.TemplateSchema, error) {
	var t schema.TemplateSchema
	if err := json.Unmarshal(rec.Schema, &t); err != nil {
		return schema.TemplateSchema{}, fmt.Errorf("decode template %s: %w", rec.ID, err)
	}
	// 行上的列是权威来源。
	t.ID = rec.ID
	t.CreatedBy = rec.CreatedBy
	return t, nil
}
