package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltins 解析内嵌的系统内置模板。
func LoadBuiltins() ([]TemplateSchema, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("schema: open builtin dir: %w", err)
	}
	templates, err := LoadFS(sub)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].CreatedBy = SystemOwner
	}
	return templates, nil
}

// LoadFS 遍历文件系统中的 YAML/JSON 模板文件，按 id 排序返回。
func LoadFS(fsys fs.FS) ([]TemplateSchema, error) {
	var out []TemplateSchema
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		var t TemplateSchema
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("schema: parse %s: %w", path, err)
		}
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return fmt.Errorf("schema: file %s defines a template without id", path)
		}
		if prev, dup := seen[t.ID]; dup {
			return fmt.Errorf("schema: duplicate template %q (files %s, %s)", t.ID, prev, path)
		}
		seen[t.ID] = path
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
