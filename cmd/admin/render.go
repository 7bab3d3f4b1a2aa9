package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"resumeforge/internal/document"
	"resumeforge/internal/emitter"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

type renderFlags struct {
	template     string
	builtin      string
	data         string
	format       string
	out          string
	presentLabel string
	dateFormat   string
}

func newRenderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "离线渲染本地的模板与简历数据",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if f.out != "" && f.out != "-" {
				file, err := os.Create(f.out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				w = file
			}
			return runRender(f, w, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.template, "template", "", "模板文件（.json/.yaml）")
	flags.StringVar(&f.builtin, "builtin", "", "内置模板 id，与 --template 二选一")
	flags.StringVar(&f.data, "data", "", "简历数据 JSON 文件（必填）")
	flags.StringVar(&f.format, "format", "preview", "输出格式：preview|document|html|docx")
	flags.StringVarP(&f.out, "out", "o", "", "输出文件，默认标准输出")
	flags.StringVar(&f.presentLabel, "present-label", "", "在职结束日期显示文本")
	flags.StringVar(&f.dateFormat, "date-format", "", "默认日期格式，例如 MMM YYYY")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// runRender 渲染并写出结果；降级记录与一致性问题写到 diag。
func runRender(f renderFlags, w, diag io.Writer) error {
	t, err := loadTemplate(f)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(f.data)
	if err != nil {
		return fmt.Errorf("read data: %w", err)
	}
	var data resume.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	opts := render.DefaultOptions()
	if f.presentLabel != "" {
		opts.PresentLabel = f.presentLabel
	}
	if df := schema.DateFormat(f.dateFormat); schema.ValidDateFormat(df) {
		opts.Defaults.DateFormat = df
	}

	out := emitter.Render(t, data, opts)
	for _, a := range out.Layout.Adjustments {
		fmt.Fprintf(diag, "adjusted %s: %s\n", a.Path, a.Reason)
	}
	if m := out.CheckParity(); m != nil {
		return fmt.Errorf("content parity check failed: %w", m)
	}

	switch f.format {
	case "preview":
		return writeJSON(w, out.Preview)
	case "document":
		return writeJSON(w, out.Document)
	case "html":
		return document.WriteHTML(w, out.Document)
	case "docx":
		return document.WriteDOCX(w, out.Document)
	}
	return fmt.Errorf("unknown format %q", f.format)
}

func loadTemplate(f renderFlags) (schema.TemplateSchema, error) {
	if f.builtin != "" {
		builtins, err := schema.LoadBuiltins()
		if err != nil {
			return schema.TemplateSchema{}, fmt.Errorf("load builtin templates: %w", err)
		}
		for _, t := range builtins {
			if t.ID == f.builtin {
				return t, nil
			}
		}
		return schema.TemplateSchema{}, fmt.Errorf("unknown builtin template %q", f.builtin)
	}
	if f.template == "" {
		return schema.TemplateSchema{}, fmt.Errorf("either --template or --builtin is required")
	}

	raw, err := os.ReadFile(f.template)
	if err != nil {
		return schema.TemplateSchema{}, fmt.Errorf("read template: %w", err)
	}
	var t schema.TemplateSchema
	switch strings.ToLower(filepath.Ext(f.template)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &t)
	default:
		err = json.Unmarshal(raw, &t)
	}
	if err != nil {
		return schema.TemplateSchema{}, fmt.Errorf("decode template: %w", err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
