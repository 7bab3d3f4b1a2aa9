package document

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"
)

// htmlTemplateString 是文档导出的 HTML 模板。页面尺寸与边距交给 @page，
// 由无头浏览器打印为 PDF。
const htmlTemplateString = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        @page {
            size: {{pt .Page.Width}} {{pt .Page.Height}};
            margin: {{pt .Page.MarginTop}} {{pt .Page.MarginRight}} {{pt .Page.MarginBottom}} {{pt .Page.MarginLeft}};
        }
        body {
            margin: 0;
            font-family: '{{.FontFamily}}', sans-serif;
            line-height: 1.3;
        }
        p { margin: 0 0 2pt 0; }
        .columns { display: flex; justify-content: space-between; gap: 12pt; }
        .columns .right { text-align: right; white-space: nowrap; }
        ul { margin: 0 0 2pt 0; padding-left: 14pt; }
        li { padding-left: 2pt; }
        hr { border: 0; margin: 0 0 4pt 0; }
        {{range $role, $s := .Styles}}
        .role-{{$role}} { font-size: {{pt $s.Size}}; color: {{$s.Color | safeCSS}}; }
        {{end}}
    </style>
</head>
<body>
{{range .Blocks}}
    {{if eq .Kind "paragraph"}}
    <p class="role-{{.Role}}" style="text-align: {{align .Align}};{{gap .SpaceBefore}}">{{template "runs" .Runs}}</p>
    {{else if eq .Kind "column-set"}}
    <div class="columns role-{{.Role}}" style="{{gap .SpaceBefore}}">
        {{range $i, $c := .Columns}}<div class="{{if $i}}right{{else}}left{{end}}">{{template "runs" $c.Runs}}</div>{{end}}
    </div>
    {{else if eq .Kind "bulleted-list"}}
    <ul class="role-{{.Role}}" style="list-style-type: '{{.Glyph}} ';{{gap .SpaceBefore}}">
        {{range .Items}}<li>{{template "runs" .}}</li>{{end}}
    </ul>
    {{else if eq .Kind "rule"}}
    <hr style="border-top: {{pt .Rule.Weight}} solid {{.Rule.Color | safeCSS}};" />
    {{end}}
{{end}}
</body>
</html>
{{define "runs"}}{{range .}}{{if .Bold}}<strong>{{end}}{{if .Italic}}<em>{{end}}{{if .Underline}}<u>{{end}}{{.Text}}{{if .Underline}}</u>{{end}}{{if .Italic}}</em>{{end}}{{if .Bold}}</strong>{{end}}{{end}}{{end}}
`

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
	htmlTmplErr  error
)

func htmlTemplate() (*template.Template, error) {
	htmlTmplOnce.Do(func() {
		htmlTmpl, htmlTmplErr = template.New("document").Funcs(template.FuncMap{
			"pt": func(v float64) template.CSS {
				return template.CSS(fmt.Sprintf("%gpt", v))
			},
			"gap": func(v float64) template.CSS {
				if v <= 0 {
					return ""
				}
				return template.CSS(fmt.Sprintf(" margin-top: %gpt;", v))
			},
			"align": func(a string) template.CSS {
				switch a {
				case "center", "right":
					return template.CSS(a)
				}
				return "left"
			},
			// 颜色在模板规范化阶段已校验为 #rgb/#rrggbb。
			"safeCSS": func(s string) template.CSS {
				return template.CSS(s)
			},
		}).Parse(htmlTemplateString)
	})
	return htmlTmpl, htmlTmplErr
}

// WriteHTML 将文档写为可打印的 HTML。
func WriteHTML(w io.Writer, doc Document) error {
	tmpl, err := htmlTemplate()
	if err != nil {
		return fmt.Errorf("parse document template: %w", err)
	}
	if err := tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("execute document template: %w", err)
	}
	return nil
}

// HTML 是 WriteHTML 的字符串版本。
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
