// Package emitter 从同一份 Layout 同时生成预览树与文档树，并校验两者的内容一致性。
package emitter

import (
	"fmt"

	"resumeforge/internal/document"
	"resumeforge/internal/preview"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

// Output 是一次双目标渲染的结果。
type Output struct {
	Layout   render.Layout     `json:"-"`
	Preview  *preview.Node     `json:"preview"`
	Document document.Document `json:"document"`
}

// Emit 遍历同一份区块列表，分别生成两种目标树。
func Emit(l render.Layout) Output {
	return Output{
		Layout:   l,
		Preview:  preview.Build(l),
		Document: document.Build(l),
	}
}

// Render 完成从模板与数据到两种目标树的完整流程。
func Render(t schema.TemplateSchema, data resume.Data, opts render.Options) Output {
	return Emit(render.Render(t, data, opts))
}

// Texts 返回 Layout 在阅读顺序下的全部文本片段；两种目标树都应与之一致。
// 图标与项目符号属于展示层，不计入内容。
func Texts(l render.Layout) []string {
	var out []string
	addRuns := func(runs []render.Run) {
		for _, r := range runs {
			if r.Text != "" {
				out = append(out, r.Text)
			}
		}
	}
	addRow := func(r render.Row) {
		for _, s := range r.Segments() {
			addRuns(s.Runs)
			if s.Separator != "" {
				out = append(out, s.Separator)
			}
		}
	}
	if h := l.Header; h != nil {
		addRuns(h.Name)
		for _, r := range h.Rows {
			addRow(r)
		}
	}
	for _, sec := range l.Sections {
		addRuns(sec.Title)
		for _, b := range sec.Blocks {
			for _, r := range b.Rows {
				addRow(r)
			}
			for _, item := range b.Bullets {
				addRuns(item)
			}
		}
	}
	return out
}

// Mismatch 描述两棵树首个不一致的文本位置。
type Mismatch struct {
	Index    int    `json:"index"`
	Preview  string `json:"preview"`
	Document string `json:"document"`
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("content mismatch at segment %d: preview %q, document %q", m.Index, m.Preview, m.Document)
}

// CheckParity 比较两棵树的有序文本片段；一致时返回 nil。
func (o Output) CheckParity() *Mismatch {
	return Compare(o.Preview.Texts(), o.Document.Texts())
}

// Compare 返回两个文本序列中第一个不同的位置。较短序列的缺位以空串表示。
func Compare(previewTexts, documentTexts []string) *Mismatch {
	n := max(len(previewTexts), len(documentTexts))
	for i := 0; i < n; i++ {
		var p, d string
		if i < len(previewTexts) {
			p = previewTexts[i]
		}
		if i < len(documentTexts) {
			d = documentTexts[i]
		}
		if p != d || i >= len(previewTexts) || i >= len(documentTexts) {
			return &Mismatch{Index: i, Preview: p, Document: d}
		}
	}
	return nil
}
