package document

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

//go:embed assets/base.docx
var baseDocx []byte

const (
	bodyPlaceholder    = "<w:p><w:r><w:t>RESUMEFORGE_BODY</w:t></w:r></w:p>"
	sectionPlaceholder = "<w:sectPr/>"
	// twip = 1/20 pt；字号单位为半磅。
	twipsPerPt = 20
)

// WriteDOCX 把文档写为 WordprocessingML 包。column-set 映射为无边框的两列表格。
func WriteDOCX(w io.Writer, doc Document) error {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(baseDocx), int64(len(baseDocx)))
	if err != nil {
		return fmt.Errorf("open base docx: %w", err)
	}
	defer r.Close()

	editable := r.Editable()
	content := editable.GetContent()
	if !strings.Contains(content, bodyPlaceholder) || !strings.Contains(content, sectionPlaceholder) {
		return fmt.Errorf("base docx is missing body placeholders")
	}

	var body strings.Builder
	x := docxWriter{doc: doc, b: &body}
	for _, b := range doc.Blocks {
		x.block(b)
	}

	editable.ReplaceRaw(bodyPlaceholder, body.String(), 1)
	editable.ReplaceRaw(sectionPlaceholder, x.sectPr(), 1)
	if err := editable.Write(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

type docxWriter struct {
	doc Document
	b   *strings.Builder
}

func (x docxWriter) block(b Block) {
	switch b.Kind {
	case KindParagraph:
		x.paragraph(b.Role, b.Align, b.SpaceBefore, "", b.Runs)
	case KindColumnSet:
		x.columns(b)
	case KindBulletedList:
		for i, item := range b.Items {
			space := 0.0
			if i == 0 {
				space = b.SpaceBefore
			}
			x.paragraph(b.Role, "left", space, b.Glyph, item)
		}
	case KindRule:
		if b.Rule == nil {
			return
		}
		// 分隔线写为只有下边框的空段落；w:sz 单位为 1/8 pt。
		fmt.Fprintf(x.b, `<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="%d" w:space="1" w:color="%s"/></w:pBdr><w:spacing w:after="80"/></w:pPr></w:p>`,
			int(b.Rule.Weight*8), hexColor(b.Rule.Color))
	}
}

func (x docxWriter) paragraph(role, align string, spaceBefore float64, glyph string, runs []Run) {
	x.b.WriteString("<w:p><w:pPr>")
	if spaceBefore > 0 {
		fmt.Fprintf(x.b, `<w:spacing w:before="%d"/>`, int(spaceBefore*twipsPerPt))
	}
	if glyph != "" {
		x.b.WriteString(`<w:ind w:left="280" w:hanging="200"/>`)
	}
	fmt.Fprintf(x.b, `<w:jc w:val="%s"/>`, justification(align))
	x.b.WriteString("</w:pPr>")
	if glyph != "" {
		x.run(role, Run{Text: glyph + "\t"})
	}
	for _, r := range runs {
		x.run(role, r)
	}
	x.b.WriteString("</w:p>")
}

func (x docxWriter) columns(b Block) {
	width := int((x.doc.Page.Width - x.doc.Page.MarginLeft - x.doc.Page.MarginRight) * twipsPerPt)
	if width <= 0 {
		width = 9000
	}
	half := width / 2
	fmt.Fprintf(x.b, `<w:tbl><w:tblPr><w:tblW w:w="%d" w:type="dxa"/>`, width)
	x.b.WriteString(`<w:tblBorders><w:top w:val="nil"/><w:left w:val="nil"/><w:bottom w:val="nil"/><w:right w:val="nil"/><w:insideH w:val="nil"/><w:insideV w:val="nil"/></w:tblBorders><w:tblLayout w:type="fixed"/></w:tblPr>`)
	fmt.Fprintf(x.b, `<w:tblGrid><w:gridCol w:w="%d"/><w:gridCol w:w="%d"/></w:tblGrid><w:tr>`, half, width-half)
	for i, c := range b.Columns {
		cw := half
		if i > 0 {
			cw = width - half
		}
		fmt.Fprintf(x.b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, cw)
		x.paragraph(b.Role, c.Align, b.SpaceBefore, "", c.Runs)
		x.b.WriteString("</w:tc>")
	}
	x.b.WriteString("</w:tr></w:tbl>")
}

func (x docxWriter) run(role string, r Run) {
	if r.Text == "" {
		return
	}
	style := x.doc.Styles[role]
	x.b.WriteString("<w:r><w:rPr>")
	if x.doc.FontFamily != "" {
		font := escapeXML(x.doc.FontFamily)
		fmt.Fprintf(x.b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font)
	}
	if r.Bold {
		x.b.WriteString("<w:b/>")
	}
	if r.Italic {
		x.b.WriteString("<w:i/>")
	}
	if c := hexColor(style.Color); c != "auto" {
		fmt.Fprintf(x.b, `<w:color w:val="%s"/>`, c)
	}
	if style.Size > 0 {
		fmt.Fprintf(x.b, `<w:sz w:val="%d"/>`, int(style.Size*2))
	}
	if r.Underline {
		x.b.WriteString(`<w:u w:val="single"/>`)
	}
	x.b.WriteString("</w:rPr>")

	parts := strings.Split(r.Text, "\t")
	for i, p := range parts {
		if i > 0 {
			x.b.WriteString("<w:tab/>")
		}
		if p != "" {
			fmt.Fprintf(x.b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(p))
		}
	}
	x.b.WriteString("</w:r>")
}

func (x docxWriter) sectPr() string {
	p := x.doc.Page
	return fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="0" w:footer="0" w:gutter="0"/></w:sectPr>`,
		int(p.Width*twipsPerPt), int(p.Height*twipsPerPt),
		int(p.MarginTop*twipsPerPt), int(p.MarginRight*twipsPerPt),
		int(p.MarginBottom*twipsPerPt), int(p.MarginLeft*twipsPerPt))
}

func justification(align string) string {
	switch align {
	case "center":
		return "center"
	case "right":
		return "right"
	}
	return "left"
}

// hexColor 把 #rgb/#rrggbb 转为 WordprocessingML 需要的 RRGGBB。
func hexColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	switch len(c) {
	case 3:
		return strings.ToUpper(string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]}))
	case 6:
		return strings.ToUpper(c)
	}
	return "auto"
}

func escapeXML(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
