// Package preview 把渲染结果转换为屏幕预览使用的节点树。
// 节点树只描述结构与样式，绘制交给前端。
package preview

type Kind string

const (
	KindContainer    Kind = "container"
	KindText         Kind = "text"
	KindList         Kind = "list"
	KindTwoColumnRow Kind = "two-column-row"
)

// 节点角色，供前端选择样式与编辑入口。
const (
	RolePage         = "page"
	RoleHeader       = "header"
	RoleName         = "name"
	RoleContactRow   = "contact-row"
	RoleSection      = "section"
	RoleSectionTitle = "section-title"
	RoleDivider      = "divider"
	RoleBlock        = "block"
	RoleRow          = "row"
	RoleColumn       = "column"
	RoleBullet       = "bullet"
	RoleField        = "field"
	RoleSeparator    = "separator"
)

// Style 是预览节点的展示属性，零值表示继承。
type Style struct {
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	Color      string  `json:"color,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
	Justify    string  `json:"justifyContent,omitempty"`
	Border     string  `json:"borderBottom,omitempty"`
	Wrap       bool    `json:"wrap,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Padding    string  `json:"padding,omitempty"`
}

// Node 是预览树的节点。只有 KindText 节点携带文本。
type Node struct {
	Kind      Kind    `json:"kind"`
	Role      string  `json:"role,omitempty"`
	Key       string  `json:"key,omitempty"`
	Text      string  `json:"text,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	Glyph     string  `json:"glyph,omitempty"`
	Style     *Style  `json:"style,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Walk 以深度优先、先序的顺序访问节点。
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Texts 按阅读顺序返回所有文本节点的内容。
func (n *Node) Texts() []string {
	var out []string
	n.Walk(func(node *Node) {
		if node.Kind == KindText && node.Text != "" {
			out = append(out, node.Text)
		}
	})
	return out
}
