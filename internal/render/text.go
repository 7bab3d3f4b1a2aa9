package render

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// formatTag 只匹配富文本编辑器常见的排版标签。
// 形如 List<T>、<50ms>、a<b c>d 的文本不在其中，原样保留。
var formatTag = regexp.MustCompile(`(?i)</?(?:b|i|u|em|strong|br|ul|ol|li)\s*/?>|</?(?:a|p|div|span)(?:\s+[a-z-]+\s*=\s*(?:"[^"]*"|'[^']*'))*\s*/?>`)

var blockTag = regexp.MustCompile(`(?i)^</?(?:br|p|div|ul|ol|li)\b`)

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// plainText 去掉排版标签，其余尖括号按字面保留，并把空白折叠为单个空格。
func plainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	cleaned := raw
	if strings.ContainsAny(raw, "<>&") {
		cleaned = html.UnescapeString(textSanitizer().Sanitize(markupOnly(raw)))
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// markupOnly 转义排版标签以外的尖括号，使清洗只作用于排版标签。
// 块级标签前补一个空格，避免相邻两行的文字粘连。
func markupOnly(raw string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range formatTag.FindAllStringIndex(raw, -1) {
		sb.WriteString(angleEscaper.Replace(raw[last:loc[0]]))
		tag := raw[loc[0]:loc[1]]
		if blockTag.MatchString(tag) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tag)
		last = loc[1]
	}
	sb.WriteString(angleEscaper.Replace(raw[last:]))
	return sb.String()
}

// plainRuns 返回单个无样式 run；空文本视为缺失。
func plainRuns(raw string) ([]Run, bool) {
	text := plainText(raw)
	if text == "" {
		return nil, false
	}
	return []Run{{Text: text}}, true
}

const boldMarker = "**"

// inlineRuns 解析 **加粗** 标记。未闭合的标记按字面输出。
func inlineRuns(raw string) ([]Run, bool) {
	text := plainText(raw)
	if text == "" {
		return nil, false
	}

	parts := strings.Split(text, boldMarker)
	// 标记数量为奇数时，最后一个标记没有配对，和后面的文本合并为普通文本。
	if len(parts)%2 == 0 {
		last := len(parts) - 1
		parts[last-1] = parts[last-1] + boldMarker + parts[last]
		parts = parts[:last]
	}

	runs := make([]Run, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		runs = appendRun(runs, Run{Text: p, Bold: i%2 == 1})
	}
	if len(runs) == 0 {
		return nil, false
	}
	return runs, true
}

// appendRun 合并样式相同的相邻 run。
func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 {
		prev := &runs[n-1]
		if prev.Bold == r.Bold && prev.Italic == r.Italic && prev.Underline == r.Underline {
			prev.Text += r.Text
			return runs
		}
	}
	return append(runs, r)
}
