package pdf

import (
	"bytes"
	"fmt"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// ExtractText 读取 PDF 中每一页的纯文本并按页拼接。
func ExtractText(data []byte) (string, error) {
	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// MissingSegments 返回未按顺序出现在 extracted 中的文本片段。
// 比较时忽略空白，PDF 文本层通常会丢失或插入空白。
func MissingSegments(segments []string, extracted string) []string {
	haystack := squash(extracted)
	var missing []string
	pos := 0
	for _, seg := range segments {
		needle := squash(seg)
		if needle == "" {
			continue
		}
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			missing = append(missing, seg)
			continue
		}
		pos += idx + len(needle)
	}
	return missing
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
