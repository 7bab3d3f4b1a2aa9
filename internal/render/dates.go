package render

import (
	"strings"
	"time"

	"resumeforge/internal/schema"
)

type dateLayout struct {
	layout   string
	yearOnly bool
}

var inputDateLayouts = []dateLayout{
	{layout: "2006-01-02"},
	{layout: "2006-01"},
	{layout: "01/2006"},
	{layout: "1/2006"},
	{layout: "Jan 2006"},
	{layout: "January 2006"},
	{layout: "2006", yearOnly: true},
}

var outputDateLayouts = map[schema.DateFormat]string{
	schema.DateShortMonth: "Jan 2006",
	schema.DateLongMonth:  "January 2006",
	schema.DateNumeric:    "01/2006",
	schema.DateYear:       "2006",
	schema.DateISO:        "2006-01",
}

// formatDate 按模板的日期格式输出；无法识别的输入原样返回。
func formatDate(raw string, format schema.DateFormat, present string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch strings.ToLower(raw) {
	case "present", "current", "now":
		return present
	}

	out, ok := outputDateLayouts[format]
	if !ok {
		out = outputDateLayouts[schema.DateShortMonth]
	}
	for _, in := range inputDateLayouts {
		t, err := time.Parse(in.layout, raw)
		if err != nil {
			continue
		}
		if in.yearOnly {
			return t.Format("2006")
		}
		return t.Format(out)
	}
	return raw
}

// dateRange 组合起止日期；current 且无结束日期时结束端为 present。
func dateRange(start, end string, current bool, format schema.DateFormat, present, sep string) string {
	s := formatDate(start, format, present)
	e := formatDate(end, format, present)
	if e == "" && current {
		e = present
	}
	switch {
	case s != "" && e != "":
		return s + sep + e
	case s != "":
		return s
	default:
		return e
	}
}
