package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"resumeforge/internal/schema"
)

// 渲染目标标签。
const (
	TargetPreview = "preview"
	TargetPDF     = "pdf"
	TargetDOCX    = "docx"
	TargetHTML    = "html"
)

var (
	renderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "按输出目标统计的渲染次数。",
		},
		[]string{"target"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "渲染耗时分布（秒），导出目标包含文档生成时间。",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"target"},
	)

	renderDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "degradations_total",
			Help:      "渲染时被降级处理的模板配置数量。",
		},
		[]string{"kind"},
	)
)

// ObserveRender 记录一次渲染。
func ObserveRender(target string, elapsed time.Duration, adjustments []schema.Adjustment) {
	renderTotal.WithLabelValues(target).Inc()
	renderDuration.WithLabelValues(target).Observe(elapsed.Seconds())
	for _, a := range adjustments {
		renderDegradations.WithLabelValues(DegradationKind(a)).Inc()
	}
}

// DegradationKind 把降级记录归为 field、section 或 config 三类。
func DegradationKind(a schema.Adjustment) string {
	switch {
	case strings.HasSuffix(a.Path, ".name"):
		return "field"
	case strings.HasPrefix(a.Path, "sectionOrder"):
		return "section"
	default:
		return "config"
	}
}
