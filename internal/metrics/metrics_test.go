package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/schema"
)

func TestDegradationKind(t *testing.T) {
	tests := map[string]string{
		"experience.rows[0].fields[1].name": "field",
		"sectionOrder":                      "section",
		"sectionOrder[2]":                   "section",
		"typography.sizes.body":             "config",
	}
	for path, want := range tests {
		if got := DegradationKind(schema.Adjustment{Path: path}); got != want {
			t.Errorf("DegradationKind(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestObserveRender(t *testing.T) {
	ObserveRender(TargetDOCX, 3*time.Millisecond, []schema.Adjustment{{Path: "header.contactRows[0].fields[0].name"}})

	body := scrape(t)
	for _, want := range []string{
		`resumeforge_render_total{target="docx"}`,
		`resumeforge_render_degradations_total{kind="field"}`,
		`resumeforge_render_duration_seconds_count{target="docx"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func scrape(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/metrics", Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `resumeforge_http_request_duration_seconds_count{method="GET",path="/ping",status="200"}`) {
		t.Fatalf("metrics output missing ping request")
	}
}
