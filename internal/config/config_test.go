package config

import (
	"testing"
	"time"

	"resumeforge/internal/schema"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 || cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Export.LinkTTL != 15*time.Minute || cfg.Export.MaxRetry != 3 || cfg.Export.RateLimit != 10 {
		t.Fatalf("export defaults = %+v", cfg.Export)
	}
	if !cfg.MinIO.AutoCreateBucket || cfg.MinIO.BucketLookup != "auto" {
		t.Fatalf("minio defaults = %+v", cfg.MinIO)
	}
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("EXPORT_LINK_TTL", "2m")
	t.Setenv("RENDER_DATE_FORMAT", "MM/YYYY")
	t.Setenv("RENDER_PRESENT_LABEL", "Now")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Fatalf("port = %d", cfg.API.Port)
	}
	if origins := cfg.API.Origins(); len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("origins = %v", origins)
	}
	if cfg.Export.LinkTTL != 2*time.Minute {
		t.Fatalf("link ttl = %v", cfg.Export.LinkTTL)
	}

	opts := cfg.Render.Options()
	if opts.PresentLabel != "Now" || opts.Defaults.DateFormat != schema.DateNumeric {
		t.Fatalf("render options = %+v", opts)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRenderOptionsIgnoreUnknownDateFormat(t *testing.T) {
	opts := RenderConfig{DateFormat: "DD.MM"}.Options()
	if opts.Defaults.DateFormat != schema.DateShortMonth {
		t.Fatalf("date format = %q", opts.Defaults.DateFormat)
	}
}
