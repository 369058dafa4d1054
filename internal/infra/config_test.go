package infra

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("VISION_PROVIDER", "")
	t.Setenv("DEMO_MODE", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.VisionProvider != "gemini" {
		t.Fatalf("VisionProvider = %q, want gemini", cfg.VisionProvider)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Fatalf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.VisionTimeout != 30*time.Second {
		t.Fatalf("VisionTimeout = %v, want 30s", cfg.VisionTimeout)
	}
	if cfg.GenerationTimeout != 90*time.Second {
		t.Fatalf("GenerationTimeout = %v, want 90s", cfg.GenerationTimeout)
	}
	if cfg.MaxUploadMB != 10 {
		t.Fatalf("MaxUploadMB = %d, want 10", cfg.MaxUploadMB)
	}
}

func TestLoadConfigRequiresGeminiKey(t *testing.T) {
	t.Setenv("VISION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DEMO_MODE", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing GEMINI_API_KEY")
	} else if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("error %q does not name the missing variable", err)
	}
}

func TestLoadConfigRequiresOpenAIKey(t *testing.T) {
	t.Setenv("VISION_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEMO_MODE", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	} else if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("error %q does not name the missing variable", err)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("VISION_PROVIDER", "clip")
	t.Setenv("DEMO_MODE", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfigDemoModeSkipsCredentials(t *testing.T) {
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("VISION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.DemoMode {
		t.Fatal("DemoMode flag not set")
	}
}

func TestLoadConfigClampsRetryAttempts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"negative", "-3", 2},
		{"zero", "0", 2},
		{"positive kept", "5", 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")
			t.Setenv("DEMO_MODE", "")
			t.Setenv("STAGE_RETRY_ATTEMPTS", tc.raw)

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig returned error: %v", err)
			}
			if cfg.StageRetryAttempts != tc.want {
				t.Fatalf("StageRetryAttempts = %d, want %d", cfg.StageRetryAttempts, tc.want)
			}
		})
	}
}

func TestLoadConfigCORSList(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000 ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://app.example.com", "http://localhost:3000"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %#v, want %#v", cfg.CORSAllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}
