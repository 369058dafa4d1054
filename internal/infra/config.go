package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DemoMode           bool
	VisionProvider     string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	ImageGenBaseURL    string
	ImageWidth         int
	ImageHeight        int
	VisionTimeout      time.Duration
	GenerationTimeout  time.Duration
	StageRetryAttempts int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	MaxConcurrentRuns  int
	CORSAllowedOrigins []string
	MaxUploadMB        int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The credential for the selected vision provider is
// required unless demo mode is on; missing values fail here, at startup,
// with the variable named.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DemoMode:           getEnvBool("DEMO_MODE", false),
		VisionProvider:     getEnv("VISION_PROVIDER", "gemini"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		ImageGenBaseURL:    getEnv("IMAGEGEN_BASE_URL", "https://image.pollinations.ai"),
		ImageWidth:         getEnvInt("IMAGE_WIDTH", 512),
		ImageHeight:        getEnvInt("IMAGE_HEIGHT", 512),
		VisionTimeout:      time.Second * time.Duration(getEnvInt("VISION_TIMEOUT_SECONDS", 30)),
		GenerationTimeout:  time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 90)),
		StageRetryAttempts: getEnvInt("STAGE_RETRY_ATTEMPTS", 2),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		MaxConcurrentRuns:  getEnvInt("MAX_CONCURRENT_PIPELINES", 4),
		CORSAllowedOrigins: splitCommaList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxUploadMB:        getEnvInt("MAX_UPLOAD_MB", 10),
	}

	// The retry count is converted to an unsigned attempt budget downstream;
	// zero or negative values fall back to the default instead of wrapping.
	if cfg.StageRetryAttempts < 1 {
		cfg.StageRetryAttempts = 2
	}

	if cfg.DemoMode {
		return cfg, nil
	}

	switch cfg.VisionProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when VISION_PROVIDER=gemini")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when VISION_PROVIDER=openai")
		}
	default:
		return nil, fmt.Errorf("VISION_PROVIDER must be gemini or openai, got %q", cfg.VisionProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCommaList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
