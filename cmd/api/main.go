package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"roomdesign/internal/http/handlers"
	httpapi "roomdesign/internal/http/httpapi"
	"roomdesign/internal/infra"
	"roomdesign/internal/pipeline"
	"roomdesign/internal/providers/imagegen"
	"roomdesign/internal/providers/vision"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build vision analyzer")
	}
	generator := buildGenerator(cfg)

	p := pipeline.New(pipeline.Options{
		Vision:    analyzer,
		Generator: generator,
		Logger:    logger,
		AnalyzePolicy: pipeline.StagePolicy{
			Attempts: uint(cfg.StageRetryAttempts),
			Delay:    2 * time.Second,
			Timeout:  cfg.VisionTimeout,
		},
		GeneratePolicy: pipeline.StagePolicy{
			Attempts: uint(cfg.StageRetryAttempts),
			Delay:    3 * time.Second,
			Timeout:  cfg.GenerationTimeout,
		},
		DetectPolicy: pipeline.StagePolicy{
			Attempts: uint(cfg.StageRetryAttempts),
			Delay:    2 * time.Second,
			Timeout:  cfg.VisionTimeout,
		},
		MaxConcurrent: int64(cfg.MaxConcurrentRuns),
	})

	app := handlers.NewApp(logger, cfg, p)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildAnalyzer(cfg *infra.Config) (vision.Analyzer, error) {
	if cfg.DemoMode {
		return vision.NewStaticAnalyzer(), nil
	}
	switch cfg.VisionProvider {
	case "openai":
		return vision.NewOpenAIAnalyzer(vision.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   &http.Client{Timeout: cfg.VisionTimeout},
		})
	default:
		return vision.NewGeminiAnalyzer(vision.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: &http.Client{Timeout: cfg.VisionTimeout},
		})
	}
}

func buildGenerator(cfg *infra.Config) imagegen.Generator {
	if cfg.DemoMode {
		return imagegen.NewStaticGenerator()
	}
	return imagegen.NewPollinationsGenerator(imagegen.PollinationsOptions{
		BaseURL:    cfg.ImageGenBaseURL,
		Width:      cfg.ImageWidth,
		Height:     cfg.ImageHeight,
		HTTPClient: &http.Client{Timeout: cfg.GenerationTimeout},
	})
}
