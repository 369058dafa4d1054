package handlers

import (
	"encoding/json"
	"net/http"

	"roomdesign/internal/infra"
	"roomdesign/internal/pipeline"
)

// App is the handler container. Built once at startup; adapters are
// injected so tests can substitute them.
type App struct {
	Logger   infra.Logger
	Config   *infra.Config
	Pipeline *pipeline.Pipeline
}

func NewApp(logger infra.Logger, cfg *infra.Config, p *pipeline.Pipeline) *App {
	return &App{Logger: logger, Config: cfg, Pipeline: p}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) respond(w http.ResponseWriter, code int, data any) {
	a.json(w, code, envelope{Success: true, Data: data})
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, envelope{Success: false, Error: message})
}
