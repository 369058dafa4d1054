package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type detectFurnitureRequest struct {
	ImageBase64 string `json:"image_base64"`
}

func (a *App) DetectFurniture(w http.ResponseWriter, r *http.Request) {
	var req detectFurnitureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		a.error(w, http.StatusBadRequest, "image_base64 is required")
		return
	}

	categories, fallback, err := a.Pipeline.Detect(r.Context(), req.ImageBase64)
	if err != nil {
		a.Logger.Error().Err(err).Str("stage", "detect_furniture").Msg("detection aborted")
		a.error(w, http.StatusBadGateway, "furniture detection failed")
		return
	}
	if fallback {
		a.Logger.Warn().Str("stage", "detect_furniture").Msg("served generic categories")
	}
	a.respond(w, http.StatusOK, categories)
}
