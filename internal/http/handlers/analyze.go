package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type analyzeRoomRequest struct {
	ImageBase64 string `json:"image_base64"`
}

func (a *App) AnalyzeRoom(w http.ResponseWriter, r *http.Request) {
	var req analyzeRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		a.error(w, http.StatusBadRequest, "image_base64 is required")
		return
	}

	roomContext, fallback, err := a.Pipeline.Analyze(r.Context(), req.ImageBase64)
	if err != nil {
		a.Logger.Error().Err(err).Str("stage", "analyze").Msg("analysis aborted")
		a.error(w, http.StatusBadGateway, "room analysis failed")
		return
	}
	if fallback {
		a.Logger.Warn().Str("stage", "analyze").Msg("served fallback room context")
	}
	a.respond(w, http.StatusOK, roomContext)
}
