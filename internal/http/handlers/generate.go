package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"roomdesign/internal/domain"
)

type generateImageRequest struct {
	UserIntent   domain.UserIntent  `json:"user_intent"`
	RoomContext  domain.RoomContext `json:"room_context"`
	ControlImage string             `json:"control_image"`
}

type generateImageResponse struct {
	ImageURL       string                `json:"image_url"`
	PromptMetadata domain.PromptMetadata `json:"prompt_metadata"`
	Degraded       bool                  `json:"degraded,omitempty"`
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.RoomContext.RoomType) == "" {
		a.error(w, http.StatusBadRequest, "room_context.room_type is required")
		return
	}

	optimized, imageURL, degraded, err := a.Pipeline.Generate(r.Context(), req.UserIntent, req.RoomContext, req.ControlImage)
	if err != nil {
		a.Logger.Error().Err(err).Str("stage", "generate").Msg("generation aborted")
		a.error(w, http.StatusBadGateway, "image generation failed")
		return
	}
	if degraded {
		a.Logger.Warn().Str("stage", "generate").Msg("served placeholder image")
	}
	a.respond(w, http.StatusOK, generateImageResponse{
		ImageURL:       imageURL,
		PromptMetadata: optimized.Metadata,
		Degraded:       degraded,
	})
}
