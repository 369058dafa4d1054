package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"roomdesign/internal/domain"
	"roomdesign/internal/pipeline"
	"roomdesign/internal/validation"
)

// Redesign accepts a multipart upload and runs the whole pipeline: analyze,
// optimize, generate, detect. Fields: photo (file), intent, preset,
// target_function.
func (a *App) Redesign(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(a.Config.MaxUploadMB)*1024*1024 + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	mimeType := header.Header.Get("Content-Type")
	if res := validation.ValidateFile(mimeType, header.Size); !res.Valid {
		a.error(w, http.StatusBadRequest, res.Error)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	intent := domain.UserIntent{
		Text:           r.FormValue("intent"),
		Preset:         domain.VibePreset(strings.TrimSpace(r.FormValue("preset"))),
		TargetFunction: domain.TargetFunction(strings.TrimSpace(r.FormValue("target_function"))),
	}

	input := pipeline.RunInput{
		ImageBase64: base64.StdEncoding.EncodeToString(raw),
		Intent:      intent,
	}
	result, err := a.Pipeline.Run(r.Context(), input)
	if err != nil {
		stage := ""
		if result != nil {
			stage = string(result.FailedStage)
		}
		a.Logger.Error().Err(err).Str("stage", stage).Msg("pipeline failed")
		if errors.Is(err, domain.ErrStageFailed) {
			a.error(w, http.StatusBadGateway, "redesign pipeline failed")
			return
		}
		a.error(w, http.StatusInternalServerError, "redesign pipeline failed")
		return
	}

	a.respond(w, http.StatusOK, result)
}
