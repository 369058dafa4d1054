// Package imagegen adapts external image-generation services. The contract
// is one image per call: NumOutputs is forced to 1 no matter what the
// caller asked for, and terminal failures surface as PlaceholderURL rather
// than an empty result.
package imagegen

import (
	"context"

	"roomdesign/internal/domain"
)

// Generator produces exactly one image for a prompt pair.
type Generator interface {
	Generate(ctx context.Context, cfg domain.GenerationConfig) (string, error)
}

// PlaceholderURL is the marker returned when generation fails after all
// retries. Downstream treats it as a degraded-but-complete result.
const PlaceholderURL = "https://via.placeholder.com/512x512?text=Generation+Failed"
