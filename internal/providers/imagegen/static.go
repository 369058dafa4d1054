package imagegen

import (
	"context"
	"fmt"

	"roomdesign/internal/domain"
)

// onePixelPNG is a 1x1 transparent PNG, enough for demo mode to exercise
// the full pipeline without network access.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// StaticGenerator serves demo mode with a fixed deterministic image.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(ctx context.Context, cfg domain.GenerationConfig) (string, error) {
	return fmt.Sprintf("data:image/png;base64,%s", onePixelPNG), nil
}
