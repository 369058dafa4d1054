package vision

import (
	"context"

	"roomdesign/internal/domain"
)

// StaticAnalyzer serves demo mode: deterministic answers, no credentials,
// no network.
type StaticAnalyzer struct{}

func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{}
}

func (s *StaticAnalyzer) AnalyzeRoom(ctx context.Context, imageBase64 string) (domain.RoomContext, error) {
	return domain.RoomContext{
		RoomType:       "living room",
		VisibleObjects: []string{"sofa", "coffee table", "curtains"},
		WallColor:      "white",
		LightingType:   "natural",
	}, nil
}

func (s *StaticAnalyzer) DetectFurniture(ctx context.Context, imageBase64 string) ([]string, error) {
	return []string{"Sofa", "Coffee Table", "Floor Lamp", "Area Rug"}, nil
}
