// Package vision adapts external vision models to the two calls the
// pipeline needs: describing a room photo and naming the furniture visible
// in a generated result. Implementations guarantee a parsed,
// schema-validated result or a typed failure; callers never see raw model
// text.
package vision

import (
	"context"
	"fmt"
	"strings"

	"roomdesign/internal/domain"
)

// Analyzer is implemented by each vision provider.
type Analyzer interface {
	AnalyzeRoom(ctx context.Context, imageBase64 string) (domain.RoomContext, error)
	DetectFurniture(ctx context.Context, imageBase64 string) ([]string, error)
}

const (
	// MinCategories and MaxCategories bound every detection outcome,
	// fallback path included.
	MinCategories = 3
	MaxCategories = 6
)

// FallbackRoomContext is returned by the pipeline when analysis fails after
// retries. Generic enough that prompt building still produces a usable
// redesign.
func FallbackRoomContext() domain.RoomContext {
	return domain.RoomContext{
		RoomType:       "living room",
		VisibleObjects: []string{"furniture", "walls", "floor"},
		WallColor:      "neutral",
		LightingType:   "ambient",
	}
}

// GenericCategories is the detection fallback.
func GenericCategories() []string {
	return []string{"Sofa", "Table", "Lighting", "Decor", "Storage"}
}

// ClampCategories trims blanks and enforces the [MinCategories,
// MaxCategories] bound, padding from the generic list when the model
// returned too few.
func ClampCategories(names []string) []string {
	out := make([]string, 0, MaxCategories)
	seen := make(map[string]struct{})
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == MaxCategories {
			return out
		}
	}
	for _, name := range GenericCategories() {
		if len(out) >= MinCategories {
			break
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

const analyzePromptText = `Analyze this room photo. Respond strictly with JSON matching this schema: {"room_type":string,"visible_objects":string[],"wall_color":string,"lighting_type":string}. room_type is the room's current function (e.g. "living room", "bedroom"). visible_objects lists the major items you can see. Use "unknown" when an attribute cannot be determined.`

const detectPromptText = `List the furniture and decor categories visible in this interior photo. Respond strictly with JSON: {"categories":string[]}. Name between 3 and 6 broad shoppable categories (e.g. "Sofa", "Coffee Table", "Floor Lamp"). No sentences, category names only.`

type roomContextPayload struct {
	RoomType       string   `json:"room_type"`
	VisibleObjects []string `json:"visible_objects"`
	WallColor      string   `json:"wall_color"`
	LightingType   string   `json:"lighting_type"`
}

type categoriesPayload struct {
	Categories []string `json:"categories"`
}

func (p roomContextPayload) toDomain() (domain.RoomContext, error) {
	roomType := strings.TrimSpace(p.RoomType)
	if roomType == "" {
		return domain.RoomContext{}, fmt.Errorf("%w: missing room_type", domain.ErrProviderFailure)
	}
	objects := make([]string, 0, len(p.VisibleObjects))
	for _, obj := range p.VisibleObjects {
		obj = strings.TrimSpace(obj)
		if obj != "" {
			objects = append(objects, obj)
		}
	}
	return domain.RoomContext{
		RoomType:       roomType,
		VisibleObjects: objects,
		WallColor:      coalesce(p.WallColor, "unknown"),
		LightingType:   coalesce(p.LightingType, "unknown"),
	}, nil
}
