package domain

// RoomContext is the structured description of a room photo produced by the
// vision adapter. Immutable once created.
type RoomContext struct {
	RoomType       string   `json:"room_type"`
	VisibleObjects []string `json:"visible_objects"`
	WallColor      string   `json:"wall_color"`
	LightingType   string   `json:"lighting_type"`
}

// TargetFunction is the closed set of room functions a redesign can aim for.
type TargetFunction string

const (
	FunctionNone       TargetFunction = ""
	FunctionDiningRoom TargetFunction = "dining_room"
	FunctionBedroom    TargetFunction = "bedroom"
	FunctionLivingRoom TargetFunction = "living_room"
	FunctionHomeOffice TargetFunction = "home_office"
)

// VibePreset is the closed set of style presets selectable in the UI.
type VibePreset string

const (
	PresetModern      VibePreset = "modern"
	PresetTraditional VibePreset = "traditional"
	PresetMinimalist  VibePreset = "minimalist"
	PresetBohemian    VibePreset = "bohemian"
)

// UserIntent carries what the user asked for. A non-empty Text is treated as
// an authoritative personal prompt; TargetFunction, when set explicitly,
// overrides any function inferred from text.
type UserIntent struct {
	Text           string         `json:"text"`
	Preset         VibePreset     `json:"preset,omitempty"`
	TargetFunction TargetFunction `json:"target_function,omitempty"`
}

// PromptMetadata is the diagnostic trail attached to an optimized prompt. It
// is consumed internally and surfaced in logs, never shown verbatim to the
// end user.
type PromptMetadata struct {
	RoomType       string   `json:"room_type"`
	TargetFunction string   `json:"target_function"`
	Constraints    []string `json:"constraints"`
}

// OptimizedPrompt is the deterministic output of the prompt builder.
type OptimizedPrompt struct {
	Positive string         `json:"positive"`
	Negative string         `json:"negative"`
	Metadata PromptMetadata `json:"metadata"`
}

// GenerationConfig is the request handed to the image-generation adapter.
// NumOutputs is always forced to 1 by the adapter regardless of what the
// caller sets.
type GenerationConfig struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Image          string `json:"image,omitempty"`
	ControlImage   string `json:"control_image,omitempty"`
	NumOutputs     int    `json:"num_outputs"`
}

// SearchURLs holds one shoppable query URL per supported storefront.
type SearchURLs struct {
	Amazon    string `json:"amazon"`
	Flipkart  string `json:"flipkart"`
	Pepperfry string `json:"pepperfry"`
}

// FurnitureCategory pairs a detected category with its storefront URLs.
type FurnitureCategory struct {
	Category   string     `json:"category"`
	SearchURLs SearchURLs `json:"searchUrls"`
}

// ValidationResult reports the outcome of an upload check. Error is
// non-empty exactly when Valid is false.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
