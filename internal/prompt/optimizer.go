// Package prompt turns user intent and a room description into model-ready
// positive and negative prompts. Optimize is pure and deterministic: the
// same inputs always produce byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"roomdesign/internal/domain"
)

const defaultIntentText = "traditional Indian home"

// geometryLockPhrases anchor the generation model to the uploaded room.
// They always go first, before any stylistic content.
var geometryLockPhrases = []string{
	"exact room geometry preserved",
	"same camera angle",
	"same room dimensions",
	"no wall movement",
	"no window relocation",
}

const framingPhrase = "act as a professional interior designer redesigning this exact room"

// detailPhrases are always present regardless of the intent branch.
var detailPhrases = []string{
	"thoughtful furniture placement",
	"wall art and decor",
	"air conditioning unit neatly integrated",
	"modern lighting fixtures",
	"concealed electrical wiring",
	"window treatments",
	"rugs and textiles",
	"cohesive color scheme",
}

var mandatoryPhrases = []string{
	"Indian home aesthetic",
	"rental friendly",
}

var qualityPhrases = []string{
	"photorealistic",
	"professional photography quality",
	"realistic",
	"natural lighting",
	"high resolution",
	"sharp details",
}

var negativePhrases = []string{
	"different room layout",
	"moved windows",
	"moved doors",
	"different wall positions",
	"changed room shape",
	"different perspective",
	"different camera angle",
	"different room dimensions",
	"structural changes",
	"wall movement",
	"window relocation",
	"blurry",
	"low quality",
	"distorted",
	"unrealistic",
	"cartoon",
	"3d render",
	"sketch",
	"drawing",
	"construction",
	"demolition",
	"unfinished walls",
	"exposed wiring",
	"bare walls",
	"multiple rooms",
	"split view",
	"collage",
}

const maxStyleKeywords = 3

// Optimize builds the positive and negative prompts for one redesign.
//
// A non-empty trimmed intent text is a personal prompt: it is inserted
// verbatim and suppresses keyword extraction and implicit function inference
// (an explicit TargetFunction still applies). Empty text falls back to the
// default Indian-home phrasing.
func Optimize(intent domain.UserIntent, context domain.RoomContext) domain.OptimizedPrompt {
	personal := strings.TrimSpace(intent.Text)

	effectiveText := personal
	if effectiveText == "" {
		effectiveText = defaultIntentText
	}

	targetFn := intent.TargetFunction
	var keywords []string
	if personal == "" {
		keywords = ExtractStyleKeywords(effectiveText)
		if targetFn == domain.FunctionNone {
			targetFn = InferTargetFunction(effectiveText)
		}
	}

	var parts []string
	parts = append(parts, geometryLockPhrases...)
	parts = append(parts, framingPhrase)

	functionApplied := false
	if personal != "" {
		parts = append(parts, personal)
		if targetFn != domain.FunctionNone {
			parts = append(parts, functionTransformPhrase(targetFn))
			functionApplied = true
		}
	} else {
		if targetFn != domain.FunctionNone {
			parts = append(parts, functionTransformPhrase(targetFn))
			functionApplied = true
		} else {
			parts = append(parts, fmt.Sprintf("redesign as %s", context.RoomType))
		}
		if intent.Preset != "" {
			parts = append(parts, fmt.Sprintf("%s style", intent.Preset))
		}
		if len(keywords) > 0 {
			limit := len(keywords)
			if limit > maxStyleKeywords {
				limit = maxStyleKeywords
			}
			parts = append(parts, strings.Join(keywords[:limit], ", "))
		}
	}

	parts = append(parts, detailPhrases...)
	parts = append(parts, mandatoryPhrases...)
	parts = append(parts, qualityPhrases...)

	return domain.OptimizedPrompt{
		Positive: strings.Join(parts, ", "),
		Negative: BuildNegativePrompt(),
		Metadata: buildMetadata(context, targetFn, functionApplied, personal != ""),
	}
}

// BuildNegativePrompt is fixed and context independent.
func BuildNegativePrompt() string {
	return strings.Join(negativePhrases, ", ")
}

func functionTransformPhrase(fn domain.TargetFunction) string {
	label := FunctionLabel(fn)
	furniture := RequiredFurniture(fn)
	if len(furniture) == 0 {
		return fmt.Sprintf("convert this room into a functional %s", label)
	}
	return fmt.Sprintf("convert this room into a functional %s with %s", label, strings.Join(furniture, ", "))
}

func buildMetadata(context domain.RoomContext, fn domain.TargetFunction, functionApplied, personalPrompt bool) domain.PromptMetadata {
	constraints := []string{
		"exact room geometry locked (camera, dimensions, walls, windows)",
		"no structural changes",
		"Indian home aesthetic",
		"rental friendly",
		"photorealistic output",
	}
	if functionApplied {
		constraints = append(constraints, fmt.Sprintf("function transform: %s", FunctionLabel(fn)))
	}
	if personalPrompt {
		constraints = append(constraints, "personal prompt enhanced")
	}

	targetFunction := "none"
	if fn != domain.FunctionNone {
		targetFunction = string(fn)
	}

	return domain.PromptMetadata{
		RoomType:       context.RoomType,
		TargetFunction: targetFunction,
		Constraints:    constraints,
	}
}
