package prompt

import (
	"strings"

	"roomdesign/internal/domain"
)

type functionMatch struct {
	fn       domain.TargetFunction
	keywords []string
}

// functionTable is checked in declaration order; the first substring hit
// wins, so "dining" beats an incidental "living" in the same sentence.
var functionTable = []functionMatch{
	{domain.FunctionDiningRoom, []string{"dining"}},
	{domain.FunctionBedroom, []string{"bedroom"}},
	{domain.FunctionLivingRoom, []string{"living", "lounge"}},
	{domain.FunctionHomeOffice, []string{"office", "study", "workspace"}},
}

// InferTargetFunction maps free text to a target room function, or
// FunctionNone when nothing matches.
func InferTargetFunction(text string) domain.TargetFunction {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return domain.FunctionNone
	}
	for _, entry := range functionTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.fn
			}
		}
	}
	return domain.FunctionNone
}

// FunctionLabel renders a target function for prompt text.
func FunctionLabel(fn domain.TargetFunction) string {
	switch fn {
	case domain.FunctionDiningRoom:
		return "dining room"
	case domain.FunctionBedroom:
		return "bedroom"
	case domain.FunctionLivingRoom:
		return "living room"
	case domain.FunctionHomeOffice:
		return "home office"
	default:
		return ""
	}
}
