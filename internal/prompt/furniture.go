package prompt

import "roomdesign/internal/domain"

// requiredFurniture maps a target function to the furniture a converted room
// must show. Fixed lookup; items carry size and placement qualifiers so the
// generation model renders usable layouts instead of empty shells.
var requiredFurniture = map[domain.TargetFunction][]string{
	domain.FunctionDiningRoom: {
		"dining table (4-6 seater)",
		"dining chairs",
		"sideboard or crockery cabinet",
		"pendant light above the table",
		"area rug under the dining set",
	},
	domain.FunctionBedroom: {
		"queen size bed with headboard",
		"bedside tables (pair)",
		"wardrobe",
		"dresser with mirror",
		"bedside lamps",
		"soft area rug",
	},
	domain.FunctionLivingRoom: {
		"comfortable sofa (3 seater)",
		"coffee table",
		"TV unit or media console",
		"accent chairs",
		"floor lamp",
		"area rug",
	},
	domain.FunctionHomeOffice: {
		"work desk against a wall",
		"ergonomic office chair",
		"bookshelf",
		"desk lamp",
		"storage cabinet",
	},
}

// RequiredFurniture returns the furniture list for a target function. Empty
// slice for FunctionNone.
func RequiredFurniture(fn domain.TargetFunction) []string {
	items, ok := requiredFurniture[fn]
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
