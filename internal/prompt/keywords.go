package prompt

import "strings"

// stopWords are filtered out of free-text intent before keyword selection.
// Articles, pronouns, auxiliaries, and words so generic in this domain that
// they carry no styling signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "may": {}, "might": {}, "must": {}, "can": {}, "i": {},
	"you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"my": {}, "your": {}, "his": {}, "her": {}, "its": {}, "our": {},
	"their": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"want": {}, "like": {}, "make": {}, "look": {}, "feel": {},
	"room": {}, "space": {}, "design": {}, "interior": {},
}

// ExtractStyleKeywords surfaces meaningful style tokens from free text.
// Lowercases, collapses whitespace, drops tokens of length <= 2 and stop
// words, and deduplicates preserving first-seen order. Empty input yields an
// empty slice.
func ExtractStyleKeywords(text string) []string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if normalized == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Split(normalized, " ") {
		if len(word) <= 2 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
