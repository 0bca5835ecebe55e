package matching

import (
	"regexp"
	"strings"
)

var (
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)
	symbolPattern  = regexp.MustCompile(`[^\w\s]`)
	whitespaceSep  = regexp.MustCompile(`\s+`)
	minWordLength  = 2
	substringScore = 0.8
	overlapScore   = 0.6
)

// Normalize strips emoji and punctuation from a tag, lowercases it and trims
// surrounding whitespace. Profile tags arrive decorated ("💻 Technology",
// "Art & Design") and must compare equal to their plain forms.
func Normalize(s string) string {
	s = emojiPattern.ReplaceAllString(s, "")
	s = symbolPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.ToLower(s))
}

// Similarity compares two free-text tags and returns a score in [0, 1].
// Exact match on normalized forms scores 1.0, substring containment either
// way scores 0.8, and a word-overlap ratio above one half scores 0.6.
// Anything else, including strings that normalize to empty, scores 0.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	// Exact equality wins even when both normalize to empty; everything else
	// involving an empty side scores 0.
	if na == nb {
		return 1.0
	}

	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return substringScore
	}

	wordsA := significantWords(na)
	wordsB := significantWords(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				common++
				break
			}
		}
	}

	longest := len(wordsA)
	if len(wordsB) > longest {
		longest = len(wordsB)
	}

	if float64(common)/float64(longest) > 0.5 {
		return overlapScore
	}
	return 0
}

func significantWords(s string) []string {
	var words []string
	for _, w := range whitespaceSep.Split(s, -1) {
		if len(w) > minWordLength {
			words = append(words, w)
		}
	}
	return words
}
