package commands

import (
	"destinystats/internal/pipeline"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
)

// below this similarity a name is not worth suggesting
const minSuggestionSimilarity = 0.7

func suggestClass(name string) (pipeline.CharacterClass, bool) {
	var best pipeline.CharacterClass
	bestScore := 0.0
	for _, class := range pipeline.AllClasses {
		score := matchr.JaroWinkler(name, string(class), false)
		if score > bestScore {
			best = class
			bestScore = score
		}
	}
	return best, bestScore >= minSuggestionSimilarity
}

// validateClasses rejects names that are not a class, the pipeline would
// silently match nothing for them.
func validateClasses(names []string) error {
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		known := false
		for _, class := range pipeline.AllClasses {
			if string(class) == normalized {
				known = true
				break
			}
		}
		if known {
			continue
		}
		if suggestion, ok := suggestClass(normalized); ok {
			return fmt.Errorf("unknown class %q, did you mean %s?", name, suggestion)
		}
		return fmt.Errorf("unknown class %q, expected one of hunter, warlock or titan", name)
	}
	return nil
}
