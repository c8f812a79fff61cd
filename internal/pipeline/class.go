package pipeline

import (
	"slices"
	"strings"
)

type CharacterClass string

const (
	Hunter  CharacterClass = "hunter"
	Warlock CharacterClass = "warlock"
	Titan   CharacterClass = "titan"
)

// AllClasses is what an empty class filter expands to.
var AllClasses = []CharacterClass{Warlock, Hunter, Titan}

// the platform identifies classes by hash, this table is fixed by the game
var classHashes = map[uint32]CharacterClass{
	671679327:  Hunter,
	2271682572: Warlock,
	3655393761: Titan,
}

// ClassFromHash returns the class for a platform class hash, ok is false for
// hashes outside the table.
func ClassFromHash(hash uint32) (class CharacterClass, ok bool) {
	class, ok = classHashes[hash]
	return class, ok
}

// ClassFilter is the set of classes a stats stage keeps.
type ClassFilter struct {
	classes map[CharacterClass]struct{}
}

// NewClassFilter builds a filter out of class names, compared
// case-insensitively. No names selects every class. Names that are not a
// known class are kept and match nothing.
func NewClassFilter(names ...string) ClassFilter {
	classes := map[CharacterClass]struct{}{}
	for _, name := range names {
		classes[CharacterClass(strings.ToLower(strings.TrimSpace(name)))] = struct{}{}
	}
	if len(names) == 0 {
		for _, c := range AllClasses {
			classes[c] = struct{}{}
		}
	}
	return ClassFilter{classes: classes}
}

func (f ClassFilter) Contains(class CharacterClass) bool {
	_, ok := f.classes[class]
	return ok
}

// Classes returns the selected classes, sorted.
func (f ClassFilter) Classes() []CharacterClass {
	out := make([]CharacterClass, 0, len(f.classes))
	for c := range f.classes {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
