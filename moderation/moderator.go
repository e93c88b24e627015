// Package moderation stars out blacklisted words in relayed message
// bodies. Matching runs over a normalized view of the text (lowercase,
// leet speak folded, punctuation removed) so "B.4.d.g.€r" is caught,
// while the replacement is applied to the original runes so spacing
// and punctuation survive.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// New builds the Aho-Corasick automaton from the blacklist. Words that
// normalize to nothing (pure punctuation) are dropped from the
// automaton rather than rejected.
func New(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	seen := make(map[string]struct{}, len(words))
	var patterns [][]rune
	for _, word := range words {
		norm := normalize([]rune(word))
		if len(norm) == 0 {
			continue
		}
		if _, ok := seen[string(norm)]; ok {
			continue
		}
		seen[string(norm)] = struct{}{}
		patterns = append(patterns, norm)
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, replacement: replacement, log: log}, nil
}

// Censor replaces every blacklisted span of original with the
// replacement rune and returns the censored text together with the
// normalized words that matched, in match order.
func (m *Moderator) Censor(original string) (string, []string) {
	origRunes := []rune(original)

	// Normalized view plus a mapping back to original rune positions.
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))
	for i, r := range origRunes {
		folded := foldLeet(r)
		if isNoise(folded) {
			continue
		}
		norm = append(norm, unicode.ToLower(folded))
		origIdx = append(origIdx, i)
	}
	if len(norm) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return original, nil
	}

	var matched []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		matched = append(matched, string(span.Word))

		// The span covers normalized positions; star out everything
		// between the first and last original rune it maps to.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}

	m.log.Debug("Censored message body", "matches", len(matched))
	return string(origRunes), matched
}

func normalize(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		folded := foldLeet(r)
		if isNoise(folded) {
			continue
		}
		out = append(out, unicode.ToLower(folded))
	}
	return out
}

// foldLeet maps common leet-speak substitutions back to letters.
func foldLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
