// Package moderation censors configured words in guest messages before
// they reach a room's log. Matching runs on a normalized view of the text
// (lowercased, leet substitutions undone, separators dropped) so spaced or
// disguised spellings are still caught, while the replacement is applied
// to the original runes.
package moderation

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the Aho-Corasick automaton over the normalized word
// list. An empty list yields a pass-through moderator.
func NewModerator(words []string, replacement rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		normalized := normalize(word)
		if len(normalized.runes) > 0 {
			patterns = append(patterns, normalized.runes)
		}
	}
	if len(patterns) == 0 {
		return &Moderator{replacement: replacement}, nil
	}

	matcher := new(goahocorasick.Machine)
	if err := matcher.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: matcher, replacement: replacement}, nil
}

// Censor replaces every occurrence of a configured word with the
// replacement rune, span by span, leaving the rest of the text untouched.
func (m *Moderator) Censor(text string) string {
	if m.matcher == nil {
		return text
	}
	view := normalize(text)
	if len(view.runes) == 0 {
		return text
	}
	spans := m.matcher.MultiPatternSearch(view.runes, false)
	if len(spans) == 0 {
		return text
	}

	original := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(view.origIdx) {
			continue
		}
		// Mask from the first to the last original rune of the match,
		// covering any separators the normalization skipped over.
		for i := view.origIdx[start]; i <= view.origIdx[end-1]; i++ {
			original[i] = m.replacement
		}
	}
	return string(original)
}

// LoadWords reads one censored word per line, skipping blanks and
// '#'-prefixed comments.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// normalizedText pairs the searchable runes with the index of the original
// rune each one came from.
type normalizedText struct {
	runes   []rune
	origIdx []int
}

func normalize(input string) normalizedText {
	original := []rune(input)
	view := normalizedText{
		runes:   make([]rune, 0, len(original)),
		origIdx: make([]int, 0, len(original)),
	}
	for i, r := range original {
		plain := undoLeet(r)
		if unicode.IsSpace(plain) || unicode.IsPunct(plain) || unicode.IsSymbol(plain) {
			continue
		}
		view.runes = append(view.runes, unicode.ToLower(plain))
		view.origIdx = append(view.origIdx, i)
	}
	return view
}

func undoLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
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
