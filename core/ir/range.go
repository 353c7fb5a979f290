package ir

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperParallel/core/errors"
)

// VerseRange is a contiguous span of verses, possibly crossing chapters.
type VerseRange struct {
	StartChapter int `json:"start_chapter"`
	StartVerse   int `json:"start_verse"`
	EndChapter   int `json:"end_chapter"`
	EndVerse     int `json:"end_verse"`

	// VersesInRange is the caller-supplied verse count. Iteration never
	// relies on it; use CountVerses for a computed value.
	VersesInRange int `json:"verses_in_range"`
}

// Start returns the first key of the range.
func (r VerseRange) Start() VerseKey {
	return VerseKey{Chapter: r.StartChapter, Verse: r.StartVerse}
}

// End returns the last key of the range.
func (r VerseRange) End() VerseKey {
	return VerseKey{Chapter: r.EndChapter, Verse: r.EndVerse}
}

// IsReversed reports whether the start key sorts after the end key.
func (r VerseRange) IsReversed() bool {
	return r.End().Less(r.Start())
}

// Contains reports whether key lies between the start and end keys inclusive.
func (r VerseRange) Contains(key VerseKey) bool {
	return key.Compare(r.Start()) >= 0 && key.Compare(r.End()) <= 0
}

// String returns the range in "c:v-c:v" form.
func (r VerseRange) String() string {
	return r.Start().String() + "-" + r.End().String()
}

// NewRange builds a range between two keys and fills VersesInRange
// from the versification.
func NewRange(v Versification, start, end VerseKey) (VerseRange, error) {
	r := VerseRange{
		StartChapter: start.Chapter,
		StartVerse:   start.Verse,
		EndChapter:   end.Chapter,
		EndVerse:     end.Verse,
	}
	n, err := CountVerses(v, r)
	if err != nil {
		return VerseRange{}, err
	}
	r.VersesInRange = n
	return r, nil
}

// rangeGrammar is the participle grammar for verse ranges.
// Examples: "2", "2:255", "2:255-257", "2:255-3:4", "2.255-3.4", "2-3"
//
//nolint:govet // participle grammar tags are not standard struct tags
type rangeGrammar struct {
	Start *rangePoint `parser:"@@"`
	End   *rangePoint `parser:"( \"-\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangePoint struct {
	First  int  `parser:"@Int"`
	Second *int `parser:"( Sep @Int )?"`
}

var rangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Sep", Pattern: `[:.]`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var rangeParser = participle.MustBuild[rangeGrammar](
	participle.Lexer(rangeLexer),
	participle.Elide("Whitespace"),
)

// ParseRange parses a human-readable range and validates it against v.
// Supported formats:
//   - "2" (whole chapter)
//   - "2-3" (whole chapters)
//   - "2:255" (single verse)
//   - "2:255-257" (verses within one chapter)
//   - "2:255-3:4" or "2.255-3.4" (across chapters)
//   - "2-3:4" (from the start of chapter 2)
func ParseRange(v Versification, s string) (VerseRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VerseRange{}, errors.NewValidation("range", "must not be empty")
	}

	parsed, err := rangeParser.ParseString("", s)
	if err != nil {
		return VerseRange{}, errors.NewParse("range", "", fmt.Sprintf("%q: %v", s, err))
	}

	start := VerseKey{Chapter: parsed.Start.First, Verse: 1}
	if parsed.Start.Second != nil {
		start.Verse = *parsed.Start.Second
	}

	var end VerseKey
	switch {
	case parsed.End == nil && parsed.Start.Second != nil:
		end = start
	case parsed.End == nil:
		end = VerseKey{Chapter: start.Chapter, Verse: v.VerseCount(start.Chapter)}
	case parsed.End.Second != nil:
		end = VerseKey{Chapter: parsed.End.First, Verse: *parsed.End.Second}
	case parsed.Start.Second != nil:
		// "2:255-257": a bare end number is a verse in the start chapter
		end = VerseKey{Chapter: start.Chapter, Verse: parsed.End.First}
	default:
		end = VerseKey{Chapter: parsed.End.First, Verse: v.VerseCount(parsed.End.First)}
	}

	return NewRange(v, start, end)
}
