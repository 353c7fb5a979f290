package ir

import (
	"fmt"
	"iter"

	"github.com/FocuswithJustin/JuniperParallel/core/errors"
)

// ValidateRange checks that both ends of r exist in v and that start does
// not come after end. The returned error wraps errors.ErrInvalidRange.
func ValidateRange(v Versification, r VerseRange) error {
	if err := validateKey(v, r, r.Start()); err != nil {
		return err
	}
	if err := validateKey(v, r, r.End()); err != nil {
		return err
	}
	if r.IsReversed() {
		return errors.NewInvalidRange(r.String(), "start is after end")
	}
	return nil
}

func validateKey(v Versification, r VerseRange, key VerseKey) error {
	if key.Chapter < 1 || key.Chapter > v.ChapterCount() {
		return errors.NewInvalidRange(r.String(),
			fmt.Sprintf("chapter %d is outside 1-%d", key.Chapter, v.ChapterCount()))
	}
	if n := v.VerseCount(key.Chapter); key.Verse < 1 || key.Verse > n {
		return errors.NewInvalidRange(r.String(),
			fmt.Sprintf("verse %d is outside 1-%d in chapter %d", key.Verse, n, key.Chapter))
	}
	return nil
}

// KeysInRange returns the ordered keys from r's start to its end inclusive.
// The sequence can be ranged over any number of times.
func KeysInRange(v Versification, r VerseRange) (iter.Seq[VerseKey], error) {
	if err := ValidateRange(v, r); err != nil {
		return nil, err
	}

	start, end := r.Start(), r.End()
	return func(yield func(VerseKey) bool) {
		key := start
		for {
			if !yield(key) {
				return
			}
			if key == end {
				return
			}
			key.Verse++
			// chapters with no verses are skipped; end is valid so this halts
			for key.Verse > v.VerseCount(key.Chapter) {
				key.Chapter++
				key.Verse = 1
			}
		}
	}, nil
}

// Keys collects KeysInRange into a slice.
func Keys(v Versification, r VerseRange) ([]VerseKey, error) {
	seq, err := KeysInRange(v, r)
	if err != nil {
		return nil, err
	}
	var keys []VerseKey
	for key := range seq {
		keys = append(keys, key)
	}
	return keys, nil
}

// CountVerses returns the number of keys r spans.
func CountVerses(v Versification, r VerseRange) (int, error) {
	if err := ValidateRange(v, r); err != nil {
		return 0, err
	}
	if r.StartChapter == r.EndChapter {
		return r.EndVerse - r.StartVerse + 1, nil
	}
	n := v.VerseCount(r.StartChapter) - r.StartVerse + 1
	for ch := r.StartChapter + 1; ch < r.EndChapter; ch++ {
		n += v.VerseCount(ch)
	}
	return n + r.EndVerse, nil
}
