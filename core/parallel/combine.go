package parallel

import (
	"slices"

	"github.com/FocuswithJustin/JuniperParallel/core/ir"
)

// Record is the merged view of one verse.
type Record struct {
	Key ir.VerseKey `json:"key"`

	// Canonical is nil when no canonical text was supplied for Key.
	// A non-nil pointer to "" means the canonical text is literally empty.
	Canonical *string `json:"canonical"`

	// Translations has one slot per translation source, in source order.
	// A source without text for Key contributes "".
	Translations []string `json:"translations"`
}

// HasCanonical reports whether canonical text was supplied for the verse.
func (r Record) HasCanonical() bool {
	return r.Canonical != nil
}

// CanonicalText returns the canonical text, or "" when absent.
func (r Record) CanonicalText() string {
	if r.Canonical == nil {
		return ""
	}
	return *r.Canonical
}

// Combine merges canonical text with translations. It emits one Record for
// every key present in canonical or in any translation list, ascending by
// key; verses no input mentions are not padded in. Keys outside r are
// dropped, and a malformed r (non-positive numbers or start after end)
// yields an empty result.
func Combine(r ir.VerseRange, canonical []ir.TextItem, translations [][]ir.TextItem) []Record {
	if !wellFormed(r) {
		return []Record{}
	}

	canonicalText := index(canonical)
	translationTexts := make([]map[ir.VerseKey]string, len(translations))
	for i, list := range translations {
		translationTexts[i] = index(list)
	}

	keys := unionKeys(r, canonicalText, translationTexts)

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		rec := Record{
			Key:          key,
			Translations: make([]string, len(translations)),
		}
		if text, ok := canonicalText[key]; ok {
			rec.Canonical = &text
		}
		for i, texts := range translationTexts {
			rec.Translations[i] = texts[key]
		}
		records = append(records, rec)
	}
	return records
}

func wellFormed(r ir.VerseRange) bool {
	if r.StartChapter < 1 || r.StartVerse < 1 || r.EndChapter < 1 || r.EndVerse < 1 {
		return false
	}
	return !r.IsReversed()
}

// index maps each key to its text; the first occurrence of a key wins.
func index(items []ir.TextItem) map[ir.VerseKey]string {
	m := make(map[ir.VerseKey]string, len(items))
	for _, item := range items {
		if _, seen := m[item.Key]; !seen {
			m[item.Key] = item.Text
		}
	}
	return m
}

func unionKeys(r ir.VerseRange, canonical map[ir.VerseKey]string, translations []map[ir.VerseKey]string) []ir.VerseKey {
	seen := make(map[ir.VerseKey]struct{}, len(canonical))
	var keys []ir.VerseKey
	add := func(key ir.VerseKey) {
		if !r.Contains(key) {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for key := range canonical {
		add(key)
	}
	for _, texts := range translations {
		for key := range texts {
			add(key)
		}
	}

	slices.SortFunc(keys, ir.VerseKey.Compare)
	return keys
}
