package ir

import (
	"cmp"
	"fmt"
)

// VerseKey addresses a single verse.
type VerseKey struct {
	// Chapter is the 1-indexed chapter (sura) number.
	Chapter int `json:"chapter"`

	// Verse is the 1-indexed verse (ayah) number within the chapter.
	Verse int `json:"verse"`
}

// Compare orders keys by chapter, then verse. It returns -1, 0 or +1.
func (k VerseKey) Compare(other VerseKey) int {
	if c := cmp.Compare(k.Chapter, other.Chapter); c != 0 {
		return c
	}
	return cmp.Compare(k.Verse, other.Verse)
}

// Less reports whether k sorts before other.
func (k VerseKey) Less(other VerseKey) bool {
	return k.Compare(other) < 0
}

// String returns the key in "chapter:verse" form.
func (k VerseKey) String() string {
	return fmt.Sprintf("%d:%d", k.Chapter, k.Verse)
}

// TextItem is one verse of text from a canonical or translation source.
// Lists of TextItem are ordered by key and may be sparse.
type TextItem struct {
	Key  VerseKey `json:"key"`
	Text string   `json:"text"`
}

// NewTextItem is shorthand for building a TextItem from its parts.
func NewTextItem(chapter, verse int, text string) TextItem {
	return TextItem{Key: VerseKey{Chapter: chapter, Verse: verse}, Text: text}
}
