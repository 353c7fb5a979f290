package ir

// Versification supplies the chapter and verse counts needed to walk a range.
type Versification interface {
	// ChapterCount returns the number of chapters.
	ChapterCount() int

	// VerseCount returns the number of verses in a 1-indexed chapter,
	// or 0 when the chapter does not exist.
	VerseCount(chapter int) int
}

// Table is a Versification backed by a slice of per-chapter verse counts.
// Index 0 holds the count for chapter 1.
type Table []int

// ChapterCount implements Versification.
func (t Table) ChapterCount() int {
	return len(t)
}

// VerseCount implements Versification.
func (t Table) VerseCount(chapter int) int {
	if chapter < 1 || chapter > len(t) {
		return 0
	}
	return t[chapter-1]
}

// TotalVerses returns the sum of all chapter verse counts.
func (t Table) TotalVerses() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Hafs is the verse numbering of the Quran in the Hafs recitation:
// 114 suras, 6236 ayat.
var Hafs = Table{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}
