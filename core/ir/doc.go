// Package ir provides the verse addressing types shared by every Juniper
// Parallel component.
//
// # Core Types
//
//   - VerseKey: a (chapter, verse) address, ordered lexicographically
//   - VerseRange: a contiguous span of keys that may cross chapter boundaries
//   - TextItem: a keyed piece of text produced by a data source
//   - Versification: injected chapter/verse-count metadata
//
// # Iteration
//
// KeysInRange walks a range verse-by-verse, rolling over to the next chapter
// once the current chapter's last verse has been passed. The walk needs a
// Versification to know where chapters end, so callers pass one explicitly:
// Hafs for the 114-chapter Quran, or a Table of synthetic counts in tests.
//
// # Example
//
//	r, err := ir.ParseRange(ir.Hafs, "2:255-257")
//	if err != nil {
//	    return err
//	}
//	keys, err := ir.KeysInRange(ir.Hafs, r)
//	if err != nil {
//	    return err
//	}
//	for key := range keys {
//	    fmt.Println(key)
//	}
package ir
