package parallel

import (
	"github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
)

// EnsureDenseText returns one item per verse of r, in order. Verses missing
// from sparse get an empty string. When sparse repeats a key, the first
// occurrence wins. The order of sparse does not matter.
func EnsureDenseText(v ir.Versification, r ir.VerseRange, sparse []ir.TextItem) ([]ir.TextItem, error) {
	keys, err := ir.KeysInRange(v, r)
	if err != nil {
		return nil, errors.Wrap(err, "ensure dense text")
	}

	texts := make(map[ir.VerseKey]string, len(sparse))
	for _, item := range sparse {
		if _, seen := texts[item.Key]; !seen {
			texts[item.Key] = item.Text
		}
	}

	dense := make([]ir.TextItem, 0, len(sparse))
	for key := range keys {
		dense = append(dense, ir.TextItem{Key: key, Text: texts[key]})
	}
	return dense, nil
}
