// Package parallel aligns canonical verse text with any number of
// translations.
//
// All functions in this package are pure: they read their arguments,
// allocate fresh output, and are safe to call from many goroutines.
//
//   - EnsureDenseText fills the gaps in one sparse text list so every verse
//     of a range has exactly one entry.
//   - Combine merges canonical text and translations into one Record per
//     verse that any input actually mentions.
//   - ResolveNames turns translation identifiers into display names.
package parallel
