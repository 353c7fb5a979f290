// Package validation checks user-supplied file names and paths before
// they reach the filesystem.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxTranslationIDs caps how many translations one request may name.
	MaxTranslationIDs = 32
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTooManyIDs       = errors.New("too many translation ids")
)

// ValidateFilename checks that filename is a single safe path element.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}
	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}
	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}
	for _, r := range filename {
		if r == 0 || unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}
	return nil
}

// reservedIDChars would alter a SQLite URI ("?", "#") or a cache key ("|").
const reservedIDChars = "?#|"

// ValidateTranslationID checks a translation identifier. Identifiers are
// database file names inside the translations directory.
func ValidateTranslationID(id string) error {
	if err := ValidateFilename(id); err != nil {
		return err
	}
	if strings.ContainsAny(id, reservedIDChars) {
		return fmt.Errorf("%w: %q contains one of %q", ErrInvalidFilename, id, reservedIDChars)
	}
	if !strings.HasSuffix(id, ".db") {
		return fmt.Errorf("%w: %q must end in .db", ErrInvalidFilename, id)
	}
	return nil
}

// ValidateTranslationIDs checks every id and the total count.
func ValidateTranslationIDs(ids []string) error {
	if len(ids) > MaxTranslationIDs {
		return fmt.Errorf("%w: %d > %d", ErrTooManyIDs, len(ids), MaxTranslationIDs)
	}
	for _, id := range ids {
		if err := ValidateTranslationID(id); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePath checks length and rejects control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}
