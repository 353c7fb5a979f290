package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{"valid", "sahih.db", nil},
		{"unicode", "ترجمة.db", nil},
		{"empty", "", ErrInvalidFilename},
		{"dot", ".", ErrInvalidFilename},
		{"dotdot", "..", ErrInvalidFilename},
		{"slash", "a/b.db", ErrInvalidFilename},
		{"backslash", `a\b.db`, ErrInvalidFilename},
		{"null byte", "a\x00.db", ErrInvalidFilename},
		{"newline", "a\n.db", ErrInvalidFilename},
		{"hyphen", "-rf.db", ErrInvalidFilename},
		{"too long", strings.Repeat("a", MaxFilenameLength+1), ErrFilenameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFilename(%q) error = %v", tt.filename, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilename(%q) error = %v, want %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTranslationID(t *testing.T) {
	if err := ValidateTranslationID("one.db"); err != nil {
		t.Errorf("ValidateTranslationID(one.db) error = %v", err)
	}
	for _, id := range []string{"one.txt", "../one.db", "one", "x?mode=rwc.db", "x#frag.db", "a.db|b.db"} {
		if err := ValidateTranslationID(id); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("ValidateTranslationID(%q) error = %v, want ErrInvalidFilename", id, err)
		}
	}
}

func TestValidateTranslationIDs(t *testing.T) {
	if err := ValidateTranslationIDs([]string{"one.db", "two.db"}); err != nil {
		t.Errorf("ValidateTranslationIDs() error = %v", err)
	}
	if err := ValidateTranslationIDs(nil); err != nil {
		t.Errorf("ValidateTranslationIDs(nil) error = %v", err)
	}

	many := make([]string, MaxTranslationIDs+1)
	for i := range many {
		many[i] = "x.db"
	}
	if err := ValidateTranslationIDs(many); !errors.Is(err, ErrTooManyIDs) {
		t.Errorf("ValidateTranslationIDs(many) error = %v, want ErrTooManyIDs", err)
	}
	if err := ValidateTranslationIDs([]string{"one.db", "bad"}); !errors.Is(err, ErrInvalidFilename) {
		t.Errorf("ValidateTranslationIDs(bad) error = %v, want ErrInvalidFilename", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr error
	}{
		{"/var/lib/parallel/quran.db", nil},
		{"relative/one.db", nil},
		{"", ErrEmptyPath},
		{strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"a\x00b", ErrInvalidCharacter},
		{"a\tb", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ValidatePath(%q) error = %v", tt.path, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidatePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
		}
	}
}
