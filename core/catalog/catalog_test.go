package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		tr   Translation
		want string
	}{
		{"foreign first", Translation{Filename: "a.db", Name: "A", Translator: "Eng", TranslatorForeign: "Native"}, "Native"},
		{"translator", Translation{Filename: "one.db", Name: "One", Translator: "First"}, "First"},
		{"name", Translation{Filename: "two.db", Name: "Two"}, "Two"},
		{"filename", Translation{Filename: "three.db"}, "three.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	stored, err := s.Upsert(ctx, Translation{Filename: "one.db", Name: "One", Translator: "First", Version: 1})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if stored.ID == 0 {
		t.Error("Upsert() did not assign an ID")
	}

	updated, err := s.Upsert(ctx, Translation{Filename: "one.db", Name: "One", Translator: "First", Version: 2})
	if err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if updated.ID != stored.ID {
		t.Errorf("ID changed on update: %d -> %d", stored.ID, updated.ID)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}

	got, err := s.Get(ctx, "one.db")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DisplayName() != "First" {
		t.Errorf("DisplayName() = %q, want %q", got.DisplayName(), "First")
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing.db")
	if !errors.Is(err, jperrors.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStoreUpsertRequiresFilename(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Upsert(context.Background(), Translation{Name: "Nameless"})
	if !errors.Is(err, jperrors.ErrInvalidInput) {
		t.Errorf("Upsert() error = %v, want ErrInvalidInput", err)
	}
}

func TestStoreListAndCatalog(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, tr := range []Translation{
		{Filename: "two.db", Translator: "Second", DisplayOrder: 2},
		{Filename: "one.db", Translator: "First", DisplayOrder: 1},
		{Filename: "three.db", Translator: "Third", DisplayOrder: 2},
	} {
		if _, err := s.Upsert(ctx, tr); err != nil {
			t.Fatalf("Upsert(%s) error = %v", tr.Filename, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"one.db", "three.db", "two.db"}
	if len(list) != len(want) {
		t.Fatalf("len(List()) = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].Filename != w {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].Filename, w)
		}
	}

	cat, err := s.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat["two.db"].DisplayName() != "Second" {
		t.Errorf("cat[two.db] = %q, want Second", cat["two.db"].DisplayName())
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Upsert(ctx, Translation{Filename: "one.db"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := s.Delete(ctx, "one.db"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "one.db"); !errors.Is(err, jperrors.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.db")
	data := []byte("translation payload")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	sum, err := Checksum(path)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	if len(sum) != 64 {
		t.Errorf("len(Checksum()) = %d, want 64", len(sum))
	}
	if sum != ChecksumBytes(data) {
		t.Errorf("Checksum() = %s, ChecksumBytes() = %s", sum, ChecksumBytes(data))
	}

	ok, err := Verify(Translation{Checksum: sum}, path)
	if err != nil || !ok {
		t.Errorf("Verify() = %v, %v; want true, nil", ok, err)
	}

	if err := os.WriteFile(path, []byte("tampered"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	ok, err = Verify(Translation{Checksum: sum}, path)
	if err != nil || ok {
		t.Errorf("Verify() after change = %v, %v; want false, nil", ok, err)
	}

	ok, _ = Verify(Translation{}, path)
	if !ok {
		t.Error("Verify() without checksum = false, want true")
	}
}
