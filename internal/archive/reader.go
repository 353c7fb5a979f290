// Package archive reads and writes compressed translation packages: a
// single database compressed with xz (.db.xz) or a tar bundle of
// databases (.tar.xz, .tar.gz).
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperParallel/internal/validation"
)

// Format identifies a package layout by file name.
type Format string

const (
	FormatUnknown Format = ""
	FormatDB      Format = "db"
	FormatDBXZ    Format = "db.xz"
	FormatTarXZ   Format = "tar.xz"
	FormatTarGZ   Format = "tar.gz"
)

const databaseSuffix = ".db"

// DetectFormat classifies path by its suffix.
func DetectFormat(p string) Format {
	switch {
	case strings.HasSuffix(p, ".db.xz"):
		return FormatDBXZ
	case strings.HasSuffix(p, ".tar.xz"):
		return FormatTarXZ
	case strings.HasSuffix(p, ".tar.gz"), strings.HasSuffix(p, ".tgz"):
		return FormatTarGZ
	case strings.HasSuffix(p, databaseSuffix):
		return FormatDB
	}
	return FormatUnknown
}

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// NewReader opens a .tar.xz or .tar.gz bundle.
func NewReader(p string) (*Reader, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var reader io.Reader
	var decompressor io.Closer

	switch DetectFormat(p) {
	case FormatTarXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case FormatTarGZ:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported archive format: %s", p)
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Visitor is called for each archive entry. Return true to stop.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all entries in the archive.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Walk opens a bundle and iterates through its entries.
func Walk(p string, visitor Visitor) error {
	r, err := NewReader(p)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// ExtractDatabases copies every regular .db entry of a bundle into dstDir,
// flattening directories. It returns the written paths in archive order.
// Entries whose base name is not a valid translation id are rejected.
func ExtractDatabases(archivePath, dstDir string) ([]string, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dstDir, err)
	}

	var written []string
	err := Walk(archivePath, func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, databaseSuffix) {
			return false, nil
		}
		name := path.Base(header.Name)
		if err := validation.ValidateTranslationID(name); err != nil {
			return true, fmt.Errorf("archive entry %q: %w", header.Name, err)
		}
		dst := filepath.Join(dstDir, name)
		if err := writeFile(dst, content); err != nil {
			return true, err
		}
		written = append(written, dst)
		return false, nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}

// writeFile streams r into a temporary file beside dst and renames it into
// place, so a failed write leaves any existing dst untouched.
func writeFile(dst string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return os.Rename(tmp.Name(), dst)
}
