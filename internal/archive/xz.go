package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// DecompressXZ expands the xz file src into dst. An existing dst is
// replaced only once the whole stream has been decoded.
func DecompressXZ(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	xzr, err := xz.NewReader(in)
	if err != nil {
		return fmt.Errorf("xz reader: %w", err)
	}
	return writeFile(dst, xzr)
}

// CompressXZ writes src into dst compressed with xz.
func CompressXZ(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	xzw, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := io.Copy(xzw, in); err != nil {
		xzw.Close()
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("finish xz stream: %w", err)
	}
	return out.Close()
}
