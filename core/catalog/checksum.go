package catalog

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperParallel/core/errors"
)

// Checksum returns the hex BLAKE3 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewIO("open", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.NewIO("hash", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumBytes returns the hex BLAKE3 digest of data.
func ChecksumBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the file at path still matches t.Checksum.
// A translation without a recorded checksum always verifies.
func Verify(t Translation, path string) (bool, error) {
	if t.Checksum == "" {
		return true, nil
	}
	sum, err := Checksum(path)
	if err != nil {
		return false, err
	}
	return sum == t.Checksum, nil
}
