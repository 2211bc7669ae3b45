package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"
)

const hashChunkSize = 64 * 1024

// ComputeHash returns the hex SHA-256 of the file at path, read in 64 KiB
// chunks. A missing file yields an empty hash and no error.
func ComputeHash(path string) (string, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, file, make([]byte, hashChunkSize)); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidateHash reports whether a stored hash matches a computed one.
func ValidateHash(stored, computed string) bool {
	return stored == computed
}
