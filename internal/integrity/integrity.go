// Package integrity checks downloaded files against the ledger. The quick
// check compares on-disk size only; the full check streams the file through
// SHA-256 and compares digests.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Postmodum37/beacon-dl/internal/history"
)

// MinPlausibleSize is the floor below which a finished download is treated
// as truncated. Real episodes are never this small; a file under the floor
// means the fetch tool wrote a stub or died mid-stream.
const MinPlausibleSize int64 = 1 << 20

// Status classifies a verification outcome.
type Status string

const (
	StatusVerified Status = "verified"
	StatusMismatch Status = "mismatch"
	StatusMissing  Status = "missing"
)

// Result reports one file's verification against its ledger record.
type Result struct {
	Status       Status
	ExpectedSize int64
	ActualSize   int64
	ExpectedHash string
	ActualHash   string
	Detail       string
}

// FileSize returns the on-disk size of path. Callers distinguish a missing
// file via errors.Is(err, fs.ErrNotExist).
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("stat %s: is a directory", path)
	}
	return info.Size(), nil
}

// QuickCheck confirms path exists and is at least MinPlausibleSize bytes.
// Returns the observed size either way so callers can report it.
func QuickCheck(path string) (int64, error) {
	size, err := FileSize(path)
	if err != nil {
		return 0, err
	}
	if size < MinPlausibleSize {
		return size, fmt.Errorf("file %s is %d bytes, below plausible minimum", path, size)
	}
	return size, nil
}

// HashFile streams path through SHA-256 and returns the lowercase hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks path against record. The quick mode compares sizes only.
// When full is set and the record carries a content hash, the file is also
// hashed and compared; a record without a stored hash falls back to the
// size comparison alone.
func Verify(record *history.Record, path string, full bool) (Result, error) {
	result := Result{
		ExpectedSize: record.SizeBytes,
		ExpectedHash: record.ContentHash,
	}

	size, err := FileSize(path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = StatusMissing
		result.Detail = "file not found on disk"
		return result, nil
	}
	if err != nil {
		return result, err
	}
	result.ActualSize = size

	if record.SizeBytes > 0 && size != record.SizeBytes {
		result.Status = StatusMismatch
		result.Detail = fmt.Sprintf("size %d does not match recorded %d", size, record.SizeBytes)
		return result, nil
	}

	if full && record.ContentHash != "" {
		digest, err := HashFile(path)
		if err != nil {
			return result, err
		}
		result.ActualHash = digest
		if digest != record.ContentHash {
			result.Status = StatusMismatch
			result.Detail = "content hash does not match ledger"
			return result, nil
		}
	}

	result.Status = StatusVerified
	return result, nil
}
