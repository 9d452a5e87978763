package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/Postmodum37/beacon-dl/internal/history"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestQuickCheckRejectsSmallFile(t *testing.T) {
	path := writeFile(t, "stub.mkv", []byte("not a video"))

	size, err := QuickCheck(path)
	if err == nil {
		t.Fatal("expected error for tiny file")
	}
	if size != int64(len("not a video")) {
		t.Fatalf("size = %d, want %d", size, len("not a video"))
	}
}

func TestQuickCheckAcceptsPlausibleFile(t *testing.T) {
	path := writeFile(t, "episode.mkv", make([]byte, MinPlausibleSize))

	size, err := QuickCheck(path)
	if err != nil {
		t.Fatalf("QuickCheck: %v", err)
	}
	if size != MinPlausibleSize {
		t.Fatalf("size = %d, want %d", size, MinPlausibleSize)
	}
}

func TestQuickCheckMissingFile(t *testing.T) {
	if _, err := QuickCheck(filepath.Join(t.TempDir(), "gone.mkv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHashFile(t *testing.T) {
	data := []byte("deterministic content")
	path := writeFile(t, "data.bin", data)

	want := sha256.Sum256(data)
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if got != hex.EncodeToString(want[:]) {
		t.Fatalf("digest = %s, want %s", got, hex.EncodeToString(want[:]))
	}
}

func TestVerifyQuickMatch(t *testing.T) {
	data := []byte("episode bytes")
	path := writeFile(t, "episode.mkv", data)
	record := &history.Record{SizeBytes: int64(len(data))}

	result, err := Verify(record, path, false)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusVerified {
		t.Fatalf("status = %s, want verified (%s)", result.Status, result.Detail)
	}
}

func TestVerifySizeMismatch(t *testing.T) {
	path := writeFile(t, "episode.mkv", []byte("short"))
	record := &history.Record{SizeBytes: 9999}

	result, err := Verify(record, path, false)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusMismatch {
		t.Fatalf("status = %s, want mismatch", result.Status)
	}
	if result.ActualSize != int64(len("short")) {
		t.Fatalf("actual size = %d", result.ActualSize)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	record := &history.Record{SizeBytes: 10}

	result, err := Verify(record, filepath.Join(t.TempDir(), "gone.mkv"), true)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusMissing {
		t.Fatalf("status = %s, want missing", result.Status)
	}
}

func TestVerifyFullHashMismatch(t *testing.T) {
	data := []byte("episode bytes")
	path := writeFile(t, "episode.mkv", data)
	record := &history.Record{
		SizeBytes:   int64(len(data)),
		ContentHash: "deadbeef",
	}

	result, err := Verify(record, path, true)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusMismatch {
		t.Fatalf("status = %s, want mismatch", result.Status)
	}
	if result.ActualHash == "" {
		t.Fatal("expected actual hash to be reported")
	}
}

func TestVerifyFullHashMatch(t *testing.T) {
	data := []byte("episode bytes")
	path := writeFile(t, "episode.mkv", data)
	digest := sha256.Sum256(data)
	record := &history.Record{
		SizeBytes:   int64(len(data)),
		ContentHash: hex.EncodeToString(digest[:]),
	}

	result, err := Verify(record, path, true)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusVerified {
		t.Fatalf("status = %s, want verified (%s)", result.Status, result.Detail)
	}
}

func TestVerifyFullWithoutStoredHashFallsBackToSize(t *testing.T) {
	data := []byte("episode bytes")
	path := writeFile(t, "episode.mkv", data)
	record := &history.Record{SizeBytes: int64(len(data))}

	result, err := Verify(record, path, true)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusVerified {
		t.Fatalf("status = %s, want verified", result.Status)
	}
	if result.ActualHash != "" {
		t.Fatal("expected no hash computed without stored digest")
	}
}
