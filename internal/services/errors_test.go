package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Postmodum37/beacon-dl/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrMuxFailed, "muxer", "remux", "ffmpeg exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrMuxFailed) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"muxer", "remux", "ffmpeg exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestFatalClassification(t *testing.T) {
	storageErr := services.Wrap(services.ErrStorageUnavailable, "history", "open", "cannot open ledger", nil)
	if !services.Fatal(storageErr) {
		t.Fatalf("expected storage error to be fatal: %v", storageErr)
	}
	authErr := services.Wrap(services.ErrAuthUnavailable, "auth", "load", "session expired", nil)
	if !services.Fatal(authErr) {
		t.Fatalf("expected auth error to be fatal: %v", authErr)
	}
	fetchErr := services.Wrap(services.ErrFetchFailed, "fetch", "download", "timeout", errors.New("io"))
	if services.Fatal(fetchErr) {
		t.Fatalf("expected fetch error to stay per-item: %v", fetchErr)
	}
	if services.Fatal(nil) {
		t.Fatal("nil error must not be fatal")
	}
}

func TestReasonLabels(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{nil, ""},
		{services.Wrap(services.ErrTruncatedOutput, "verify", "quick check", "too small", nil), "truncated-output"},
		{services.Wrap(services.ErrValidation, "catalog", "slug", "bad slug", nil), "validation"},
		{services.Wrap(services.ErrRenameCollision, "rename", "apply", "exists", nil), "rename-collision"},
		{errors.New("plain"), "error"},
	}
	for _, tc := range cases {
		if got := services.Reason(tc.err); got != tc.reason {
			t.Fatalf("Reason(%v) = %q, want %q", tc.err, got, tc.reason)
		}
	}
}
