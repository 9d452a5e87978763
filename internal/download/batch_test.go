package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Postmodum37/beacon-dl/internal/services"
	"github.com/Postmodum37/beacon-dl/internal/services/ytdlp"
	"github.com/Postmodum37/beacon-dl/internal/testsupport"
)

func batchItems(ids ...string) []Item {
	items := make([]Item, 0, len(ids))
	for i, id := range ids {
		season := 4
		episode := i + 1
		items = append(items, Item{
			ContentID:  id,
			Slug:       id,
			RawTitle:   fmt.Sprintf("C4 E%03d | Episode", i+1),
			Season:     &season,
			Episode:    &episode,
			Collection: "Campaign 4",
			URL:        "https://beacon.tv/content/" + id,
		})
	}
	return items
}

type flakyFetcher struct {
	fakeFetcher
	failOn map[string]error
}

func (f *flakyFetcher) DownloadVideo(ctx context.Context, url, destPath, resolution string, progress func(ytdlp.ProgressUpdate)) error {
	for slug, err := range f.failOn {
		if strings.HasSuffix(url, slug) {
			return err
		}
	}
	return f.fakeFetcher.DownloadVideo(ctx, url, destPath, resolution, progress)
}

func TestRunBatchContinuesPastFailures(t *testing.T) {
	cfg := newTestConfig(t)
	fetcher := &flakyFetcher{failOn: map[string]error{
		"ep-2": services.Wrap(services.ErrFetchFailed, "ytdlp", "download-video", "stream reset", nil),
	}}
	store := testsupport.MustOpenStore(t, cfg)
	reporter := &recordingReporter{}
	orch := New(cfg, store, fetcher, &fakeMuxer{}, WithReporter(reporter))

	summary, err := orch.RunBatch(context.Background(), batchItems("ep-1", "ep-2", "ep-3"))
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].ContentID != "ep-2" {
		t.Fatalf("failures = %+v", summary.Failures)
	}
	if summary.Failures[0].Reason != "fetch-failed" {
		t.Fatalf("reason = %q", summary.Failures[0].Reason)
	}
	if reporter.started != 3 {
		t.Fatalf("started events = %d", reporter.started)
	}
	if len(reporter.succeeded) != 2 || len(reporter.failed) != 1 {
		t.Fatalf("reporter events: %+v %+v", reporter.succeeded, reporter.failed)
	}
	if len(reporter.summaries) != 1 {
		t.Fatal("expected one batch summary event")
	}
}

func TestRunBatchCountsSkips(t *testing.T) {
	cfg := newTestConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	orch := New(cfg, store, &fakeFetcher{}, &fakeMuxer{})
	ctx := context.Background()

	items := batchItems("ep-1")
	if _, err := orch.RunBatch(ctx, items); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	summary, err := orch.RunBatch(ctx, items)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if summary.Skipped != 1 || summary.Succeeded != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunBatchEscalatesFatalErrors(t *testing.T) {
	cfg := newTestConfig(t)
	fetcher := &flakyFetcher{failOn: map[string]error{
		"ep-1": services.Wrap(services.ErrAuthUnavailable, "auth", "load", "session expired", nil),
	}}
	store := testsupport.MustOpenStore(t, cfg)
	orch := New(cfg, store, fetcher, &fakeMuxer{})

	summary, err := orch.RunBatch(context.Background(), batchItems("ep-1", "ep-2", "ep-3"))
	if !errors.Is(err, services.ErrAuthUnavailable) {
		t.Fatalf("expected ErrAuthUnavailable, got %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("failed = %d, want 1", summary.Failed)
	}
	if summary.Succeeded != 0 {
		t.Fatal("batch should stop before processing further items")
	}
}

func TestRunBatchEmptyIsNoop(t *testing.T) {
	cfg := newTestConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	orch := New(cfg, store, &fakeFetcher{}, &fakeMuxer{})

	summary, err := orch.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if summary.Total != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}
