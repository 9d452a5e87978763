package rename

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Postmodum37/beacon-dl/internal/history"
	"github.com/Postmodum37/beacon-dl/internal/naming"
	"github.com/Postmodum37/beacon-dl/internal/testsupport"
)

func testOptions() naming.Options {
	return naming.Options{
		Resolution:    "1080p",
		SourceTag:     "WEB-DL",
		Container:     "mkv",
		AudioCodec:    "AAC",
		AudioChannels: "2.0",
		VideoCodec:    "H.264",
		ReleaseSuffix: "Pawsty",
	}
}

func insertRecord(t *testing.T, store *history.Store, contentID, filename string) {
	t.Helper()
	err := store.Insert(context.Background(), &history.Record{
		ContentID:   contentID,
		Slug:        contentID,
		Title:       "Episode",
		Filename:    filename,
		SizeBytes:   1 << 21,
		Resolution:  "1080p",
		Container:   "mkv",
		SourceTag:   "WEB-DL",
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert record: %v", err)
	}
}

func TestScanProposesOnlyDriftedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := cfg.Paths.DownloadDir

	current := "Campaign.4.S04E08.Wolf.and.Thunder.1080p.WEB-DL.AAC2.0.H.264-Pawsty.mkv"
	drifted := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264.mkv"
	insertRecord(t, store, "ep-8", current)
	insertRecord(t, store, "ep-7", drifted)
	testsupport.WriteFile(t, filepath.Join(dir, current), []byte("a"))
	testsupport.WriteFile(t, filepath.Join(dir, drifted), []byte("b"))

	engine := NewEngine(store, testOptions(), nil)
	proposals, err := engine.Scan(context.Background(), dir, "*.mkv")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("proposals = %d, want 1: %+v", len(proposals), proposals)
	}

	p := proposals[0]
	if !p.FromRecord || p.Reason != ReasonSchemaDrift {
		t.Fatalf("unexpected proposal: %+v", p)
	}
	if p.ContentID != "ep-7" {
		t.Fatalf("content id = %q", p.ContentID)
	}
	want := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264-Pawsty.mkv"
	if filepath.Base(p.NewPath) != want {
		t.Fatalf("new name = %q, want %q", filepath.Base(p.NewPath), want)
	}
}

func TestScanReparsesUnledgeredFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := cfg.Paths.DownloadDir

	orphan := "Campaign.4.S04E03.Oh.Campaign.Four.720p.WEB.x264.mkv"
	testsupport.WriteFile(t, filepath.Join(dir, orphan), []byte("x"))

	engine := NewEngine(store, testOptions(), nil)
	proposals, err := engine.Scan(context.Background(), dir, "*.mkv")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("proposals = %d, want 1", len(proposals))
	}

	p := proposals[0]
	if p.FromRecord || p.Reason != ReasonMetadataCorrection {
		t.Fatalf("unexpected proposal: %+v", p)
	}
	want := "Campaign.4.S04E03.Oh.Campaign.Four.1080p.WEB-DL.AAC2.0.H.264-Pawsty.mkv"
	if filepath.Base(p.NewPath) != want {
		t.Fatalf("new name = %q, want %q", filepath.Base(p.NewPath), want)
	}
}

func TestScanSkipsUnparseableFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := cfg.Paths.DownloadDir

	testsupport.WriteFile(t, filepath.Join(dir, "....mkv"), []byte("x"))

	engine := NewEngine(store, testOptions(), nil)
	proposals, err := engine.Scan(context.Background(), dir, "*.mkv")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(proposals) != 0 {
		t.Fatalf("proposals = %+v, want none", proposals)
	}
}

func TestApplyRenamesAndUpdatesLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := cfg.Paths.DownloadDir
	ctx := context.Background()

	drifted := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264.mkv"
	insertRecord(t, store, "ep-7", drifted)
	testsupport.WriteFile(t, filepath.Join(dir, drifted), []byte("b"))

	engine := NewEngine(store, testOptions(), nil)
	proposals, err := engine.Scan(ctx, dir, "*.mkv")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	result, err := engine.Apply(ctx, proposals)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Applied != 1 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	renamed := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264-Pawsty.mkv"
	if _, err := os.Stat(filepath.Join(dir, renamed)); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, drifted)); err == nil {
		t.Fatal("old file should be gone")
	}

	record, err := store.Lookup(ctx, "ep-7")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if record.Filename != renamed {
		t.Fatalf("ledger filename = %q, want %q", record.Filename, renamed)
	}

	// The migrated directory is clean on the next scan.
	again, err := engine.Scan(ctx, dir, "*.mkv")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("rescan proposals = %+v, want none", again)
	}
}

func TestApplySkipsCollisions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := cfg.Paths.DownloadDir
	ctx := context.Background()

	drifted := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264.mkv"
	target := "Campaign.4.S04E07.On.the.Scent.1080p.WEB-DL.AAC2.0.H.264-Pawsty.mkv"
	insertRecord(t, store, "ep-7", drifted)
	testsupport.WriteFile(t, filepath.Join(dir, drifted), []byte("old"))
	testsupport.WriteFile(t, filepath.Join(dir, target), []byte("existing"))

	engine := NewEngine(store, testOptions(), nil)
	proposals := []Proposal{{
		OldPath:    filepath.Join(dir, drifted),
		NewPath:    filepath.Join(dir, target),
		ContentID:  "ep-7",
		FromRecord: true,
		Reason:     ReasonSchemaDrift,
	}}

	result, err := engine.Apply(ctx, proposals)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Applied != 0 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}

	data, err := os.ReadFile(filepath.Join(dir, target))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "existing" {
		t.Fatal("collision target was overwritten")
	}
	record, err := store.Lookup(ctx, "ep-7")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if record.Filename != drifted {
		t.Fatal("ledger should be untouched after a skipped rename")
	}
}
