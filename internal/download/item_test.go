package download

import (
	"testing"

	"github.com/Postmodum37/beacon-dl/internal/services/beacon"
)

func TestItemFromContent(t *testing.T) {
	season, episode := 4, 7
	content := &beacon.Content{
		ID:            "abc123",
		Title:         "C4 E007 | On the Scent",
		Slug:          "c4-e007-on-the-scent",
		SeasonNumber:  &season,
		EpisodeNumber: &episode,
		PrimaryCollection: &beacon.CollectionRef{
			ID: "col", Name: "Campaign 4", Slug: "campaign-4",
		},
	}

	item := ItemFromContent(content, "https://beacon.tv", "")
	if item.ContentID != "abc123" || item.Collection != "Campaign 4" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.URL != "https://beacon.tv/content/c4-e007-on-the-scent" {
		t.Fatalf("url = %q", item.URL)
	}
	if *item.Season != 4 || *item.Episode != 7 {
		t.Fatalf("season/episode = %v/%v", item.Season, item.Episode)
	}

	override := ItemFromContent(content, "", "Campaign Four")
	if override.Collection != "Campaign Four" {
		t.Fatalf("collection override = %q", override.Collection)
	}
	if override.URL != "" {
		t.Fatalf("url without base = %q", override.URL)
	}
}

func TestSelectRange(t *testing.T) {
	items := batchItems("ep-1", "ep-2", "ep-3", "ep-4")

	tests := []struct {
		name       string
		start, end int
		want       []string
	}{
		{"full range", 1, 4, []string{"ep-1", "ep-2", "ep-3", "ep-4"}},
		{"middle", 2, 3, []string{"ep-2", "ep-3"}},
		{"single", 3, 3, []string{"ep-3"}},
		{"zero means all", 0, 0, []string{"ep-1", "ep-2", "ep-3", "ep-4"}},
		{"end clamped", 2, 99, []string{"ep-2", "ep-3", "ep-4"}},
		{"inverted", 3, 2, nil},
		{"start past end", 9, 12, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRange(items, tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ContentID != id {
					t.Fatalf("got[%d] = %s, want %s", i, got[i].ContentID, id)
				}
			}
		})
	}

	if got := SelectRange(nil, 1, 1); got != nil {
		t.Fatal("empty input should yield nil")
	}
}
