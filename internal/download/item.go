package download

import (
	"github.com/Postmodum37/beacon-dl/internal/services/beacon"
)

// Status tracks an item through the pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDeduped   Status = "deduped"
	StatusFetching  Status = "fetching"
	StatusMuxing    Status = "muxing"
	StatusVerifying Status = "verifying"
	StatusRecorded  Status = "recorded"
	StatusFailed    Status = "failed"
)

// Item is one unit of work for the pipeline.
type Item struct {
	ContentID  string
	Slug       string
	RawTitle   string
	Season     *int
	Episode    *int
	Collection string
	URL        string
}

// ItemFromContent converts a catalog entry into a pipeline item. The
// page URL is what the fetch tool navigates to; collectionName overrides
// the embedded collection when the catalog supplied a better display
// name.
func ItemFromContent(content *beacon.Content, baseURL, collectionName string) Item {
	item := Item{
		ContentID: content.ID,
		Slug:      content.Slug,
		RawTitle:  content.Title,
		Season:    content.SeasonNumber,
		Episode:   content.EpisodeNumber,
	}
	if collectionName != "" {
		item.Collection = collectionName
	} else if content.PrimaryCollection != nil {
		item.Collection = content.PrimaryCollection.Name
	}
	if baseURL != "" {
		item.URL = baseURL + "/content/" + content.Slug
	}
	return item
}

// SelectRange returns the inclusive 1-based slice [start, end] of items.
// Out-of-bounds ends are clamped; an empty or inverted range yields no
// items. Zero values mean "from the beginning" and "to the end".
func SelectRange(items []Item, start, end int) []Item {
	if len(items) == 0 {
		return nil
	}
	if start < 1 {
		start = 1
	}
	if end < 1 || end > len(items) {
		end = len(items)
	}
	if start > end || start > len(items) {
		return nil
	}
	return items[start-1 : end]
}
