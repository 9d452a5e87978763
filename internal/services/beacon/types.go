package beacon

// CollectionRef is the minimal collection identity embedded in content
// payloads.
type CollectionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Content is one catalog entry. Season and episode numbers are pointers
// because standalone specials carry neither.
type Content struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Slug              string         `json:"slug"`
	SeasonNumber      *int           `json:"seasonNumber"`
	EpisodeNumber     *int           `json:"episodeNumber"`
	ReleaseDate       string         `json:"releaseDate"`
	Duration          float64        `json:"duration"`
	Description       string         `json:"description"`
	PrimaryCollection *CollectionRef `json:"primaryCollection"`
}

// Episodic reports whether the entry carries both a season and an
// episode number.
func (c *Content) Episodic() bool {
	return c != nil && c.SeasonNumber != nil && c.EpisodeNumber != nil
}

// Collection is a series or one-shot grouping in the catalog.
type Collection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsSeries  bool   `json:"isSeries"`
	ItemCount int    `json:"itemCount"`
}

type docsEnvelope[T any] struct {
	Docs []T `json:"docs"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data struct {
		Contents    *docsEnvelope[Content]    `json:"Contents"`
		Collections *docsEnvelope[Collection] `json:"Collections"`
		Collection  *Collection               `json:"Collection"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
