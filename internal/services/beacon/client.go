package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Postmodum37/beacon-dl/internal/services"
	"github.com/Postmodum37/beacon-dl/internal/services/auth"
)

// Catalog defines the metadata operations the download pipeline needs.
type Catalog interface {
	ContentBySlug(ctx context.Context, slug string) (*Content, error)
	LatestEpisode(ctx context.Context, collectionSlug string) (*Content, error)
	SeriesEpisodes(ctx context.Context, collectionSlug string, episodicOnly bool, limit int) ([]Content, error)
	ListCollections(ctx context.Context, seriesOnly bool) ([]Collection, error)
	CollectionInfo(ctx context.Context, collectionSlug string) (*Collection, error)
}

// Client talks to the Beacon GraphQL endpoint using an authenticated
// browser session.
type Client struct {
	endpoint   string
	baseURL    string
	userAgent  string
	session    *auth.Session
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]string // collection slug -> id
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCollectionCache seeds the collection slug to id cache so known
// series resolve without a lookup round trip.
func WithCollectionCache(cache map[string]string) Option {
	return func(c *Client) {
		for slug, id := range cache {
			c.cache[slug] = id
		}
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// New creates a catalog client. The session may be nil for endpoints that
// serve public metadata, but authenticated catalogs will reject queries.
func New(endpoint, baseURL string, session *auth.Session, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("beacon endpoint required")
	}
	client := &Client{
		endpoint:   endpoint,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		session:    session,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ContentBySlug fetches one catalog entry by its URL slug. Returns
// ErrNotFound when the catalog has no such entry.
func (c *Client) ContentBySlug(ctx context.Context, slug string) (*Content, error) {
	if err := ValidateSlug(slug, "content slug"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`query GetContentBySlug {
  Contents(where: { slug: { equals: %q } }, limit: 1) {
    docs {
      id
      title
      slug
      seasonNumber
      episodeNumber
      releaseDate
      duration
      description
      primaryCollection { id name slug }
    }
  }
}`, slug)

	resp, err := c.query(ctx, "content lookup", query)
	if err != nil {
		return nil, err
	}
	if resp.Data.Contents == nil || len(resp.Data.Contents.Docs) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "beacon", "content-by-slug", fmt.Sprintf("no content for slug %s", slug), nil)
	}
	content := resp.Data.Contents.Docs[0]
	return &content, nil
}

// LatestEpisode returns the newest episodic entry in a collection by
// release date.
func (c *Client) LatestEpisode(ctx context.Context, collectionSlug string) (*Content, error) {
	collectionID, err := c.collectionID(ctx, collectionSlug)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`query GetLatestEpisode {
  Contents(
    where: {
      primaryCollection: { equals: %q }
      seasonNumber: { not_equals: null }
      episodeNumber: { not_equals: null }
    }
    sort: "-releaseDate"
    limit: 1
  ) {
    docs {
      id
      title
      slug
      seasonNumber
      episodeNumber
      releaseDate
      duration
      description
      primaryCollection { id name slug }
    }
  }
}`, collectionID)

	resp, err := c.query(ctx, "latest episode", query)
	if err != nil {
		return nil, err
	}
	if resp.Data.Contents == nil || len(resp.Data.Contents.Docs) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "beacon", "latest-episode", fmt.Sprintf("collection %s has no episodes", collectionSlug), nil)
	}
	content := resp.Data.Contents.Docs[0]
	return &content, nil
}

// SeriesEpisodes lists a collection's entries sorted by season then
// episode number. A limit of 0 or less uses the catalog default of 200.
func (c *Client) SeriesEpisodes(ctx context.Context, collectionSlug string, episodicOnly bool, limit int) ([]Content, error) {
	collectionID, err := c.collectionID(ctx, collectionSlug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}

	episodicFilter := ""
	if episodicOnly {
		episodicFilter = `
      seasonNumber: { not_equals: null }
      episodeNumber: { not_equals: null }`
	}

	query := fmt.Sprintf(`query GetSeriesEpisodes {
  Contents(
    where: {
      primaryCollection: { equals: %q }%s
    }
    sort: "seasonNumber,episodeNumber"
    limit: %d
  ) {
    docs {
      id
      title
      slug
      seasonNumber
      episodeNumber
      releaseDate
      duration
      description
    }
  }
}`, collectionID, episodicFilter, limit)

	resp, err := c.query(ctx, "series episodes", query)
	if err != nil {
		return nil, err
	}
	if resp.Data.Contents == nil {
		return nil, nil
	}
	return resp.Data.Contents.Docs, nil
}

// ListCollections enumerates catalog collections sorted by name.
func (c *Client) ListCollections(ctx context.Context, seriesOnly bool) ([]Collection, error) {
	whereClause := ""
	if seriesOnly {
		whereClause = `where: { isSeries: { equals: true } } `
	}

	query := fmt.Sprintf(`query GetCollections {
  Collections(%ssort: "name", limit: 100) {
    docs {
      id
      name
      slug
      isSeries
      itemCount
    }
  }
}`, whereClause)

	resp, err := c.query(ctx, "list collections", query)
	if err != nil {
		return nil, err
	}
	if resp.Data.Collections == nil {
		return nil, nil
	}
	return resp.Data.Collections.Docs, nil
}

// CollectionInfo fetches full metadata for one collection.
func (c *Client) CollectionInfo(ctx context.Context, collectionSlug string) (*Collection, error) {
	collectionID, err := c.collectionID(ctx, collectionSlug)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`query GetCollection {
  Collection(id: %q) {
    id
    name
    slug
    isSeries
    itemCount
  }
}`, collectionID)

	resp, err := c.query(ctx, "collection info", query)
	if err != nil {
		return nil, err
	}
	if resp.Data.Collection == nil {
		return nil, services.Wrap(services.ErrNotFound, "beacon", "collection-info", fmt.Sprintf("collection %s not found", collectionSlug), nil)
	}
	return resp.Data.Collection, nil
}

// collectionID resolves a collection slug to its catalog id, consulting
// the seeded cache first. Successful lookups are cached for the life of
// the client.
func (c *Client) collectionID(ctx context.Context, collectionSlug string) (string, error) {
	if err := ValidateSlug(collectionSlug, "collection slug"); err != nil {
		return "", err
	}

	c.mu.Lock()
	if id, ok := c.cache[collectionSlug]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	query := fmt.Sprintf(`query GetCollection {
  Collections(where: { slug: { equals: %q } }, limit: 1) {
    docs {
      id
      name
      slug
    }
  }
}`, collectionSlug)

	resp, err := c.query(ctx, "collection lookup", query)
	if err != nil {
		return "", err
	}
	if resp.Data.Collections == nil || len(resp.Data.Collections.Docs) == 0 {
		return "", services.Wrap(services.ErrNotFound, "beacon", "collection-lookup", fmt.Sprintf("collection not found: %s", collectionSlug), nil)
	}
	id := resp.Data.Collections.Docs[0].ID

	c.mu.Lock()
	c.cache[collectionSlug] = id
	c.mu.Unlock()
	return id, nil
}

func (c *Client) query(ctx context.Context, operation, query string) (*graphQLResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.session != nil {
		for _, cookie := range c.session.Cookies {
			req.AddCookie(cookie)
		}
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, services.Wrap(services.ErrAuthUnavailable, "beacon", operation, fmt.Sprintf("catalog rejected session (%d)", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", operation, fmt.Sprintf("catalog returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", operation, "decode catalog response", err)
	}
	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			messages = append(messages, e.Message)
		}
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", operation, "graphql errors: "+strings.Join(messages, ", "), nil)
	}
	return &payload, nil
}
