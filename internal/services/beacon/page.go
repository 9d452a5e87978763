package beacon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Postmodum37/beacon-dl/internal/services"
)

// PageMetadata carries the Open Graph fields scraped from a catalog page.
type PageMetadata struct {
	Title       string
	Description string
	SiteName    string
}

var titleCaser = cases.Title(language.English)

// TitleFromSlug derives a display name from a URL slug, so "campaign-4"
// renders as "Campaign 4" when no better source exists.
func TitleFromSlug(slug string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(slug))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}

// ScrapePage fetches a catalog page and extracts its Open Graph metadata.
func (c *Client) ScrapePage(ctx context.Context, pageURL string) (*PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.session != nil {
		for _, cookie := range c.session.Cookies {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", "scrape-page", "fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", "scrape-page", fmt.Sprintf("page returned %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "beacon", "scrape-page", "parse page", err)
	}

	meta := &PageMetadata{
		Title:       ogContent(doc, "og:title"),
		Description: ogContent(doc, "og:description"),
		SiteName:    ogContent(doc, "og:site_name"),
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return meta, nil
}

func ogContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(value)
}

// CollectionDisplayName resolves a human-readable name for a collection
// slug. The catalog is authoritative; when it has no matching collection
// the public page's og:title is used, and failing that the slug itself is
// title-cased.
func (c *Client) CollectionDisplayName(ctx context.Context, collectionSlug string) (string, error) {
	if err := ValidateSlug(collectionSlug, "collection slug"); err != nil {
		return "", err
	}

	info, err := c.CollectionInfo(ctx, collectionSlug)
	if err == nil && strings.TrimSpace(info.Name) != "" {
		return info.Name, nil
	}
	if err != nil && !errors.Is(err, services.ErrNotFound) && !errors.Is(err, services.ErrFetchFailed) {
		return "", err
	}

	if c.baseURL != "" {
		if meta, scrapeErr := c.ScrapePage(ctx, c.baseURL+"/"+collectionSlug); scrapeErr == nil && meta.Title != "" {
			return meta.Title, nil
		}
	}
	return TitleFromSlug(collectionSlug), nil
}
