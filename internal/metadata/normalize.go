package metadata

import (
	"regexp"
	"strings"
)

// Item is the canonical form of a catalog record's naming metadata. Season
// and Episode are meaningful only when IsSeries is true; they are always set
// or cleared together.
type Item struct {
	IsSeries   bool
	Season     int
	Episode    int
	CleanTitle string
	Collection string
}

// Match carries the season, episode, and remaining title captured by a
// matcher.
type Match struct {
	Season  int
	Episode int
	Title   string
}

// Matcher attempts to parse one episode-title format. Matchers are pure: a
// title either matches or it does not, and no matcher inspects another's
// result.
type Matcher func(title string) (Match, bool)

var (
	// "C4 E007 | On the Scent" and similar tagged forms.
	taggedPipePattern = regexp.MustCompile(`^[A-Za-z]+(\d+)\s+E(\d+)\s*\|\s*(.+)$`)
	// "S04E07 - On the Scent" / "S04E07: On the Scent"
	seasonEpisodeDashPattern = regexp.MustCompile(`^[Ss](\d+)[Ee](\d+)\s*[-:]\s*(.+)$`)
	// "S04E07 On the Scent"
	seasonEpisodePlainPattern = regexp.MustCompile(`^[Ss](\d+)[Ee](\d+)\s+(.+)$`)
	// "4x07 - On the Scent"
	crossNotationPattern = regexp.MustCompile(`^(\d+)x(\d+)\s*[-:]\s*(.+)$`)
)

// matchers run in priority order; the first match wins. New formats are
// appended here without touching existing entries.
var matchers = []Matcher{
	regexMatcher(taggedPipePattern),
	regexMatcher(seasonEpisodeDashPattern),
	regexMatcher(seasonEpisodePlainPattern),
	regexMatcher(crossNotationPattern),
}

func regexMatcher(pattern *regexp.Regexp) Matcher {
	return func(title string) (Match, bool) {
		groups := pattern.FindStringSubmatch(strings.TrimSpace(title))
		if groups == nil {
			return Match{}, false
		}
		return Match{
			Season:  atoiLoose(groups[1]),
			Episode: atoiLoose(groups[2]),
			Title:   strings.TrimSpace(groups[3]),
		}, true
	}
}

// Normalize derives the canonical naming metadata for a raw catalog title.
// explicitSeason/explicitEpisode, when both provided by the caller, override
// pattern-derived values (used when the catalog supplies structured fields).
// Unparseable titles never fail; they fall back to a standalone special.
func Normalize(rawTitle string, explicitSeason, explicitEpisode *int, collection string) Item {
	item := Item{Collection: strings.TrimSpace(collection)}

	matchedTitle := rawTitle
	for _, match := range matchers {
		if m, ok := match(rawTitle); ok {
			item.IsSeries = true
			item.Season = m.Season
			item.Episode = m.Episode
			matchedTitle = m.Title
			break
		}
	}

	if explicitSeason != nil && explicitEpisode != nil {
		item.IsSeries = true
		item.Season = *explicitSeason
		item.Episode = *explicitEpisode
	}

	if item.IsSeries {
		item.CleanTitle = SanitizeTitle(matchedTitle)
	} else {
		item.CleanTitle = SanitizeTitle(rawTitle)
	}
	return item
}
