package metadata

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	seasonEpisodeToken = regexp.MustCompile(`^[Ss](\d{1,3})[Ee](\d{1,3})$`)
	resolutionToken    = regexp.MustCompile(`^\d{3,4}p$`)
)

// ParseFilename is the best-effort fallback for reconstructing naming
// metadata from an on-disk release name, used when a file is not present in
// the history ledger. It understands the dotted grammar the name builder
// emits: collection segments, an optional SxxEyy token, title segments, then
// the technical spec tail starting at the resolution token.
func ParseFilename(name string) Item {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Split(base, ".")

	seasonIdx := -1
	resIdx := len(tokens)
	var season, episode int
	for i, token := range tokens {
		if seasonIdx == -1 {
			if groups := seasonEpisodeToken.FindStringSubmatch(token); groups != nil {
				seasonIdx = i
				season = atoiLoose(groups[1])
				episode = atoiLoose(groups[2])
				continue
			}
		}
		if resolutionToken.MatchString(token) {
			resIdx = i
			break
		}
	}

	item := Item{}
	if seasonIdx >= 0 {
		item.IsSeries = true
		item.Season = season
		item.Episode = episode
		item.Collection = SanitizeTitle(strings.Join(tokens[:seasonIdx], " "))
		if item.Collection == PlaceholderTitle {
			item.Collection = ""
		}
		if seasonIdx+1 < resIdx {
			item.CleanTitle = SanitizeTitle(strings.Join(tokens[seasonIdx+1:resIdx], " "))
		} else {
			item.CleanTitle = PlaceholderTitle
		}
		return item
	}

	item.CleanTitle = SanitizeTitle(strings.Join(tokens[:resIdx], " "))
	return item
}
