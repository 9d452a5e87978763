package naming

import (
	"fmt"
	"strings"

	"github.com/Postmodum37/beacon-dl/internal/config"
	"github.com/Postmodum37/beacon-dl/internal/metadata"
)

// Options enumerates the configurable parts of a release name.
type Options struct {
	Resolution    string
	SourceTag     string
	Container     string
	AudioCodec    string
	AudioChannels string
	VideoCodec    string
	// ReleaseSuffix, when set, is appended as a release-group style "-Suffix"
	// segment before the extension.
	ReleaseSuffix string
}

// OptionsFromConfig maps the configured naming section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Resolution:    cfg.Naming.Resolution,
		SourceTag:     cfg.Naming.SourceTag,
		Container:     cfg.Naming.Container,
		AudioCodec:    cfg.Naming.AudioCodec,
		AudioChannels: cfg.Naming.AudioChannels,
		VideoCodec:    cfg.Naming.VideoCodec,
		ReleaseSuffix: cfg.Naming.ReleaseGroup,
	}
}

// BuildName renders the deterministic release filename for an item. Identical
// inputs always produce an identical string; history lookups and rename
// re-derivation both depend on that.
//
// Series:     {collection}.S{ss}E{ee}.{title}.{spec}.{container}
// Standalone: {collection}.{title}.{spec}.{container}, where the collection
// prefix is dropped when the title already begins with it.
func BuildName(item metadata.Item, opts Options) string {
	spec := specSegment(opts)
	title := Dotted(item.CleanTitle)
	collection := Dotted(item.Collection)

	var parts []string
	if item.IsSeries {
		parts = append(parts, collection, fmt.Sprintf("S%02dE%02d", item.Season, item.Episode), title)
	} else {
		if collection != "" && !hasFoldedPrefix(title, collection) {
			parts = append(parts, collection)
		}
		parts = append(parts, title)
	}
	parts = append(parts, spec)

	name := strings.Join(compact(parts), ".")
	return name + "." + opts.Container
}

// Dotted converts a sanitized, space-separated value into the dotted filename
// form.
func Dotted(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", ".")
}

func specSegment(opts Options) string {
	segment := fmt.Sprintf("%s.%s.%s%s.%s",
		opts.Resolution,
		opts.SourceTag,
		opts.AudioCodec,
		opts.AudioChannels,
		opts.VideoCodec,
	)
	if suffix := strings.TrimSpace(opts.ReleaseSuffix); suffix != "" {
		segment += "-" + suffix
	}
	return segment
}

// hasFoldedPrefix reports whether title begins with collection when both are
// compared case-insensitively and without punctuation, so "Critical Role
// One-Shot" is not prefixed with "Critical Role" a second time.
func hasFoldedPrefix(title, collection string) bool {
	t := foldForCompare(title)
	c := foldForCompare(collection)
	if c == "" {
		return false
	}
	return strings.HasPrefix(t, c)
}

func foldForCompare(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func compact(parts []string) []string {
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
