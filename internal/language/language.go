// Package language maps subtitle track labels to ISO 639-2 codes. Fetch
// tools report languages inconsistently (two-letter codes, BCP 47 tags,
// display names) and container metadata wants the three-letter form, so
// every conversion lives here.
package language

import "strings"

type entry struct {
	code2   string
	code3   string
	alt3    string
	display string
	words   []string
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "espanol"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
}

// Undetermined is the ISO 639-2 code used when no mapping exists.
const Undetermined = "und"

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

// normalizeTag lowercases and strips any BCP 47 region or script subtags,
// so "en-US" and "pt_BR" resolve by their primary subtag.
func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

func lookup(tag string) *entry {
	tag = normalizeTag(tag)
	if tag == "" {
		return nil
	}
	if e, ok := byCode2[tag]; ok {
		return e
	}
	if e, ok := byCode3[tag]; ok {
		return e
	}
	if e, ok := byWord[tag]; ok {
		return e
	}
	return nil
}

// ToISO3 converts any recognized language tag or display name to its ISO
// 639-2 three-letter code. Unknown three-letter input passes through;
// anything else unrecognized becomes Undetermined.
func ToISO3(tag string) string {
	if e := lookup(tag); e != nil {
		return e.code3
	}
	normalized := normalizeTag(tag)
	if len(normalized) == 3 {
		return normalized
	}
	return Undetermined
}

// Display returns the human-readable name for a recognized tag, or the
// trimmed input unchanged when no mapping exists.
func Display(tag string) string {
	if e := lookup(tag); e != nil {
		return e.display
	}
	return strings.TrimSpace(tag)
}

// Known reports whether the tag resolves to a table entry.
func Known(tag string) bool {
	return lookup(tag) != nil
}
