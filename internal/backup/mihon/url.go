package mihon

import (
	"regexp"

	"github.com/google/uuid"
)

// Foreign backups identify manga and chapters by site-relative URLs rather
// than catalogue IDs. The catalogue's URL layout embeds the UUID directly,
// so the adapters recover IDs by extraction instead of network lookups.

var (
	mangaURLPattern   = regexp.MustCompile(`(?i)/(?:manga|title)/([0-9a-f-]{36})(?:[/?#]|$)`)
	chapterURLPattern = regexp.MustCompile(`(?i)/chapter/([0-9a-f-]{36})(?:[/?#]|$)`)
)

// ExtractMangaID pulls the catalogue manga ID out of a foreign manga URL.
// The second return is false when the URL does not contain a valid ID.
func ExtractMangaID(url string) (string, bool) {
	return extractID(mangaURLPattern, url)
}

// ExtractChapterID pulls the catalogue chapter ID out of a foreign chapter
// URL.
func ExtractChapterID(url string) (string, bool) {
	return extractID(chapterURLPattern, url)
}

func extractID(pattern *regexp.Regexp, url string) (string, bool) {
	m := pattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	id, err := uuid.Parse(m[1])
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// MangaURL builds the site-relative URL a foreign client expects for a
// catalogue manga ID.
func MangaURL(mangaID string) string {
	return "/manga/" + mangaID
}

// ChapterURL builds the site-relative URL for a catalogue chapter ID.
func ChapterURL(chapterID string) string {
	return "/chapter/" + chapterID
}
