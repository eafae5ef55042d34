package navigator

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// DefaultVersions maps a UI language to the version preferred for it when
// neither a last-read record nor a stored preference picks one.
var DefaultVersions = map[string]string{
	"nl": "Statenvertaling",
	"en": "ASV",
}

// firstBookNames are the spellings of the first book of the canon that the
// book loader prefers as a default, across the supported languages.
var firstBookNames = []string{
	"Genesis",
	"Génesis",
	"Genèse",
	"1 Mozes",
	"1 Mose",
	"1. Mose",
	"Gen",
}

var parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

// ResolveDefault picks the version a session starts on, in priority order:
// the last-read record, the stored preference, the language default and the
// first catalog entry. When the last-read record wins, the returned intent
// carries its book and chapter. An empty catalog yields "".
func ResolveDefault(versions []Version, rec *LastRead, pref *Preference, language string, defaults map[string]string) (string, RestorationIntent) {
	if len(versions) == 0 {
		return "", RestorationIntent{}
	}

	if rec != nil && rec.Version != "" {
		if v, ok := findVersion(versions, rec.Version); ok {
			return v.Ref(), restoreIntent(rec.Book, -1, rec.Chapter)
		}
	}

	if pref != nil && pref.Translation != "" {
		if v, ok := MatchVersion(versions, pref.Translation); ok {
			return v.Ref(), RestorationIntent{}
		}
	}

	if defaults == nil {
		defaults = DefaultVersions
	}
	if name, ok := defaults[strings.ToLower(language)]; ok {
		if v, ok := MatchVersion(versions, name); ok {
			return v.Ref(), RestorationIntent{}
		}
	}

	return versions[0].Ref(), RestorationIntent{}
}

// MatchVersion finds the catalog entry a free-form translation name refers
// to: an exact case-insensitive match first, then a match against an
// abbreviation in parentheses ("Statenvertaling (SV)"), then a loose
// substring match in either direction.
func MatchVersion(versions []Version, name string) (Version, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return Version{}, false
	}

	for _, v := range versions {
		if strings.ToLower(v.Ref()) == want || strings.ToLower(v.ID) == want {
			return v, true
		}
	}

	for _, v := range versions {
		for _, m := range parenthetical.FindAllStringSubmatch(v.Ref(), -1) {
			abbr := strings.ToLower(strings.TrimSpace(m[1]))
			if abbr == want || strings.Contains(abbr, want) {
				return v, true
			}
		}
	}

	for _, v := range versions {
		ref := strings.ToLower(v.Ref())
		if strings.Contains(ref, want) || strings.Contains(want, ref) {
			return v, true
		}
	}

	return Version{}, false
}

func findVersion(versions []Version, ref string) (Version, bool) {
	for _, v := range versions {
		if v.Ref() == ref || (v.ID != "" && v.ID == ref) {
			return v, true
		}
	}
	for _, v := range versions {
		if strings.EqualFold(v.Ref(), ref) {
			return v, true
		}
	}
	return Version{}, false
}

// ResolveBook picks the book to select from a freshly loaded list: the
// intent's book by exact name, then the book at the intent's ordinal index,
// then DefaultBook. The returned intent carries the chapter on to the
// chapter loader when the position was preserved.
func ResolveBook(books []string, intent RestorationIntent) (string, RestorationIntent) {
	if len(books) == 0 {
		return "", RestorationIntent{}
	}

	if intent.Kind == IntentRestore {
		if intent.Book != "" && slices.Contains(books, intent.Book) {
			return intent.Book, chapterIntent(intent.Chapter)
		}
		if intent.BookIndex >= 0 && intent.BookIndex < len(books) {
			return books[intent.BookIndex], chapterIntent(intent.Chapter)
		}
	}

	return DefaultBook(books), RestorationIntent{}
}

// DefaultBook returns the first book of the canon under any of its known
// spellings, or the first entry of the list.
func DefaultBook(books []string) string {
	if len(books) == 0 {
		return ""
	}
	for _, name := range firstBookNames {
		for _, b := range books {
			if strings.EqualFold(strings.TrimSpace(b), name) {
				return b
			}
		}
	}
	return books[0]
}

// ResolveChapter keeps the carried chapter when the new list has it and
// falls back to the first entry otherwise.
func ResolveChapter(chapters []int, intent RestorationIntent) int {
	if len(chapters) == 0 {
		return 1
	}
	if intent.Kind == IntentChapter && slices.Contains(chapters, intent.Chapter) {
		return intent.Chapter
	}
	return chapters[0]
}

// ParseChapters turns the provider's chapter strings into sorted, unique
// chapter numbers. Entries that are not positive integers are dropped.
func ParseChapters(raw []string) []int {
	chapters := make([]int, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, r := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		chapters = append(chapters, n)
	}
	sort.Ints(chapters)
	return chapters
}
