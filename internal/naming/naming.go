// Package naming derives human-facing names from requests: operation-id
// slugs, singular resource names, and default descriptions and tags.
package naming

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, replaces every run of non-alphanumeric characters
// with a single '-', and trims dashes from both ends. Accented letters are
// folded to their base letter first.
//
//	Slugify("GET /users/{id}") == "get-users-id"
func Slugify(s string) string {
	folded, _, err := transform.String(foldAccents(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

var irregularSingulars = map[string]string{
	"children": "child",
	"people":   "person",
	"data":     "datum",
	"feet":     "foot",
	"teeth":    "tooth",
	"geese":    "goose",
	"men":      "man",
	"women":    "woman",
}

// Singularize returns the singular form of an English word. A short table of
// irregular forms is consulted before the generic rules; a generic result
// that comes back empty keeps the original word.
func Singularize(word string) string {
	if s, ok := irregularSingulars[strings.ToLower(word)]; ok {
		return s
	}
	if s := inflection.Singular(word); s != "" {
		return s
	}
	return word
}

var apiPrefixSegments = map[string]bool{
	"api":      true,
	"v1":       true,
	"v2":       true,
	"v3":       true,
	"rest":     true,
	"service":  true,
	"public":   true,
	"internal": true,
}

var actionSegments = map[string]bool{
	"import": true,
	"upload": true,
	"export": true,
	"search": true,
	"bulk":   true,
}

// Describe derives a default description and tag list from a method and a
// path template.
//
// Common API prefixes (api, v1, rest, ...) are skipped. The resource is the
// last literal segment; it is singularized when the path ends in a
// placeholder. A path ending in an action segment (import, upload, export,
// search, bulk) adds the action as a secondary tag.
//
//	Describe("GET", "/api/v1/users")       // "List users", [users]
//	Describe("GET", "/users/{id}")         // "Retrieve user", [users]
//	Describe("POST", "/items/import")      // "Import items", [items import]
func Describe(method, path string) (description string, tags []string) {
	var literals []string
	endsWithID := false
	skipping := true
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if skipping && apiPrefixSegments[strings.ToLower(seg)] {
			continue
		}
		skipping = false
		if isPlaceholder(seg) {
			endsWithID = true
			continue
		}
		endsWithID = false
		literals = append(literals, seg)
	}

	action := ""
	if n := len(literals); n > 0 && actionSegments[strings.ToLower(literals[n-1])] {
		action = strings.ToLower(literals[n-1])
		literals = literals[:n-1]
	}

	resource := ""
	if len(literals) > 0 {
		resource = humanize(literals[len(literals)-1])
		tags = append(tags, strings.ToLower(literals[len(literals)-1]))
	}
	if action != "" {
		tags = append(tags, action)
	}

	display := resource
	if endsWithID && display != "" {
		display = singularizePhrase(display)
	}
	if display == "" {
		display = "root"
	}

	verb := verbFor(method, endsWithID)
	if action != "" {
		verb = titleCase(action)
	}
	return verb + " " + display, tags
}

func verbFor(method string, endsWithID bool) string {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		if endsWithID {
			return "Retrieve"
		}
		return "List"
	case http.MethodPost:
		return "Create"
	case http.MethodPut:
		return "Update"
	case http.MethodPatch:
		return "Patch"
	case http.MethodDelete:
		return "Delete"
	}
	return titleCase(method)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func isPlaceholder(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

// humanize turns "user-profiles" or "user_profiles" into "user profiles".
func humanize(seg string) string {
	return strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
}

// singularizePhrase singularizes the last word of a phrase.
func singularizePhrase(s string) string {
	i := strings.LastIndexByte(s, ' ')
	return s[:i+1] + Singularize(s[i+1:])
}
