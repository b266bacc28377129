package param

import (
	"regexp"
	"slices"
	"strings"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
)

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Template is a path with {name} placeholders. A name may appear more
// than once; every occurrence receives the same value.
type Template struct {
	raw   string
	names []string
}

// ParseTemplate parses a path template.
func ParseTemplate(path string) Template {
	t := Template{raw: path}
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(path, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			t.names = append(t.names, m[1])
		}
	}
	return t
}

// String returns the template as written.
func (t Template) String() string {
	return t.raw
}

// Names returns the distinct placeholder names in order of first
// appearance.
func (t Template) Names() []string {
	return append([]string(nil), t.names...)
}

// Has reports whether the template contains the placeholder name.
func (t Template) Has(name string) bool {
	return slices.Contains(t.names, name)
}

// Arg is an encoded path argument.
type Arg struct {
	Name  string
	Token string
}

// Resolve substitutes args into the template. Arguments whose name is not
// in the template are logged and ignored. Resolution stops as soon as
// every placeholder has a value; placeholders left without one fail with
// an *oaserrors.PathUnresolvedError.
func (t Template) Resolve(args []Arg, logger openapi.Logger) (string, error) {
	logger = openapi.LoggerOrNop(logger)

	pending := make(map[string]bool, len(t.names))
	for _, n := range t.names {
		pending[n] = true
	}

	path := t.raw
	for _, arg := range args {
		switch {
		case pending[arg.Name]:
			delete(pending, arg.Name)
			path = strings.ReplaceAll(path, "{"+arg.Name+"}", arg.Token)
		case t.Has(arg.Name):
			logger.Debug("path argument already substituted", "template", t.raw, "name", arg.Name)
		default:
			logger.Warn("path argument not in template", "template", t.raw, "name", arg.Name)
		}
		if len(pending) == 0 {
			break
		}
	}

	if len(pending) > 0 {
		var unresolved []string
		for _, n := range t.names {
			if pending[n] {
				unresolved = append(unresolved, n)
			}
		}
		return "", &oaserrors.PathUnresolvedError{Template: t.raw, Unresolved: unresolved}
	}
	return path, nil
}
