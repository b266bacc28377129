// Package param models request parameters: their values, serialization
// styles and locations, and the path templates they fill in.
//
// A [Value] pairs a Go value with a [Style]. Resolving it for a
// [Location] fixes the effective style, flattens the value to a scalar,
// an array of scalars or an ordered object of scalars, and derives the
// parameter schema:
//
//	r, err := param.Resolve("tags", param.Query, param.Styled([]string{"a", "b"}, param.StylePipeDelimited), gen)
//	// r.QueryPairs() -> [{tags a|b}]
//
// Values that cannot be expressed at their location fail with an
// *oaserrors.ParameterError.
package param

// Location is where a parameter is sent.
type Location string

// Parameter locations.
const (
	Path   Location = "path"
	Query  Location = "query"
	Header Location = "header"
	Cookie Location = "cookie"
)

// Style is an OpenAPI parameter serialization style.
type Style string

// Parameter styles. StyleDefault resolves per location, see [Style.For].
const (
	StyleDefault        Style = ""
	StyleForm           Style = "form"
	StyleSimple         Style = "simple"
	StyleSpaceDelimited Style = "spaceDelimited"
	StylePipeDelimited  Style = "pipeDelimited"
	StyleLabel          Style = "label"
	StyleMatrix         Style = "matrix"
	StyleDeepObject     Style = "deepObject"
)

// For returns the effective style at loc: the default style resolves to
// simple in paths and headers and to form in queries and cookies.
func (s Style) For(loc Location) Style {
	if s != StyleDefault {
		return s
	}
	switch loc {
	case Query, Cookie:
		return StyleForm
	default:
		return StyleSimple
	}
}

// String implements fmt.Stringer.
func (s Style) String() string {
	if s == StyleDefault {
		return "default"
	}
	return string(s)
}

// allowedStyles lists the styles each location can render.
var allowedStyles = map[Location][]Style{
	Path:   {StyleSimple, StyleLabel, StyleMatrix},
	Query:  {StyleForm, StyleSpaceDelimited, StylePipeDelimited, StyleDeepObject},
	Header: {StyleSimple},
	Cookie: {StyleForm},
}

// defaultExplode is the OpenAPI default of the explode keyword.
func defaultExplode(s Style) bool {
	return s == StyleForm
}
