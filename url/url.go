// Package url implements the WHATWG basic URL parser and the URL record
// it produces. https://url.spec.whatwg.org/#url-representation
package url

import "strconv"

// specialSchemes maps each special scheme to its default port. A nil entry
// means the scheme is special but has no default port (file).
// https://url.spec.whatwg.org/#special-scheme
var specialSchemes = map[string]*uint16{
	"ftp":   portPtr(21),
	"file":  nil,
	"http":  portPtr(80),
	"https": portPtr(443),
	"ws":    portPtr(80),
	"wss":   portPtr(443),
}

func portPtr(p uint16) *uint16 {
	return &p
}

func isSpecialScheme(scheme string) bool {
	_, ok := specialSchemes[scheme]
	return ok
}

func defaultPort(scheme string) *uint16 {
	return specialSchemes[scheme]
}

// URL is a parsed URL record. The zero value is an empty record; records
// observable outside the parser are always complete and internally
// consistent. All derived predicates are recomputed from the stored
// fields, never cached.
type URL struct {
	scheme   string
	username string
	password string
	host     *Host
	port     *uint16
	// paths holds the path segments of a hierarchical URL. An opaque
	// path is stored as the single element paths[0] with opaquePath set.
	paths      []string
	opaquePath bool
	query      *string
	fragment   *string
}

// AboutBlank returns the URL record for "about:blank".
func AboutBlank() *URL {
	return &URL{
		scheme:     "about",
		paths:      []string{"blank"},
		opaquePath: true,
	}
}

// Scheme returns the URL's scheme, a non-empty lowercase token for any
// record the parser produced.
func (u *URL) Scheme() string { return u.scheme }

// Username returns the percent-encoded username.
func (u *URL) Username() string { return u.username }

// Password returns the percent-encoded password.
func (u *URL) Password() string { return u.password }

// Host returns the URL's host, or nil when the URL has no host.
func (u *URL) Host() *Host { return u.host }

// Port returns the URL's port, or nil when the URL has no port. Default
// ports of special schemes are normalized to nil by the parser.
func (u *URL) Port() *uint16 { return u.port }

// Query returns the URL's query, or nil when the URL has none.
func (u *URL) Query() *string { return u.query }

// Fragment returns the URL's fragment, or nil when the URL has none.
func (u *URL) Fragment() *string { return u.fragment }

// Paths returns a copy of the path segment list. For an opaque path the
// result is a single-element list holding the opaque string.
func (u *URL) Paths() []string {
	out := make([]string, len(u.paths))
	copy(out, u.paths)
	return out
}

// HasOpaquePath reports whether the URL's path is an opaque string
// rather than a segment list.
// https://url.spec.whatwg.org/#url-opaque-path
func (u *URL) HasOpaquePath() bool { return u.opaquePath }

// IsSpecial reports whether the URL's scheme is a special scheme.
func (u *URL) IsSpecial() bool { return isSpecialScheme(u.scheme) }

// IncludesCredentials reports whether the URL has a non-empty username
// or password.
func (u *URL) IncludesCredentials() bool {
	return u.username != "" || u.password != ""
}

// CannotHaveUsernamePasswordPort reports whether setting any of
// username, password or port on the URL is a no-op.
// https://url.spec.whatwg.org/#cannot-have-a-username-password-port
func (u *URL) CannotHaveUsernamePasswordPort() bool {
	return u.host == nil || u.host.IsEmpty() || u.scheme == "file"
}

// SetPort sets or clears the URL's port.
func (u *URL) SetPort(port *uint16) {
	if port == nil {
		u.port = nil
		return
	}
	p := *port
	u.port = &p
}

// SetQuery sets or clears the URL's query.
func (u *URL) SetQuery(query *string) {
	if query == nil {
		u.query = nil
		return
	}
	q := *query
	u.query = &q
}

// SetFragment sets or clears the URL's fragment.
func (u *URL) SetFragment(fragment *string) {
	if fragment == nil {
		u.fragment = nil
		return
	}
	f := *fragment
	u.fragment = &f
}

// SetPaths replaces the path segment list and marks the path
// hierarchical.
func (u *URL) SetPaths(paths []string) {
	u.paths = make([]string, len(paths))
	copy(u.paths, paths)
	u.opaquePath = false
}

// Copy returns a deep copy of the URL record.
func (u *URL) Copy() *URL {
	c := &URL{
		scheme:     u.scheme,
		username:   u.username,
		password:   u.password,
		opaquePath: u.opaquePath,
	}
	if u.host != nil {
		h := *u.host
		c.host = &h
	}
	c.SetPort(u.port)
	c.paths = make([]string, len(u.paths))
	copy(c.paths, u.paths)
	c.SetQuery(u.query)
	c.SetFragment(u.fragment)
	return c
}

// Equal reports structural equality of two URL records.
func (u *URL) Equal(other *URL) bool {
	return u.equal(other, false)
}

// EqualExcludingFragment reports structural equality ignoring the
// fragment of both records.
func (u *URL) EqualExcludingFragment(other *URL) bool {
	return u.equal(other, true)
}

func (u *URL) equal(other *URL, excludeFragment bool) bool {
	if u == nil || other == nil {
		return u == other
	}
	if u.scheme != other.scheme || u.username != other.username || u.password != other.password {
		return false
	}
	if (u.host == nil) != (other.host == nil) {
		return false
	}
	if u.host != nil && !u.host.Equal(other.host) {
		return false
	}
	if !equalPort(u.port, other.port) {
		return false
	}
	if u.opaquePath != other.opaquePath || len(u.paths) != len(other.paths) {
		return false
	}
	for i := range u.paths {
		if u.paths[i] != other.paths[i] {
			return false
		}
	}
	if !equalOptString(u.query, other.query) {
		return false
	}
	if !excludeFragment && !equalOptString(u.fragment, other.fragment) {
		return false
	}
	return true
}

func equalPort(a, b *uint16) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalOptString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// shortenPath removes the last path segment, except for the normalized
// Windows drive letter of a file URL.
// https://url.spec.whatwg.org/#shorten-a-urls-path
func (u *URL) shortenPath() {
	if u.scheme == "file" && len(u.paths) == 1 && isNormalizedWindowsDriveLetter(u.paths[0]) {
		return
	}
	if len(u.paths) > 0 {
		u.paths = u.paths[:len(u.paths)-1]
	}
}

// String serializes the URL record. The serialization round-trips: for
// any record the parser produced, parsing String() yields a structurally
// equal record.
// https://url.spec.whatwg.org/#url-serializing
func (u *URL) String() string {
	return u.serialize(false)
}

// SerializeExcludingFragment serializes the URL record without its
// fragment.
func (u *URL) SerializeExcludingFragment() string {
	return u.serialize(true)
}

func (u *URL) serialize(excludeFragment bool) string {
	output := u.scheme + ":"
	if u.host != nil {
		output += "//"
		if u.IncludesCredentials() {
			output += u.username
			if u.password != "" {
				output += ":" + u.password
			}
			output += "@"
		}
		output += u.host.Serialize()
		if u.port != nil {
			output += ":" + strconv.FormatUint(uint64(*u.port), 10)
		}
	} else if !u.opaquePath && len(u.paths) > 1 && u.paths[0] == "" {
		// A path starting with an empty segment would reparse as an
		// authority, so it is prefixed with "/.".
		output += "/."
	}
	output += u.SerializePath()
	if u.query != nil {
		output += "?" + *u.query
	}
	if !excludeFragment && u.fragment != nil {
		output += "#" + *u.fragment
	}
	return output
}

// SerializePath serializes the URL's path. Hierarchical paths join their
// segments with "/", opaque paths serialize verbatim.
// https://url.spec.whatwg.org/#url-path-serializer
func (u *URL) SerializePath() string {
	if u.opaquePath {
		if len(u.paths) == 0 {
			return ""
		}
		return u.paths[0]
	}
	output := ""
	for _, segment := range u.paths {
		output += "/" + segment
	}
	return output
}

// SerializedHost returns the serialization of the URL's host, or the
// empty string when the URL has none.
func (u *URL) SerializedHost() string {
	if u.host == nil {
		return ""
	}
	return u.host.Serialize()
}

func isWindowsDriveLetter(s string) bool {
	return len(s) == 2 && isASCIIAlpha(rune(s[0])) && (s[1] == ':' || s[1] == '|')
}

func isNormalizedWindowsDriveLetter(s string) bool {
	return len(s) == 2 && isASCIIAlpha(rune(s[0])) && s[1] == ':'
}

// startsWithWindowsDriveLetter reports whether the remaining input
// begins with a Windows drive letter.
// https://url.spec.whatwg.org/#start-with-a-windows-drive-letter
func startsWithWindowsDriveLetter(input []rune) bool {
	if len(input) < 2 {
		return false
	}
	if !isASCIIAlpha(input[0]) || (input[1] != ':' && input[1] != '|') {
		return false
	}
	if len(input) == 2 {
		return true
	}
	switch input[2] {
	case '/', '\\', '?', '#':
		return true
	}
	return false
}

func isASCIIAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIAlphanumeric(r rune) bool {
	return isASCIIAlpha(r) || isASCIIDigit(r)
}

func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
