package url

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ValidationError is a non-fatal diagnostic the parser records while it
// keeps going. Collected for telemetry only; it never changes the
// outcome of a parse.
// https://url.spec.whatwg.org/#validation-error
type ValidationError struct {
	Code   string
	Offset int
}

// ParseError is the fatal failure that aborts a parse.
type ParseError struct {
	Code   string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("URL parsing failed: %s at offset %d", e.Code, e.Offset)
}

// Parse runs the basic URL parser on input with no base URL.
func Parse(input string) (*URL, error) {
	return ParseWithBase(input, nil)
}

// ParseWithBase runs the basic URL parser on input against a base URL.
func ParseWithBase(input string, base *URL) (*URL, error) {
	return ParseWithEncoding(input, base, "")
}

// ParseWithEncoding runs the basic URL parser with a caller-supplied
// query encoding label ("" means UTF-8). The label only influences the
// query of special non-WebSocket URLs; everything else is UTF-8.
func ParseWithEncoding(input string, base *URL, encodingLabel string) (*URL, error) {
	u, _, err := basicParse(input, base, nil, nil, encodingLabel)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ParseVerbose is ParseWithEncoding plus the validation errors the parse
// collected, for diagnostics and fuzzing telemetry.
func ParseVerbose(input string, base *URL, encodingLabel string) (*URL, []ValidationError, error) {
	u, verrs, err := basicParse(input, base, nil, nil, encodingLabel)
	if err != nil {
		return nil, verrs, err
	}
	return u, verrs, nil
}

// ReparseField copies u and resumes the state machine at start against
// the copy, mutating only the fields reachable from that state onward.
// The copy is returned even when parsing failed: it then carries the
// mutations committed before the failure, and the caller decides whether
// to keep it.
func ReparseField(u *URL, start State, input string) (*URL, error) {
	return ReparseFieldWithEncoding(u, start, input, "")
}

// ReparseFieldWithEncoding is ReparseField with a query encoding label.
func ReparseFieldWithEncoding(u *URL, start State, input, encodingLabel string) (*URL, error) {
	c := u.Copy()
	_, _, err := basicParse(input, nil, c, &start, encodingLabel)
	return c, err
}

// a stateHandler consumes one code point (or EOF) and returns whether
// that code point must be reconsumed plus the next state.
type stateHandler func(r rune, eof bool) (bool, State)

type parser struct {
	input             []rune
	pointer           int
	buffer            strings.Builder
	url               *URL
	base              *URL
	state             State
	stateOverride     State
	hasStateOverride  bool
	atSignSeen        bool
	insideBrackets    bool
	passwordTokenSeen bool
	encodingLabel     string
	terminated        bool
	err               error
	validationErrors  []ValidationError
}

// basicParse is the state machine entry point shared by every public
// parse function. https://url.spec.whatwg.org/#concept-basic-url-parser
func basicParse(input string, base, existing *URL, override *State, encodingLabel string) (*URL, []ValidationError, error) {
	p := &parser{base: base, url: existing, state: SchemeStartState, encodingLabel: encodingLabel}
	if p.url == nil {
		p.url = &URL{}
	}
	if override != nil {
		p.hasStateOverride = true
		p.stateOverride = *override
		p.state = *override
	}

	trimmed := strings.TrimFunc(input, func(r rune) bool { return r <= 0x20 })
	if trimmed != input {
		p.reportValidation("invalid-URL-unit")
	}
	stripped := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, trimmed)
	if stripped != trimmed {
		p.reportValidation("invalid-URL-unit")
	}
	p.input = []rune(stripped)

	for {
		eof := p.pointer >= len(p.input)
		var r rune
		if !eof {
			r = p.input[p.pointer]
		}
		reconsume, next := p.stateToHandler(p.state)(r, eof)
		if p.err != nil {
			p.logValidationErrors()
			return p.url, p.validationErrors, p.err
		}
		p.state = next
		if p.terminated {
			break
		}
		if reconsume {
			p.pointer--
		}
		if eof && p.pointer >= len(p.input) {
			break
		}
		p.pointer++
	}
	p.logValidationErrors()
	return p.url, p.validationErrors, nil
}

func (p *parser) stateToHandler(state State) stateHandler {
	switch state {
	case SchemeStartState:
		return p.schemeStartStateHandler
	case SchemeState:
		return p.schemeStateHandler
	case NoSchemeState:
		return p.noSchemeStateHandler
	case SpecialRelativeOrAuthorityState:
		return p.specialRelativeOrAuthorityStateHandler
	case PathOrAuthorityState:
		return p.pathOrAuthorityStateHandler
	case RelativeState:
		return p.relativeStateHandler
	case RelativeSlashState:
		return p.relativeSlashStateHandler
	case SpecialAuthoritySlashesState:
		return p.specialAuthoritySlashesStateHandler
	case SpecialAuthorityIgnoreSlashesState:
		return p.specialAuthorityIgnoreSlashesStateHandler
	case AuthorityState:
		return p.authorityStateHandler
	case HostState, HostnameState:
		return p.hostStateHandler
	case PortState:
		return p.portStateHandler
	case FileState:
		return p.fileStateHandler
	case FileSlashState:
		return p.fileSlashStateHandler
	case FileHostState:
		return p.fileHostStateHandler
	case PathStartState:
		return p.pathStartStateHandler
	case PathState:
		return p.pathStateHandler
	case OpaquePathState:
		return p.opaquePathStateHandler
	case QueryState:
		return p.queryStateHandler
	case FragmentState:
		return p.fragmentStateHandler
	}
	return nil
}

func (p *parser) reportValidation(code string) {
	p.validationErrors = append(p.validationErrors, ValidationError{Code: code, Offset: p.pointer})
}

// fatal records the validation error and aborts the parse.
func (p *parser) fatal(code string) {
	p.reportValidation(code)
	p.err = &ParseError{Code: code, Offset: p.pointer}
}

func (p *parser) terminate() {
	p.terminated = true
}

func (p *parser) logValidationErrors() {
	for _, ve := range p.validationErrors {
		logrus.WithFields(logrus.Fields{"code": ve.Code, "offset": ve.Offset}).Debug("[URL]: validation error")
	}
}

func (p *parser) remainingStartsWith(s string) bool {
	rs := []rune(s)
	if p.pointer+1+len(rs) > len(p.input) {
		return false
	}
	for i, r := range rs {
		if p.input[p.pointer+1+i] != r {
			return false
		}
	}
	return true
}

func (p *parser) remainingStartsWithTwoHex() bool {
	return p.pointer+2 < len(p.input) &&
		isASCIIHexDigit(p.input[p.pointer+1]) &&
		isASCIIHexDigit(p.input[p.pointer+2])
}

// inputFromCurrent returns the input from the current code point on.
func (p *parser) inputFromCurrent() []rune {
	if p.pointer >= len(p.input) {
		return nil
	}
	return p.input[p.pointer:]
}

func (p *parser) setQuery(q string) {
	p.url.query = &q
}

func (p *parser) setFragment(f string) {
	p.url.fragment = &f
}

func lowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 0x20
	}
	return r
}

func copyHost(h *Host) *Host {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

func isSingleDot(s string) bool {
	return s == "." || strings.EqualFold(s, "%2e")
}

func isDoubleDot(s string) bool {
	if s == ".." {
		return true
	}
	switch strings.ToLower(s) {
	case ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}

// https://url.spec.whatwg.org/#scheme-start-state
func (p *parser) schemeStartStateHandler(r rune, eof bool) (bool, State) {
	if !eof && isASCIIAlpha(r) {
		p.buffer.WriteRune(lowerASCII(r))
		return false, SchemeState
	}
	if !p.hasStateOverride {
		return true, NoSchemeState
	}
	p.fatal("missing-scheme-non-relative-URL")
	return false, SchemeStartState
}

// https://url.spec.whatwg.org/#scheme-state
func (p *parser) schemeStateHandler(r rune, eof bool) (bool, State) {
	if !eof && (isASCIIAlphanumeric(r) || r == '+' || r == '-' || r == '.') {
		p.buffer.WriteRune(lowerASCII(r))
		return false, SchemeState
	}
	if !eof && r == ':' {
		if p.hasStateOverride {
			buf := p.buffer.String()
			if isSpecialScheme(p.url.scheme) != isSpecialScheme(buf) {
				p.terminate()
				return false, SchemeState
			}
			if (p.url.IncludesCredentials() || p.url.port != nil) && buf == "file" {
				p.terminate()
				return false, SchemeState
			}
			if p.url.scheme == "file" && p.url.host != nil && p.url.host.IsEmpty() {
				p.terminate()
				return false, SchemeState
			}
		}
		p.url.scheme = p.buffer.String()
		if p.hasStateOverride {
			if dp := defaultPort(p.url.scheme); dp != nil && p.url.port != nil && *p.url.port == *dp {
				p.url.port = nil
			}
			p.terminate()
			return false, SchemeState
		}
		p.buffer.Reset()
		switch {
		case p.url.scheme == "file":
			if !p.remainingStartsWith("//") {
				p.reportValidation("special-scheme-missing-following-solidus")
			}
			return false, FileState
		case p.url.IsSpecial() && p.base != nil && p.base.scheme == p.url.scheme:
			return false, SpecialRelativeOrAuthorityState
		case p.url.IsSpecial():
			return false, SpecialAuthoritySlashesState
		case p.remainingStartsWith("/"):
			p.pointer++
			return false, PathOrAuthorityState
		default:
			p.url.paths = []string{""}
			p.url.opaquePath = true
			return false, OpaquePathState
		}
	}
	if !p.hasStateOverride {
		p.buffer.Reset()
		// start over from the first code point in input
		p.pointer = -1
		return false, NoSchemeState
	}
	p.fatal("invalid-scheme")
	return false, SchemeState
}

// https://url.spec.whatwg.org/#no-scheme-state
func (p *parser) noSchemeStateHandler(r rune, eof bool) (bool, State) {
	if p.base == nil || (p.base.opaquePath && (eof || r != '#')) {
		p.fatal("missing-scheme-non-relative-URL")
		return false, NoSchemeState
	}
	if p.base.opaquePath && !eof && r == '#' {
		p.url.scheme = p.base.scheme
		p.url.paths = append([]string(nil), p.base.paths...)
		p.url.opaquePath = true
		p.url.SetQuery(p.base.query)
		p.setFragment("")
		return false, FragmentState
	}
	if p.base.scheme != "file" {
		return true, RelativeState
	}
	return true, FileState
}

// https://url.spec.whatwg.org/#special-relative-or-authority-state
func (p *parser) specialRelativeOrAuthorityStateHandler(r rune, eof bool) (bool, State) {
	if !eof && r == '/' && p.remainingStartsWith("/") {
		p.pointer++
		return false, SpecialAuthorityIgnoreSlashesState
	}
	p.reportValidation("special-scheme-missing-following-solidus")
	return true, RelativeState
}

// https://url.spec.whatwg.org/#path-or-authority-state
func (p *parser) pathOrAuthorityStateHandler(r rune, eof bool) (bool, State) {
	if !eof && r == '/' {
		return false, AuthorityState
	}
	return true, PathState
}

// https://url.spec.whatwg.org/#relative-state
func (p *parser) relativeStateHandler(r rune, eof bool) (bool, State) {
	if p.base == nil {
		p.fatal("missing-scheme-non-relative-URL")
		return false, RelativeState
	}
	p.url.scheme = p.base.scheme
	if !eof && r == '/' {
		return false, RelativeSlashState
	}
	if p.url.IsSpecial() && !eof && r == '\\' {
		p.reportValidation("invalid-reverse-solidus")
		return false, RelativeSlashState
	}
	p.url.username = p.base.username
	p.url.password = p.base.password
	p.url.host = copyHost(p.base.host)
	p.url.SetPort(p.base.port)
	p.url.paths = append([]string(nil), p.base.paths...)
	p.url.opaquePath = p.base.opaquePath
	p.url.SetQuery(p.base.query)
	switch {
	case !eof && r == '?':
		p.setQuery("")
		return false, QueryState
	case !eof && r == '#':
		p.setFragment("")
		return false, FragmentState
	case !eof:
		p.url.query = nil
		p.url.shortenPath()
		return true, PathState
	}
	return false, RelativeState
}

// https://url.spec.whatwg.org/#relative-slash-state
func (p *parser) relativeSlashStateHandler(r rune, eof bool) (bool, State) {
	if p.base == nil {
		p.fatal("missing-scheme-non-relative-URL")
		return false, RelativeSlashState
	}
	if p.url.IsSpecial() && !eof && (r == '/' || r == '\\') {
		if r == '\\' {
			p.reportValidation("invalid-reverse-solidus")
		}
		return false, SpecialAuthorityIgnoreSlashesState
	}
	if !eof && r == '/' {
		return false, AuthorityState
	}
	p.url.username = p.base.username
	p.url.password = p.base.password
	p.url.host = copyHost(p.base.host)
	p.url.SetPort(p.base.port)
	return true, PathState
}

// https://url.spec.whatwg.org/#special-authority-slashes-state
func (p *parser) specialAuthoritySlashesStateHandler(r rune, eof bool) (bool, State) {
	if !eof && r == '/' && p.remainingStartsWith("/") {
		p.pointer++
		return false, SpecialAuthorityIgnoreSlashesState
	}
	p.reportValidation("special-scheme-missing-following-solidus")
	return true, SpecialAuthorityIgnoreSlashesState
}

// https://url.spec.whatwg.org/#special-authority-ignore-slashes-state
func (p *parser) specialAuthorityIgnoreSlashesStateHandler(r rune, eof bool) (bool, State) {
	if eof || (r != '/' && r != '\\') {
		return true, AuthorityState
	}
	p.reportValidation("special-scheme-missing-following-solidus")
	return false, SpecialAuthorityIgnoreSlashesState
}

// https://url.spec.whatwg.org/#authority-state
func (p *parser) authorityStateHandler(r rune, eof bool) (bool, State) {
	if !eof && r == '@' {
		p.reportValidation("invalid-credentials")
		if p.atSignSeen {
			prev := p.buffer.String()
			p.buffer.Reset()
			p.buffer.WriteString("%40" + prev)
		}
		p.atSignSeen = true
		for _, c := range p.buffer.String() {
			if c == ':' && !p.passwordTokenSeen {
				p.passwordTokenSeen = true
				continue
			}
			encoded := utf8PercentEncode(c, userinfoEncodeSet)
			if p.passwordTokenSeen {
				p.url.password += encoded
			} else {
				p.url.username += encoded
			}
		}
		p.buffer.Reset()
		return false, AuthorityState
	}
	if eof || r == '/' || r == '?' || r == '#' || (p.url.IsSpecial() && r == '\\') {
		if p.atSignSeen && p.buffer.Len() == 0 {
			p.fatal("host-missing")
			return false, AuthorityState
		}
		p.pointer -= utf8.RuneCountInString(p.buffer.String()) + 1
		p.buffer.Reset()
		return false, HostState
	}
	p.buffer.WriteRune(r)
	return false, AuthorityState
}

// Handles both the host and hostname states; they differ only in how a
// ":" terminates an override parse.
// https://url.spec.whatwg.org/#host-state
func (p *parser) hostStateHandler(r rune, eof bool) (bool, State) {
	if p.hasStateOverride && p.url.scheme == "file" {
		return true, FileHostState
	}
	if !eof && r == ':' && !p.insideBrackets {
		if p.buffer.Len() == 0 {
			p.fatal("host-missing")
			return false, HostState
		}
		if p.hasStateOverride && p.stateOverride == HostnameState {
			p.terminate()
			return false, HostState
		}
		host, err := parseHost(p.buffer.String(), !p.url.IsSpecial(), p.reportValidation)
		if err != nil {
			p.err = err
			return false, HostState
		}
		p.url.host = host
		p.buffer.Reset()
		return false, PortState
	}
	if eof || r == '/' || r == '?' || r == '#' || (p.url.IsSpecial() && r == '\\') {
		if p.url.IsSpecial() && p.buffer.Len() == 0 {
			p.fatal("host-missing")
			return true, HostState
		}
		if p.hasStateOverride && p.buffer.Len() == 0 && (p.url.IncludesCredentials() || p.url.port != nil) {
			p.terminate()
			return true, HostState
		}
		host, err := parseHost(p.buffer.String(), !p.url.IsSpecial(), p.reportValidation)
		if err != nil {
			p.err = err
			return true, HostState
		}
		p.url.host = host
		p.buffer.Reset()
		if p.hasStateOverride {
			p.terminate()
			return true, HostState
		}
		return true, PathStartState
	}
	if r == '[' {
		p.insideBrackets = true
	}
	if r == ']' {
		p.insideBrackets = false
	}
	p.buffer.WriteRune(r)
	return false, HostState
}

// https://url.spec.whatwg.org/#port-state
func (p *parser) portStateHandler(r rune, eof bool) (bool, State) {
	if !eof && isASCIIDigit(r) {
		p.buffer.WriteRune(r)
		return false, PortState
	}
	if eof || r == '/' || r == '?' || r == '#' || (p.url.IsSpecial() && r == '\\') || p.hasStateOverride {
		if p.buffer.Len() > 0 {
			port, err := strconv.ParseUint(p.buffer.String(), 10, 64)
			if err != nil || port > 0xFFFF {
				p.fatal("port-out-of-range")
				return false, PortState
			}
			p16 := uint16(port)
			if dp := defaultPort(p.url.scheme); dp != nil && *dp == p16 {
				p.url.port = nil
			} else {
				p.url.port = &p16
			}
			p.buffer.Reset()
		}
		if p.hasStateOverride {
			p.terminate()
			return false, PortState
		}
		return true, PathStartState
	}
	p.fatal("port-invalid")
	return false, PortState
}

// https://url.spec.whatwg.org/#file-state
func (p *parser) fileStateHandler(r rune, eof bool) (bool, State) {
	p.url.scheme = "file"
	p.url.host = EmptyHost()
	if !eof && (r == '/' || r == '\\') {
		if r == '\\' {
			p.reportValidation("invalid-reverse-solidus")
		}
		return false, FileSlashState
	}
	if p.base != nil && p.base.scheme == "file" {
		p.url.host = copyHost(p.base.host)
		p.url.paths = append([]string(nil), p.base.paths...)
		p.url.opaquePath = p.base.opaquePath
		p.url.SetQuery(p.base.query)
		switch {
		case !eof && r == '?':
			p.setQuery("")
			return false, QueryState
		case !eof && r == '#':
			p.setFragment("")
			return false, FragmentState
		case !eof:
			p.url.query = nil
			if !startsWithWindowsDriveLetter(p.inputFromCurrent()) {
				p.url.shortenPath()
			} else {
				p.reportValidation("file-invalid-Windows-drive-letter")
				p.url.paths = nil
				p.url.opaquePath = false
			}
			return true, PathState
		}
		return false, FileState
	}
	return true, PathState
}

// https://url.spec.whatwg.org/#file-slash-state
func (p *parser) fileSlashStateHandler(r rune, eof bool) (bool, State) {
	if !eof && (r == '/' || r == '\\') {
		if r == '\\' {
			p.reportValidation("invalid-reverse-solidus")
		}
		return false, FileHostState
	}
	if p.base != nil && p.base.scheme == "file" {
		p.url.host = copyHost(p.base.host)
		if !startsWithWindowsDriveLetter(p.inputFromCurrent()) &&
			len(p.base.paths) > 0 && isNormalizedWindowsDriveLetter(p.base.paths[0]) {
			p.url.paths = append(p.url.paths, p.base.paths[0])
		}
	}
	return true, PathState
}

// https://url.spec.whatwg.org/#file-host-state
func (p *parser) fileHostStateHandler(r rune, eof bool) (bool, State) {
	if eof || r == '/' || r == '\\' || r == '?' || r == '#' {
		buf := p.buffer.String()
		if !p.hasStateOverride && isWindowsDriveLetter(buf) {
			p.reportValidation("file-invalid-Windows-drive-letter-host")
			return true, PathState
		}
		if buf == "" {
			p.url.host = EmptyHost()
			if p.hasStateOverride {
				p.terminate()
				return true, FileHostState
			}
			return true, PathStartState
		}
		host, err := parseHost(buf, !p.url.IsSpecial(), p.reportValidation)
		if err != nil {
			p.err = err
			return true, FileHostState
		}
		if host.Kind() == HostDomain && host.Domain() == "localhost" {
			host = EmptyHost()
		}
		p.url.host = host
		if p.hasStateOverride {
			p.terminate()
			return true, FileHostState
		}
		p.buffer.Reset()
		return true, PathStartState
	}
	p.buffer.WriteRune(r)
	return false, FileHostState
}

// https://url.spec.whatwg.org/#path-start-state
func (p *parser) pathStartStateHandler(r rune, eof bool) (bool, State) {
	if p.url.IsSpecial() {
		if !eof && r == '\\' {
			p.reportValidation("invalid-reverse-solidus")
		}
		if eof || (r != '/' && r != '\\') {
			return true, PathState
		}
		return false, PathState
	}
	if !p.hasStateOverride && !eof && r == '?' {
		p.setQuery("")
		return false, QueryState
	}
	if !p.hasStateOverride && !eof && r == '#' {
		p.setFragment("")
		return false, FragmentState
	}
	if !eof {
		if r != '/' {
			return true, PathState
		}
		return false, PathState
	}
	if p.hasStateOverride && p.url.host == nil {
		p.url.paths = append(p.url.paths, "")
	}
	return false, PathStartState
}

// https://url.spec.whatwg.org/#path-state
func (p *parser) pathStateHandler(r rune, eof bool) (bool, State) {
	slash := !eof && r == '/'
	specialBackslash := p.url.IsSpecial() && !eof && r == '\\'
	if eof || slash || specialBackslash || (!p.hasStateOverride && !eof && (r == '?' || r == '#')) {
		if specialBackslash {
			p.reportValidation("invalid-reverse-solidus")
		}
		buf := p.buffer.String()
		switch {
		case isDoubleDot(buf):
			p.url.shortenPath()
			if !slash && !specialBackslash {
				p.url.paths = append(p.url.paths, "")
			}
		case isSingleDot(buf):
			if !slash && !specialBackslash {
				p.url.paths = append(p.url.paths, "")
			}
		default:
			if p.url.scheme == "file" && len(p.url.paths) == 0 && isWindowsDriveLetter(buf) {
				buf = string(buf[0]) + ":"
			}
			p.url.paths = append(p.url.paths, buf)
		}
		p.buffer.Reset()
		if !eof && r == '?' {
			p.setQuery("")
			return false, QueryState
		}
		if !eof && r == '#' {
			p.setFragment("")
			return false, FragmentState
		}
		return false, PathState
	}
	if !isURLCodePoint(r) && r != '%' {
		p.reportValidation("invalid-URL-unit")
	}
	if r == '%' && !p.remainingStartsWithTwoHex() {
		p.reportValidation("invalid-URL-unit")
	}
	p.buffer.WriteString(utf8PercentEncode(r, pathEncodeSet))
	return false, PathState
}

// https://url.spec.whatwg.org/#cannot-be-a-base-url-path-state
func (p *parser) opaquePathStateHandler(r rune, eof bool) (bool, State) {
	if !eof && r == '?' {
		p.setQuery("")
		return false, QueryState
	}
	if !eof && r == '#' {
		p.setFragment("")
		return false, FragmentState
	}
	if !eof {
		if !isURLCodePoint(r) && r != '%' {
			p.reportValidation("invalid-URL-unit")
		}
		if r == '%' && !p.remainingStartsWithTwoHex() {
			p.reportValidation("invalid-URL-unit")
		}
		if len(p.url.paths) == 0 {
			p.url.paths = []string{""}
			p.url.opaquePath = true
		}
		p.url.paths[0] += utf8PercentEncode(r, c0ControlEncodeSet)
	}
	return false, OpaquePathState
}

// https://url.spec.whatwg.org/#query-state
func (p *parser) queryStateHandler(r rune, eof bool) (bool, State) {
	if eof || (!p.hasStateOverride && r == '#') {
		p.commitQuery()
		if !eof && r == '#' {
			p.setFragment("")
			return false, FragmentState
		}
		return false, QueryState
	}
	if !isURLCodePoint(r) && r != '%' {
		p.reportValidation("invalid-URL-unit")
	}
	if r == '%' && !p.remainingStartsWithTwoHex() {
		p.reportValidation("invalid-URL-unit")
	}
	p.buffer.WriteRune(r)
	return false, QueryState
}

// commitQuery percent-encodes the buffered query, passing it through the
// caller-supplied legacy encoding first when one applies.
func (p *parser) commitQuery() {
	set := queryEncodeSet
	if p.url.IsSpecial() {
		set = specialQueryEncodeSet
	}
	var encoded string
	if enc := p.queryEncoder(); enc != nil {
		bytes, err := enc.Bytes([]byte(p.buffer.String()))
		if err != nil {
			bytes = []byte(p.buffer.String())
		}
		encoded = percentEncodeBytes(bytes, set)
	} else {
		encoded = utf8PercentEncodeString(p.buffer.String(), set)
	}
	q := encoded
	if p.url.query != nil {
		q = *p.url.query + encoded
	}
	p.url.query = &q
	p.buffer.Reset()
}

// queryEncoder resolves the caller's encoding label. UTF-8 and every
// non-special or WebSocket scheme yield nil, meaning plain UTF-8
// percent-encoding.
func (p *parser) queryEncoder() *encoding.Encoder {
	if p.encodingLabel == "" {
		return nil
	}
	if !p.url.IsSpecial() || p.url.scheme == "ws" || p.url.scheme == "wss" {
		return nil
	}
	enc, err := htmlindex.Get(p.encodingLabel)
	if err != nil || enc == unicode.UTF8 {
		return nil
	}
	return encoding.HTMLEscapeUnsupported(enc.NewEncoder())
}

// https://url.spec.whatwg.org/#fragment-state
func (p *parser) fragmentStateHandler(r rune, eof bool) (bool, State) {
	if !eof {
		if !isURLCodePoint(r) && r != '%' {
			p.reportValidation("invalid-URL-unit")
		}
		if r == '%' && !p.remainingStartsWithTwoHex() {
			p.reportValidation("invalid-URL-unit")
		}
		f := ""
		if p.url.fragment != nil {
			f = *p.url.fragment
		}
		f += utf8PercentEncode(r, fragmentEncodeSet)
		p.url.fragment = &f
	}
	return false, FragmentState
}

//go:generate stringer -type=State

// State identifies a state of the basic URL parser automaton. The set
// is closed; ReparseField accepts any of them as a resume point, though
// only the field states are useful to callers. States that consult a
// base URL fail with a ParseError when resumed without one.
type State uint8

const (
	SchemeStartState State = iota
	SchemeState
	NoSchemeState
	SpecialRelativeOrAuthorityState
	PathOrAuthorityState
	RelativeState
	RelativeSlashState
	SpecialAuthoritySlashesState
	SpecialAuthorityIgnoreSlashesState
	AuthorityState
	HostState
	HostnameState
	PortState
	FileState
	FileSlashState
	FileHostState
	PathStartState
	PathState
	OpaquePathState
	QueryState
	FragmentState
)
