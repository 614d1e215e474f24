package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/weburl/url"
	"github.com/heathj/weburl/webidl"
)

const securityDenied = "Location's relevant document is not same origin-domain with the entry settings object's origin"

// prototypeMarker stands in for the realm's %Location.prototype%.
type prototypeMarker struct{ name string }

// Location is the document-location platform object. It never stores
// the URL or document it reflects; every access re-derives both from
// the owning window's browsing context, so two sequential calls may
// legitimately observe different documents.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#the-location-interface
type Location struct {
	window     Window
	properties *propertyMap
	prototype  Value
	// defaultProperties is the own-key snapshot captured exactly once
	// at construction. Keys in it report configurable from
	// GetOwnProperty regardless of their real descriptor. This does not
	// align with what the other browsers do; preserved on purpose.
	// Spec issue: https://github.com/whatwg/html/issues/4157
	defaultProperties []PropertyKey
}

// NewLocation creates the Location for a window. Called once per global
// at realm setup; a Location is never retargeted to another window.
func NewLocation(window Window) *Location {
	loc := &Location{
		window:     window,
		properties: newPropertyMap(),
		prototype:  &prototypeMarker{name: "Location"},
	}

	loc.defineAccessor("href", loc.Href, wrapSetter(loc.SetHref))
	loc.defineAccessor("origin", loc.Origin, nil)
	loc.defineAccessor("protocol", loc.Protocol, wrapSetter(loc.SetProtocol))
	loc.defineAccessor("host", loc.HostString, wrapSetter(loc.SetHost))
	loc.defineAccessor("hostname", loc.Hostname, wrapSetter(loc.SetHostname))
	loc.defineAccessor("port", loc.PortString, wrapSetter(loc.SetPort))
	loc.defineAccessor("pathname", loc.Pathname, wrapSetter(loc.SetPathname))
	loc.defineAccessor("search", loc.Search, wrapSetter(loc.SetSearch))
	loc.defineAccessor("hash", loc.Hash, wrapSetter(loc.SetHash))
	loc.defineMethod("assign", loc.Assign)
	loc.defineMethod("replace", loc.Replace)
	loc.defineMethod("reload", func(env Environment, _ string) error { return loc.Reload(env) })

	valueOf := NativeFunction(func(Environment, ...Value) (Value, error) { return loc, nil })
	loc.properties.define("valueOf", PropertyDescriptor{Value: valueOf})
	loc.properties.define(keyToPrimitive, PropertyDescriptor{Value: nil})

	loc.defaultProperties = loc.properties.orderedKeys()
	return loc
}

func (loc *Location) defineAccessor(key PropertyKey, get func(Environment) (string, error), set Setter) {
	loc.properties.define(key, PropertyDescriptor{
		Get: func(env Environment) (Value, error) {
			s, err := get(env)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Set:        set,
		Enumerable: true,
	})
}

func (loc *Location) defineMethod(key PropertyKey, fn func(env Environment, arg string) error) {
	native := NativeFunction(func(env Environment, args ...Value) (Value, error) {
		arg := ""
		if len(args) > 0 {
			arg = valueToString(args[0])
		}
		return nil, fn(env, arg)
	})
	loc.properties.define(key, PropertyDescriptor{Value: native, Enumerable: true})
}

func wrapSetter(set func(Environment, string) error) Setter {
	return func(env Environment, v Value) error {
		return set(env, valueToString(v))
	}
}

func valueToString(v Value) string {
	switch s := v.(type) {
	case nil:
		return "undefined"
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// RelevantDocument returns the active document of the owning window's
// browsing context, or nil.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#relevant-document
func (loc *Location) RelevantDocument() Document {
	bc := loc.window.BrowsingContext()
	if bc == nil {
		return nil
	}
	return bc.ActiveDocument()
}

// currentURL re-derives the URL this Location reflects. Never cached.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#concept-location-url
func (loc *Location) currentURL() *url.URL {
	if doc := loc.RelevantDocument(); doc != nil {
		return doc.URL()
	}
	return url.AboutBlank()
}

// checkAccess enforces the same-origin-domain gate every getter and
// most setters run first. A nil relevant document passes.
func (loc *Location) checkAccess(env Environment) error {
	doc := loc.RelevantDocument()
	if doc != nil && !doc.Origin().IsSameOriginDomain(env.Origin()) {
		logrus.WithField("caller", env.Origin().Serialize()).Debug("[LOCATION]: cross-origin access denied")
		return webidl.SecurityError(securityDenied)
	}
	return nil
}

func (loc *Location) isSameOrigin(env Environment) bool {
	doc := loc.RelevantDocument()
	if doc == nil {
		return true
	}
	return doc.Origin().IsSameOriginDomain(env.Origin())
}

// Navigate hands the URL to the navigation subsystem on behalf of env,
// which must be non-nil. A caller without transient activation cannot
// push history onto a document that is still loading; the request is
// downgraded to replace.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-object-navigate
func (loc *Location) Navigate(env Environment, target *url.URL, behavior HistoryBehavior) error {
	navigable := loc.window.Navigable()
	source := env.ResponsibleDocument()
	if doc := loc.RelevantDocument(); doc != nil && !doc.IsCompletelyLoaded() && !env.HasTransientActivation() {
		logrus.WithField("url", target.String()).Debug("[LOCATION]: document still loading, forcing replace")
		behavior = HistoryReplace
	}
	if behavior == HistoryAuto {
		behavior = HistoryPush
	}
	err := navigable.Navigate(NavigateParams{URL: target, SourceDocument: source, HistoryHandling: behavior})
	return errors.Wrap(err, "navigate")
}

func parseEnvironmentURL(env Environment, input string) (*url.URL, error) {
	return url.ParseWithEncoding(input, env.APIBaseURL(), env.CharacterEncoding())
}

// Href serializes the current URL.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-href
func (loc *Location) Href(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	return loc.currentURL().String(), nil
}

// SetHref parses the value against the caller's base URL and navigates.
// Deliberately not origin-gated; it is the one cross-origin write the
// allow-list keeps.
func (loc *Location) SetHref(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	target, err := parseEnvironmentURL(env, value)
	if err != nil {
		return webidl.SyntaxError(fmt.Sprintf("Invalid URL '%s'", value))
	}
	return loc.Navigate(env, target, HistoryAuto)
}

// Origin serializes the current URL's origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-origin
func (loc *Location) Origin(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	return loc.currentURL().Origin().Serialize(), nil
}

// Protocol returns the scheme followed by ":".
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-protocol
func (loc *Location) Protocol(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	return loc.currentURL().Scheme() + ":", nil
}

// SetProtocol reparses the scheme of a copy of the current URL. Only
// http and https targets proceed to navigation; any other scheme is a
// silent no-op.
func (loc *Location) SetProtocol(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	copyURL, err := url.ReparseField(loc.currentURL(), url.SchemeStartState, value+":")
	if err != nil {
		return webidl.SyntaxError(fmt.Sprintf("Failed to set protocol. '%s' is an invalid protocol", value))
	}
	if copyURL.Scheme() != "http" && copyURL.Scheme() != "https" {
		return nil
	}
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// HostString returns host, or host:port when a port is present.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-host
func (loc *Location) HostString(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	u := loc.currentURL()
	if u.Host() == nil {
		return "", nil
	}
	if u.Port() == nil {
		return u.SerializedHost(), nil
	}
	return fmt.Sprintf("%s:%d", u.SerializedHost(), *u.Port()), nil
}

// SetHost reparses the host (and port) of a copy of the current URL.
func (loc *Location) SetHost(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	if cur.HasOpaquePath() {
		return nil
	}
	copyURL, _ := url.ReparseField(cur, url.HostState, value)
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// Hostname returns the serialized host without the port.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-hostname
func (loc *Location) Hostname(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	u := loc.currentURL()
	if u.Host() == nil {
		return "", nil
	}
	return u.SerializedHost(), nil
}

// SetHostname reparses only the host of a copy of the current URL.
func (loc *Location) SetHostname(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	if cur.HasOpaquePath() {
		return nil
	}
	copyURL, _ := url.ReparseField(cur, url.HostnameState, value)
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// PortString returns the port as decimal digits, or "".
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-port
func (loc *Location) PortString(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	u := loc.currentURL()
	if u.Port() == nil {
		return "", nil
	}
	return strconv.FormatUint(uint64(*u.Port()), 10), nil
}

// SetPort reparses the port of a copy of the current URL. The empty
// string clears the port instead of failing the parse.
func (loc *Location) SetPort(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	if cur.CannotHaveUsernamePasswordPort() {
		return nil
	}
	var copyURL *url.URL
	if value == "" {
		copyURL = cur.Copy()
		copyURL.SetPort(nil)
	} else {
		copyURL, _ = url.ReparseField(cur, url.PortState, value)
	}
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// Pathname serializes the current URL's path.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-pathname
func (loc *Location) Pathname(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	return loc.currentURL().SerializePath(), nil
}

// SetPathname clears the path of a copy and reparses it from the path
// start state.
func (loc *Location) SetPathname(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	if cur.HasOpaquePath() {
		return nil
	}
	base := cur.Copy()
	base.SetPaths(nil)
	copyURL, _ := url.ReparseField(base, url.PathStartState, value)
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// Search returns "?" plus the query, or "".
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-search
func (loc *Location) Search(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	u := loc.currentURL()
	if u.Query() == nil || *u.Query() == "" {
		return "", nil
	}
	return "?" + *u.Query(), nil
}

// SetSearch reparses the query of a copy of the current URL using the
// document's character encoding. The empty string clears the query.
func (loc *Location) SetSearch(env Environment, value string) error {
	doc := loc.RelevantDocument()
	if doc == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	var copyURL *url.URL
	if value == "" {
		copyURL = cur.Copy()
		copyURL.SetQuery(nil)
	} else {
		input := strings.TrimPrefix(value, "?")
		base := cur.Copy()
		empty := ""
		base.SetQuery(&empty)
		copyURL, _ = url.ReparseFieldWithEncoding(base, url.QueryState, input, doc.CharacterEncoding())
	}
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// Hash returns "#" plus the fragment, or "".
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-hash
func (loc *Location) Hash(env Environment) (string, error) {
	if err := loc.checkAccess(env); err != nil {
		return "", err
	}
	u := loc.currentURL()
	if u.Fragment() == nil || *u.Fragment() == "" {
		return "", nil
	}
	return "#" + *u.Fragment(), nil
}

// SetHash reparses the fragment of a copy of the current URL. Setting
// the fragment to its current value requests no navigation.
func (loc *Location) SetHash(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	cur := loc.currentURL()
	oldFragment := ""
	if cur.Fragment() != nil {
		oldFragment = *cur.Fragment()
	}
	input := strings.TrimPrefix(value, "#")
	base := cur.Copy()
	empty := ""
	base.SetFragment(&empty)
	copyURL, _ := url.ReparseField(base, url.FragmentState, input)
	newFragment := ""
	if copyURL.Fragment() != nil {
		newFragment = *copyURL.Fragment()
	}
	if newFragment == oldFragment {
		return nil
	}
	return loc.Navigate(env, copyURL, HistoryAuto)
}

// Assign parses the URL against the caller's base and navigates.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-assign
func (loc *Location) Assign(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	if err := loc.checkAccess(env); err != nil {
		return err
	}
	target, err := parseEnvironmentURL(env, value)
	if err != nil {
		return webidl.SyntaxError(fmt.Sprintf("Invalid URL '%s'", value))
	}
	return loc.Navigate(env, target, HistoryAuto)
}

// Replace navigates with history replacement. Not origin-gated: a
// cross-origin caller may replace, matching the allow-list.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-replace
func (loc *Location) Replace(env Environment, value string) error {
	if loc.RelevantDocument() == nil {
		return nil
	}
	target, err := parseEnvironmentURL(env, value)
	if err != nil {
		return webidl.SyntaxError(fmt.Sprintf("Invalid URL '%s'", value))
	}
	return loc.Navigate(env, target, HistoryReplace)
}

// Reload re-issues the active document's navigation at its current URL.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#dom-location-reload
func (loc *Location) Reload(env Environment) error {
	doc := loc.RelevantDocument()
	if doc == nil {
		return nil
	}
	return errors.Wrap(doc.Navigable().Reload(), "reload")
}

// CrossOriginProperties returns Location's fixed cross-origin
// allow-list: href write-only, plus replace.
func (loc *Location) CrossOriginProperties() []CrossOriginProperty {
	return []CrossOriginProperty{
		{Key: "href", Accessor: true, NeedsSet: true},
		{Key: "replace"},
	}
}

// OrdinaryOwnProperty implements CrossOriginAccessible.
func (loc *Location) OrdinaryOwnProperty(key PropertyKey) (PropertyDescriptor, bool) {
	return loc.properties.lookup(key)
}

// GetPrototypeOf returns the ordinary prototype same-origin and nothing
// cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-getprototypeof
func (loc *Location) GetPrototypeOf(env Environment) Value {
	if loc.isSameOrigin(env) {
		return loc.prototype
	}
	return nil
}

// SetPrototypeOf applies the immutable-prototype behavior: it reports
// success only for the unchanged prototype.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-setprototypeof
func (loc *Location) SetPrototypeOf(env Environment, proto Value) bool {
	return proto == loc.prototype
}

// IsExtensible always reports true.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-isextensible
func (loc *Location) IsExtensible(env Environment) bool {
	return true
}

// PreventExtensions always fails.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-preventextensions
func (loc *Location) PreventExtensions(env Environment) bool {
	return false
}

// GetOwnProperty returns the ordinary descriptor same-origin, with keys
// from the construction-time snapshot forced configurable; cross-origin
// it consults the allow-list and then the meta-key fallback.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-getownproperty
func (loc *Location) GetOwnProperty(env Environment, key PropertyKey) (*PropertyDescriptor, error) {
	if loc.isSameOrigin(env) {
		desc, ok := loc.properties.lookup(key)
		if !ok {
			return nil, nil
		}
		if containsKey(loc.defaultProperties, key) {
			desc.Configurable = true
		}
		return &desc, nil
	}
	if desc := CrossOriginGetOwnPropertyHelper(loc, key); desc != nil {
		return desc, nil
	}
	return CrossOriginPropertyFallback(key)
}

// DefineOwnProperty behaves ordinarily same-origin and always fails
// with a security error cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-defineownproperty
func (loc *Location) DefineOwnProperty(env Environment, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	if loc.isSameOrigin(env) {
		loc.properties.define(key, desc)
		return true, nil
	}
	return false, webidl.SecurityError(fmt.Sprintf("Can't define property '%s' on cross-origin object", key))
}

// Get reads a property, ordinary same-origin and filtered cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-get
func (loc *Location) Get(env Environment, key PropertyKey) (Value, error) {
	if loc.isSameOrigin(env) {
		desc, ok := loc.properties.lookup(key)
		if !ok {
			return nil, nil
		}
		if desc.IsAccessor() {
			if desc.Get == nil {
				return nil, nil
			}
			return desc.Get(env)
		}
		return desc.Value, nil
	}
	return CrossOriginGet(env, loc, key)
}

// Set writes a property, ordinary same-origin and filtered cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-set
func (loc *Location) Set(env Environment, key PropertyKey, v Value) (bool, error) {
	if loc.isSameOrigin(env) {
		desc, ok := loc.properties.lookup(key)
		if ok && desc.IsAccessor() {
			if desc.Set == nil {
				return false, nil
			}
			if err := desc.Set(env, v); err != nil {
				return false, err
			}
			return true, nil
		}
		if ok && !desc.Writable {
			return false, nil
		}
		loc.properties.define(key, PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
		return true, nil
	}
	return CrossOriginSet(env, loc, key, v)
}

// Delete removes a configurable property same-origin and always fails
// with a security error cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-delete
func (loc *Location) Delete(env Environment, key PropertyKey) (bool, error) {
	if loc.isSameOrigin(env) {
		desc, err := loc.GetOwnProperty(env, key)
		if err != nil {
			return false, err
		}
		if desc == nil {
			return true, nil
		}
		if !desc.Configurable {
			return false, nil
		}
		loc.properties.remove(key)
		return true, nil
	}
	return false, webidl.SecurityError(fmt.Sprintf("Can't delete property '%s' on cross-origin object", key))
}

// OwnPropertyKeys lists own keys same-origin and exactly the allow-list
// plus meta keys cross-origin.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#location-ownpropertykeys
func (loc *Location) OwnPropertyKeys(env Environment) []PropertyKey {
	if loc.isSameOrigin(env) {
		return loc.properties.orderedKeys()
	}
	return CrossOriginOwnPropertyKeys(loc)
}

func containsKey(keys []PropertyKey, key PropertyKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
