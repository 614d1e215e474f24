package url

import "strconv"

// FileURLsHaveOpaqueOrigin controls the origin of file URLs. Browsers
// disagree here; opaque is the conservative default and callers embed
// this package with their own policy.
var FileURLsHaveOpaqueOrigin = true

type opaqueOriginNonce struct{ _ byte }

// Origin is either an opaque origin, which compares equal only to
// itself, or a (scheme, host, port, domain) tuple.
// https://html.spec.whatwg.org/multipage/browsers.html#concept-origin
type Origin struct {
	nonce  *opaqueOriginNonce
	scheme string
	host   *Host
	port   *uint16
	domain *string
}

// NewOpaqueOrigin returns a fresh opaque origin, unequal to every other
// origin including other opaque ones.
func NewOpaqueOrigin() Origin {
	return Origin{nonce: new(opaqueOriginNonce)}
}

// NewTupleOrigin returns a tuple origin with a null domain.
func NewTupleOrigin(scheme string, host *Host, port *uint16) Origin {
	o := Origin{scheme: scheme, host: host}
	if port != nil {
		p := *port
		o.port = &p
	}
	return o
}

// IsOpaque reports whether the origin is opaque.
func (o Origin) IsOpaque() bool { return o.nonce != nil }

// Scheme returns the tuple origin's scheme, or "" for opaque origins.
func (o Origin) Scheme() string { return o.scheme }

// Host returns the tuple origin's host, or nil for opaque origins.
func (o Origin) Host() *Host { return o.host }

// Port returns the tuple origin's port, or nil.
func (o Origin) Port() *uint16 { return o.port }

// Domain returns the tuple origin's domain, or nil when none was set.
func (o Origin) Domain() *string { return o.domain }

// WithDomain returns a copy of the origin with its domain set. Documents
// use this when document.domain widens the effective domain.
func (o Origin) WithDomain(domain string) Origin {
	o.domain = &domain
	return o
}

// EffectiveDomain returns the origin's domain if one is set and its
// serialized host otherwise. nil for opaque origins and hostless tuples.
// https://html.spec.whatwg.org/multipage/browsers.html#concept-origin-effective-domain
func (o Origin) EffectiveDomain() *string {
	if o.IsOpaque() {
		return nil
	}
	if o.domain != nil {
		return o.domain
	}
	if o.host == nil {
		return nil
	}
	host := o.host.Serialize()
	return &host
}

// IsSameOrigin reports whether two origins are same origin: both the
// same opaque origin, or tuples agreeing on scheme, host and port.
// https://html.spec.whatwg.org/multipage/browsers.html#same-origin
func (o Origin) IsSameOrigin(other Origin) bool {
	if o.IsOpaque() || other.IsOpaque() {
		return o.nonce == other.nonce && o.nonce != nil
	}
	return o.scheme == other.scheme && o.host.Equal(other.host) && equalPort(o.port, other.port)
}

// IsSameOriginDomain reports whether two origins are same origin-domain:
// schemes equal and both domains set and equal, or same origin with
// neither domain set.
// https://html.spec.whatwg.org/multipage/browsers.html#same-origin-domain
func (o Origin) IsSameOriginDomain(other Origin) bool {
	if o.IsOpaque() || other.IsOpaque() {
		return o.nonce == other.nonce && o.nonce != nil
	}
	if o.domain != nil && other.domain != nil {
		return o.scheme == other.scheme && *o.domain == *other.domain
	}
	if o.domain == nil && other.domain == nil {
		return o.IsSameOrigin(other)
	}
	return false
}

// Serialize renders the origin for the location.origin getter. Opaque
// origins serialize to "null".
// https://html.spec.whatwg.org/multipage/browsers.html#ascii-serialisation-of-an-origin
func (o Origin) Serialize() string {
	if o.IsOpaque() {
		return "null"
	}
	out := o.scheme + "://"
	if o.host != nil {
		out += o.host.Serialize()
	}
	if o.port != nil {
		out += ":" + strconv.FormatUint(uint64(*o.port), 10)
	}
	return out
}

// Origin derives the origin of the URL record: a tuple for special
// schemes other than file, opaque otherwise. file is a policy point; see
// FileURLsHaveOpaqueOrigin.
// https://url.spec.whatwg.org/#concept-url-origin
func (u *URL) Origin() Origin {
	if !u.IsSpecial() {
		return NewOpaqueOrigin()
	}
	if u.scheme == "file" {
		if FileURLsHaveOpaqueOrigin {
			return NewOpaqueOrigin()
		}
		return NewTupleOrigin("file", EmptyHost(), nil)
	}
	return NewTupleOrigin(u.scheme, u.host, u.port)
}
