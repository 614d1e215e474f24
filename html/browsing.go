// Package html implements the Location platform object and the
// cross-origin property machinery gating access to it.
package html

import (
	"github.com/heathj/weburl/url"
)

// HistoryBehavior selects how a navigation affects session history.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#navigationhistorybehavior
type HistoryBehavior uint8

const (
	// HistoryAuto lets the navigation subsystem pick; it defaults to
	// push for the navigations issued here.
	HistoryAuto HistoryBehavior = iota
	// HistoryPush adds a session history entry.
	HistoryPush
	// HistoryReplace replaces the current session history entry.
	HistoryReplace
)

// Document is the slice of a document this package observes. Documents
// are owned by the browsing-context/session-history subsystem; Location
// never stores one and re-derives it on every access.
type Document interface {
	// URL returns the document's URL record.
	URL() *url.URL
	// Origin returns the document's origin. Stable for the document's
	// lifetime, unlike url.URL.Origin which mints fresh opaque origins.
	Origin() url.Origin
	// IsCompletelyLoaded reports whether the document has finished
	// loading.
	IsCompletelyLoaded() bool
	// CharacterEncoding returns the document's encoding label, used as
	// the query encoding when reparsing the search component.
	CharacterEncoding() string
	// Navigable returns the navigable presenting the document.
	Navigable() Navigable
}

// BrowsingContext groups a sequence of documents under one name.
type BrowsingContext interface {
	// ActiveDocument returns the currently active document, or nil.
	ActiveDocument() Document
}

// Window is the global object a Location belongs to. The Location holds
// it weakly in the sense that it never outlives nor retargets it.
type Window interface {
	BrowsingContext() BrowsingContext
	Navigable() Navigable
}

// NavigateParams carries one navigation request to the navigation
// subsystem.
type NavigateParams struct {
	URL             *url.URL
	SourceDocument  Document
	HistoryHandling HistoryBehavior
}

// Navigable is the external entity owning a document/history timeline.
// Both calls are synchronous hand-offs; failures propagate to the caller
// unchanged and nothing here retries or queues them.
type Navigable interface {
	Navigate(params NavigateParams) error
	Reload() error
}

// Environment is the caller's settings object, passed explicitly to
// every operation that historically read it from ambient realm state.
// https://html.spec.whatwg.org/multipage/webappapis.html#environment-settings-object
type Environment interface {
	// Origin returns the calling environment's origin.
	Origin() url.Origin
	// APIBaseURL returns the base URL for parsing URLs given by script.
	APIBaseURL() *url.URL
	// CharacterEncoding returns the environment's URL character
	// encoding label.
	CharacterEncoding() string
	// ResponsibleDocument returns the environment's document, used as
	// the source document of navigations, or nil.
	ResponsibleDocument() Document
	// HasTransientActivation reports recent user activation in the
	// calling environment.
	HasTransientActivation() bool
}
