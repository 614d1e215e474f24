package html

import (
	"fmt"

	"github.com/heathj/weburl/webidl"
)

// CrossOriginProperty is one entry of a platform object's fixed
// cross-origin allow-list. Accessor entries say which of get/set stay
// reachable; a non-accessor entry exposes the original value (a method)
// read-only.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossoriginproperties-(-o-)
type CrossOriginProperty struct {
	Key      PropertyKey
	Accessor bool
	NeedsGet bool
	NeedsSet bool
}

// CrossOriginAccessible is the slice of a platform object the
// cross-origin helpers operate on.
type CrossOriginAccessible interface {
	// CrossOriginProperties returns the object's fixed allow-list.
	CrossOriginProperties() []CrossOriginProperty
	// OrdinaryOwnProperty looks up an own property without any origin
	// gating.
	OrdinaryOwnProperty(key PropertyKey) (PropertyDescriptor, bool)
}

// crossOriginMetaKeys are the language-level keys every cross-origin
// object answers for, in the order OwnPropertyKeys reports them.
var crossOriginMetaKeys = []PropertyKey{keyThen, keyToStringTag, keyHasInstance, keyIsConcatSpreadable}

func isCrossOriginMetaKey(key PropertyKey) bool {
	for _, k := range crossOriginMetaKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CrossOriginGetOwnPropertyHelper maps an allow-listed key to the
// descriptor a cross-origin caller may see, or nil when the key is not
// allow-listed.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossorigingetownpropertyhelper-(-o,-p-)
func CrossOriginGetOwnPropertyHelper(obj CrossOriginAccessible, key PropertyKey) *PropertyDescriptor {
	for _, entry := range obj.CrossOriginProperties() {
		if entry.Key != key {
			continue
		}
		original, ok := obj.OrdinaryOwnProperty(key)
		if !ok {
			return nil
		}
		if entry.Accessor {
			desc := &PropertyDescriptor{Enumerable: false, Configurable: true}
			if entry.NeedsGet {
				desc.Get = original.Get
			}
			if entry.NeedsSet {
				desc.Set = original.Set
			}
			return desc
		}
		return &PropertyDescriptor{
			Value:        original.Value,
			Writable:     false,
			Enumerable:   false,
			Configurable: true,
		}
	}
	return nil
}

// CrossOriginPropertyFallback answers for the well-known meta keys and
// denies everything else.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossoriginpropertyfallback-(-p-)
func CrossOriginPropertyFallback(key PropertyKey) (*PropertyDescriptor, error) {
	if isCrossOriginMetaKey(key) {
		return &PropertyDescriptor{Value: nil, Writable: false, Enumerable: false, Configurable: true}, nil
	}
	return nil, webidl.SecurityError(fmt.Sprintf("Can't access property '%s' on cross-origin object", key))
}

// CrossOriginGet reads an allow-listed property for a cross-origin
// caller. A key whose entry keeps no getter fails with a security error
// rather than yielding undefined.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossoriginget-(-o,-p,-receiver-)
func CrossOriginGet(env Environment, obj CrossOriginAccessible, key PropertyKey) (Value, error) {
	desc := CrossOriginGetOwnPropertyHelper(obj, key)
	if desc == nil {
		fallback, err := CrossOriginPropertyFallback(key)
		if err != nil {
			return nil, err
		}
		desc = fallback
	}
	if !desc.IsAccessor() {
		return desc.Value, nil
	}
	if desc.Get == nil {
		return nil, webidl.SecurityError(fmt.Sprintf("Can't read property '%s' on cross-origin object", key))
	}
	return desc.Get(env)
}

// CrossOriginSet writes an allow-listed property for a cross-origin
// caller. Writes to anything without a reachable setter fail with a
// security error, never silently.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossoriginset-(-o,-p,-v,-receiver-)
func CrossOriginSet(env Environment, obj CrossOriginAccessible, key PropertyKey, v Value) (bool, error) {
	desc := CrossOriginGetOwnPropertyHelper(obj, key)
	if desc != nil && desc.Set != nil {
		if err := desc.Set(env, v); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, webidl.SecurityError(fmt.Sprintf("Can't set property '%s' on cross-origin object", key))
}

// CrossOriginOwnPropertyKeys returns exactly the allow-listed keys plus
// the meta keys, in a fixed order, regardless of what own properties the
// object actually carries.
// https://html.spec.whatwg.org/multipage/nav-history-apis.html#crossoriginownpropertykeys-(-o-)
func CrossOriginOwnPropertyKeys(obj CrossOriginAccessible) []PropertyKey {
	keys := make([]PropertyKey, 0, len(obj.CrossOriginProperties())+len(crossOriginMetaKeys))
	for _, entry := range obj.CrossOriginProperties() {
		keys = append(keys, entry.Key)
	}
	return append(keys, crossOriginMetaKeys...)
}
