package html

// Value is a loosely typed script value. nil plays the role of
// undefined.
type Value interface{}

// NativeFunction is a host function stored as a property value.
type NativeFunction func(env Environment, args ...Value) (Value, error)

// PropertyKey names an own property. Well-known symbols are modelled as
// "@@"-prefixed names.
type PropertyKey string

const (
	keyThen               PropertyKey = "then"
	keyToStringTag        PropertyKey = "@@toStringTag"
	keyHasInstance        PropertyKey = "@@hasInstance"
	keyIsConcatSpreadable PropertyKey = "@@isConcatSpreadable"
	keyToPrimitive        PropertyKey = "@@toPrimitive"
)

// Getter reads a property value on behalf of the calling environment.
type Getter func(env Environment) (Value, error)

// Setter writes a property value on behalf of the calling environment.
type Setter func(env Environment, v Value) error

// PropertyDescriptor describes one own property, either a data property
// (Value) or an accessor (Get/Set).
type PropertyDescriptor struct {
	Value        Value
	Get          Getter
	Set          Setter
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// IsAccessor reports whether the descriptor describes an accessor
// property.
func (d PropertyDescriptor) IsAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// propertyMap is an insertion-ordered own-property table, the minimal
// slice of an ordinary object the Location needs underneath its traps.
type propertyMap struct {
	keys  []PropertyKey
	props map[PropertyKey]PropertyDescriptor
}

func newPropertyMap() *propertyMap {
	return &propertyMap{props: make(map[PropertyKey]PropertyDescriptor)}
}

func (m *propertyMap) define(key PropertyKey, desc PropertyDescriptor) {
	if _, ok := m.props[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.props[key] = desc
}

func (m *propertyMap) lookup(key PropertyKey) (PropertyDescriptor, bool) {
	desc, ok := m.props[key]
	return desc, ok
}

func (m *propertyMap) remove(key PropertyKey) {
	if _, ok := m.props[key]; !ok {
		return
	}
	delete(m.props, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// orderedKeys returns the own keys in insertion order.
func (m *propertyMap) orderedKeys() []PropertyKey {
	out := make([]PropertyKey, len(m.keys))
	copy(out, m.keys)
	return out
}
