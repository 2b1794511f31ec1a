// Package formjson converts submitted form fields into a JSON-ready mapping.
//
// Fields are read in document order as FieldEntry pairs. Serialize folds them
// into a SerializedForm where a name submitted once maps to a plain string and
// a name submitted more than once maps to the ordered list of its values.
package formjson

import "slices"

// FieldEntry is one name/value pair read from a submission-eligible control.
type FieldEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Value holds either a single string or an ordered list of strings.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a single-string Value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List returns a list Value holding vs in order.
func List(vs ...string) Value {
	return Value{list: slices.Clone(vs), isList: true}
}

// IsList reports whether v is a list.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the scalar string, or the first list element for lists.
func (v Value) String() string {
	if !v.isList {
		return v.scalar
	}
	if len(v.list) == 0 {
		return ""
	}
	return v.list[0]
}

// Strings returns all values in arrival order. A scalar yields one element.
func (v Value) Strings() []string {
	if !v.isList {
		return []string{v.scalar}
	}
	return slices.Clone(v.list)
}

// Equal reports whether v and o have the same shape and the same values.
func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.scalar == o.scalar
	}
	return slices.Equal(v.list, o.list)
}

// SerializedForm maps field names to values. Names keep their first-appearance
// order for encoding.
type SerializedForm struct {
	names  []string
	values map[string]Value
}

// Len returns the number of distinct names.
func (f SerializedForm) Len() int {
	return len(f.names)
}

// Names returns the field names in first-appearance order.
func (f SerializedForm) Names() []string {
	return slices.Clone(f.names)
}

// Get returns the value stored for name.
func (f SerializedForm) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Equal reports whether both forms hold the same names with equal values.
// Order among distinct names is not significant.
func (f SerializedForm) Equal(o SerializedForm) bool {
	if len(f.names) != len(o.names) {
		return false
	}
	for name, v := range f.values {
		ov, ok := o.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// set stores v under name, keeping the first-appearance position of name.
func (f *SerializedForm) set(name string, v Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = v
}

// add folds one more occurrence of name into the form.
func (f *SerializedForm) add(name, value string) {
	cur, seen := f.values[name]
	switch {
	case !seen:
		f.set(name, Scalar(value))
	case !cur.isList:
		f.values[name] = Value{list: []string{cur.scalar, value}, isList: true}
	default:
		cur.list = append(cur.list, value)
		f.values[name] = cur
	}
}

// Serialize folds entries into a SerializedForm. Every entry is kept; repeated
// names become lists in arrival order.
func Serialize(entries []FieldEntry) SerializedForm {
	f := SerializedForm{values: make(map[string]Value, len(entries))}
	for _, e := range entries {
		f.add(e.Name, e.Value)
	}
	return f
}
