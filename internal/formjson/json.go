package formjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a scalar as a JSON string and a list as an array of
// strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.isList {
		return json.Marshal(v.scalar)
	}
	if v.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.list)
}

// UnmarshalJSON accepts a JSON string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("formjson: value must be a string or an array of strings")
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("formjson: list value: %w", err)
		}
		*v = Value{list: list, isList: true}
		if v.list == nil {
			v.list = []string{}
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("formjson: value must be a string or an array of strings")
	}
	*v = Scalar(s)
	return nil
}

// MarshalJSON encodes the form as a JSON object with names in
// first-appearance order.
func (f SerializedForm) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := f.values[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings and string arrays, keeping
// the object's key order.
func (f *SerializedForm) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("formjson: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("formjson: form must be a JSON object")
	}

	out := SerializedForm{values: make(map[string]Value)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("formjson: %w", err)
		}
		name := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("formjson: field %q: %w", name, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("formjson: field %q: %w", name, err)
		}
		out.set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("formjson: %w", err)
	}

	*f = out
	return nil
}
