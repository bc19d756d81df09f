package pnl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// object builds a JSON object whose members keep their insertion order.
// Errors are sticky: the first one is returned by MarshalJSON.
type object struct {
	members [][]byte
	err     error
}

// set adds key with the JSON encoding of v.
func (o *object) set(key string, v any) *object {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(v)
	if err != nil {
		o.err = fmt.Errorf("encoding %q: %w", key, err)
		return o
	}
	k, _ := json.Marshal(key)
	o.members = append(o.members, append(append(k, ':'), raw...))
	return o
}

// setNonZero adds key only when v is not the zero value of its type.
func (o *object) setNonZero(key string, v any) *object {
	if rv := reflect.ValueOf(v); !rv.IsValid() || rv.IsZero() {
		return o
	}
	return o.set(key, v)
}

// inline encodes v, which must encode as an object or null, and adds its
// members at the current position.
func (o *object) inline(v any) *object {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(v)
	if err != nil {
		o.err = fmt.Errorf("encoding inlined %T: %w", v, err)
		return o
	}
	raw = bytes.TrimSpace(raw)
	if string(raw) == "null" {
		return o
	}
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		o.err = fmt.Errorf("cannot inline %T: not a JSON object", v)
		return o
	}
	if inner := bytes.TrimSpace(raw[1 : len(raw)-1]); len(inner) > 0 {
		o.members = append(o.members, inner)
	}
	return o
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(bytes.Join(o.members, []byte{','}))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
