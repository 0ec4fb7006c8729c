// Package tree is a small generic JSON tree used where the status document
// has to be handled before (or without) its typed form: schema validation of
// arbitrary input and dotted-path assignment from the command line.
//
// A Value is a tagged union of object, array, string, number, bool and null.
// Objects remember key insertion order so that a parsed document marshals
// back in the order it was written.
package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies which member of the union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON-ish name of the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one node of a generic JSON tree. The zero value is null.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// --- Constructors ---

// Null returns a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Number returns a number value from its JSON literal.
func Number(n json.Number) *Value { return &Value{kind: KindNumber, num: n} }

// Int returns a number value holding an integer.
func Int(n int64) *Value { return Number(json.Number(strconv.FormatInt(n, 10))) }

// Float returns a number value holding f in its shortest representation.
func Float(f float64) *Value {
	return Number(json.Number(strconv.FormatFloat(f, 'f', -1, 64)))
}

// Array returns an array value holding items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Object returns an empty object value.
func Object() *Value {
	return &Value{kind: KindObject, fields: make(map[string]*Value)}
}

// --- Accessors ---

// Kind reports which member of the union v holds. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Str returns the string held by v.
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.str, true
}

// BoolValue returns the boolean held by v.
func (v *Value) BoolValue() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// Float64 returns the number held by v as a float64.
func (v *Value) Float64() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Integer returns the number held by v when it has no fractional part.
// "3" and "3.0" both report 3; "3.5" reports false.
func (v *Value) Integer() (int64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	if n, err := v.num.Int64(); err == nil {
		return n, true
	}
	f, ok := v.Float64()
	if !ok || math.Trunc(f) != f || math.IsInf(f, 0) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// InRange reports whether the number held by v fits in a float64.
// Literals such as 1e400 parse as numbers but overflow.
func (v *Value) InRange() bool {
	_, ok := v.Float64()
	return ok
}

// Len returns the number of array items or object fields, or 0.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th array item.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindArray || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Items returns the array items. The slice must not be modified.
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Field returns the object field named key.
func (v *Value) Field(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Keys returns object keys in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// --- Mutation ---

// SetField assigns key on an object, keeping the original position when
// the key already exists. It is a no-op on non-objects.
func (v *Value) SetField(key string, val *Value) {
	if v.Kind() != KindObject {
		return
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// Append adds an item to an array. It is a no-op on non-arrays.
func (v *Value) Append(val *Value) {
	if v.Kind() != KindArray {
		return
	}
	v.items = append(v.items, val)
}

// --- Parsing ---

// Parse decodes one JSON value from data. Numbers keep their literal form
// and object keys keep their order.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("tree: unexpected data after top-level value")
	}
	return v, nil
}

func decode(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := decode(dec)
				if err != nil {
					return nil, err
				}
				obj.SetField(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array()
			for dec.More() {
				val, err := decode(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// --- Encoding ---

// MarshalJSON encodes v compactly, objects in insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.num.String())
	case KindString:
		return encodeString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder.Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
