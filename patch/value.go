// Package patch applies JSON Patch (RFC 6902) and JSON Merge Patch (RFC 7396)
// documents to typed values through a generic JSON tree.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Value is a generic JSON value. Its dynamic type is one of [Object], [Array],
// [String], [Number], [Bool] or [Null]. A nil Value is treated as [Null].
type Value interface {
	Kind() Kind
}

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

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
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

type (
	// Object maps member names to values. Member order is not significant.
	Object map[string]Value
	// Array is an ordered, 0-indexed sequence of values.
	Array []Value
	String string
	// Number holds the literal text of a JSON number.
	Number string
	Bool   bool
	Null   struct{}
)

func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }

// MarshalJSON implements [json.Marshaler].
func (n Number) MarshalJSON() ([]byte, error) {
	if !json.Valid([]byte(n)) {
		return nil, fmt.Errorf("patch: invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// MarshalJSON implements [json.Marshaler].
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// KindOf returns the kind of v, reporting [KindNull] for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Parse decodes a single JSON text into a [Value]. Numbers keep their literal text.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return FromAny(raw), nil
}

// Marshal encodes v as compact JSON text.
func Marshal(v Value) ([]byte, error) {
	if v == nil {
		v = Null{}
	}
	return json.Marshal(v)
}

// FromAny converts the result of decoding into an interface{} (with or without
// [json.Decoder.UseNumber]) to a [Value]. Unsupported dynamic types become [Null].
func FromAny(raw any) Value {
	switch raw := raw.(type) {
	case map[string]any:
		obj := make(Object, len(raw))
		for k, v := range raw {
			obj[k] = FromAny(v)
		}
		return obj
	case []any:
		arr := make(Array, len(raw))
		for i, v := range raw {
			arr[i] = FromAny(v)
		}
		return arr
	case string:
		return String(raw)
	case json.Number:
		return Number(raw)
	case float64:
		return Number(strconv.FormatFloat(raw, 'g', -1, 64))
	case bool:
		return Bool(raw)
	default:
		return Null{}
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch v := v.(type) {
	case Object:
		obj := make(Object, len(v))
		for k, e := range v {
			obj[k] = Clone(e)
		}
		return obj
	case Array:
		arr := make(Array, len(v))
		for i, e := range v {
			arr[i] = Clone(e)
		}
		return arr
	case nil:
		return Null{}
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal. Numbers compare by
// numeric value, objects ignore member order.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch a := a.(type) {
	case Object:
		b := b.(Object)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Array:
		b := b.(Array)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Number:
		return equalNumbers(a, b.(Number))
	case nil, Null:
		return true
	default:
		return a == b
	}
}

func equalNumbers(a, b Number) bool {
	if a == b {
		return true
	}
	x, ok := exact(a)
	if !ok {
		return false
	}
	y, ok := exact(b)
	return ok && x.Cmp(y) == 0
}

// maxExponent bounds the decimal exponents expanded by exact. Literals beyond
// it only equal themselves.
const maxExponent = 1000

func exact(n Number) (*big.Rat, bool) {
	s := string(n)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return nil, false
		}
	}
	return new(big.Rat).SetString(s)
}
