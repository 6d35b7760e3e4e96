package patch

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ToGeneric converts v to a [Value] through its JSON encoding, so member names,
// omitted fields and value formats are exactly those the API serializes.
func ToGeneric(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("patch: encode %T: %w", v, err)
	}
	return Parse(data)
}

// FromGeneric decodes doc into a new T. A shape that does not fit T, including
// a member T does not declare, is reported as a [*TypeMismatchError]. Member
// names must match T's exactly, encoding/json alone would accept any case.
func FromGeneric[T any](doc Value) (T, error) {
	var t T
	if err := checkMembers(doc, reflect.TypeFor[T](), ""); err != nil {
		return t, err
	}
	data, err := Marshal(doc)
	if err != nil {
		return t, fmt.Errorf("patch: encode document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		var zero T
		return zero, mismatch(err)
	}
	return t, nil
}

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

// checkMembers reports the first object member of doc, in name order, that t
// has no field for under that exact name. Types decoding themselves are not
// inspected.
func checkMembers(doc Value, t reflect.Type, field string) error {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if p := reflect.PointerTo(t); p.Implements(jsonUnmarshalerType) || p.Implements(textUnmarshalerType) {
		return nil
	}

	switch node := doc.(type) {
	case Object:
		switch t.Kind() {
		case reflect.Struct:
			fields := fieldsOf(t)
			for _, name := range slices.Sorted(maps.Keys(node)) {
				ft, ok := fields[name]
				if !ok {
					return &TypeMismatchError{
						Field:    join(field, name),
						Expected: "no such member",
						Got:      "member",
						Err:      fmt.Errorf("patch: unknown member %q", join(field, name)),
					}
				}
				if err := checkMembers(node[name], ft, join(field, name)); err != nil {
					return err
				}
			}
		case reflect.Map:
			for _, name := range slices.Sorted(maps.Keys(node)) {
				if err := checkMembers(node[name], t.Elem(), join(field, name)); err != nil {
					return err
				}
			}
		}
	case Array:
		if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			for i, v := range node {
				if err := checkMembers(v, t.Elem(), field+"["+strconv.Itoa(i)+"]"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func join(field, name string) string {
	if field == "" {
		return name
	}
	return field + "." + name
}

var fieldCache sync.Map // reflect.Type -> map[string]reflect.Type

// fieldsOf returns the JSON member names t decodes, with the type of each.
// Fields of embedded structs without a name are promoted.
func fieldsOf(t reflect.Type) map[string]reflect.Type {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]reflect.Type)
	}
	fields := make(map[string]reflect.Type)
	for i := range t.NumField() {
		collectField(fields, t.Field(i))
	}
	fieldCache.Store(t, fields)
	return fields
}

func collectField(fields map[string]reflect.Type, f reflect.StructField) {
	if !f.IsExported() && !f.Anonymous {
		return
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return
	}
	name, _, _ := strings.Cut(tag, ",")
	if f.Anonymous && name == "" {
		t := f.Type
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() == reflect.Struct {
			for k, v := range fieldsOf(t) {
				if _, shadowed := fields[k]; !shadowed {
					fields[k] = v
				}
			}
			return
		}
		if !f.IsExported() {
			return
		}
	}
	if name == "" {
		name = f.Name
	}
	fields[name] = f.Type
}

func mismatch(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &TypeMismatchError{
			Field:    typeErr.Field,
			Expected: expectedKind(typeErr.Type),
			Got:      typeErr.Value,
			Err:      err,
		}
	}
	// encoding/json has no typed error for unknown members.
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &TypeMismatchError{
			Field:    strings.Trim(name, `"`),
			Expected: "no such member",
			Got:      "member",
			Err:      err,
		}
	}
	return &TypeMismatchError{Err: err}
}

func expectedKind(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return KindString.String()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return expectedKind(t.Elem())
	case reflect.Struct, reflect.Map:
		return KindObject.String()
	case reflect.Slice, reflect.Array:
		return KindArray.String()
	case reflect.String:
		return KindString.String()
	case reflect.Bool:
		return KindBool.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber.String()
	default:
		return t.String()
	}
}
