package patch

import "fmt"

// Media types of the two patch document kinds.
const (
	MediaTypeJSONPatch  = "application/json-patch+json"
	MediaTypeMergePatch = "application/merge-patch+json"
)

// Op is a JSON Patch operation name.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

// Operation is a single decoded JSON Patch operation. From is only meaningful
// for move and copy, Value for add, replace and test.
type Operation struct {
	Op    Op
	Path  Pointer
	From  Pointer
	Value Value
}

// JSONPatch is an ordered sequence of operations.
type JSONPatch []Operation

// DecodeJSONPatch decodes an application/json-patch+json document. Every
// problem with the document is reported as a [*MalformedPatchError].
func DecodeJSONPatch(data []byte) (JSONPatch, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, &MalformedPatchError{Index: -1, Reason: err.Error()}
	}
	arr, ok := doc.(Array)
	if !ok {
		return nil, &MalformedPatchError{Index: -1, Reason: "expected an array of operations, got " + KindOf(doc).String()}
	}

	ops := make(JSONPatch, 0, len(arr))
	for i, elem := range arr {
		op, err := decodeOperation(elem)
		if err != nil {
			return nil, &MalformedPatchError{Index: i, Reason: err.Error()}
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOperation(elem Value) (Operation, error) {
	obj, ok := elem.(Object)
	if !ok {
		return Operation{}, fmt.Errorf("expected an object, got %s", KindOf(elem))
	}

	name, err := stringMember(obj, "op")
	if err != nil {
		return Operation{}, err
	}
	op := Operation{Op: Op(name)}
	switch op.Op {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
	default:
		return Operation{}, fmt.Errorf("unknown op %q", name)
	}

	if op.Path, err = pointerMember(obj, "path"); err != nil {
		return Operation{}, err
	}

	switch op.Op {
	case OpMove, OpCopy:
		if op.From, err = pointerMember(obj, "from"); err != nil {
			return Operation{}, err
		}
		if op.Op == OpMove && isProperPrefix(op.From, op.Path) {
			return Operation{}, fmt.Errorf("cannot move %q into its own child %q", op.From.String(), op.Path.String())
		}
	case OpAdd, OpReplace, OpTest:
		v, ok := obj["value"]
		if !ok {
			return Operation{}, fmt.Errorf("%s requires a \"value\" member", op.Op)
		}
		if v == nil {
			v = Null{}
		}
		op.Value = v
	}
	return op, nil
}

func stringMember(obj Object, name string) (string, error) {
	v, ok := obj[name]
	if !ok {
		return "", fmt.Errorf("missing %q member", name)
	}
	s, ok := v.(String)
	if !ok {
		return "", fmt.Errorf("member %q must be a string, got %s", name, KindOf(v))
	}
	return string(s), nil
}

func pointerMember(obj Object, name string) (Pointer, error) {
	s, err := stringMember(obj, name)
	if err != nil {
		return nil, err
	}
	p, err := ParsePointer(s)
	if err != nil {
		return nil, fmt.Errorf("member %q: %w", name, err)
	}
	return p, nil
}

func isProperPrefix(prefix, p Pointer) bool {
	return len(prefix) < len(p) && p.HasPrefix(prefix)
}

// DecodeMergePatch decodes an application/merge-patch+json document. Any JSON
// text is a valid merge patch; a syntax error is a [*MalformedPatchError].
func DecodeMergePatch(data []byte) (Value, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, &MalformedPatchError{Index: -1, Reason: err.Error()}
	}
	return doc, nil
}
