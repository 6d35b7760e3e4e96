package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// errUnresolved is returned by get and turned into a [*PathNotFoundError] by
// the operation that triggered the walk.
var errUnresolved = errors.New("unresolved pointer")

// Apply applies the operations in order and returns the resulting document.
// Each operation sees the document left by the previous one. doc itself is
// never modified, and on failure nothing is returned.
//
// Operations that edit the document run through github.com/evanphx/json-patch.
// Whole-document operations and test are evaluated here, the library handles
// neither the empty pointer nor numeric equality.
func (p JSONPatch) Apply(doc Value) (Value, error) {
	doc = Clone(doc)
	for i, op := range p {
		var err error
		doc, err = op.apply(doc)
		var malformed *MalformedPatchError
		switch {
		case errors.As(err, &malformed):
			malformed.Index = i
			return nil, malformed
		case err != nil:
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return doc, nil
}

func (op *Operation) apply(doc Value) (Value, error) {
	switch op.Op {
	case OpAdd, OpRemove, OpReplace, OpTest:
	case OpMove, OpCopy:
		if op.Op == OpMove && isProperPrefix(op.From, op.Path) {
			return nil, &MalformedPatchError{Index: -1, Reason: fmt.Sprintf("cannot move %q into its own child %q", op.From.String(), op.Path.String())}
		}
		if _, err := get(doc, op.From); err != nil {
			return nil, op.notFound(op.From)
		}
	default:
		return nil, &MalformedPatchError{Index: -1, Reason: fmt.Sprintf("unknown op %q", op.Op)}
	}

	switch {
	case op.Op == OpTest:
		return op.test(doc)
	case len(op.Path) == 0:
		return op.applyRoot(doc)
	case !resolvable(doc, op.Path, op.Op != OpRemove && op.Op != OpReplace):
		return nil, op.notFound(op.Path)
	case op.Op == OpMove && slices.Equal(op.From, op.Path):
		return doc, nil
	case op.Op == OpCopy && len(op.From) == 0:
		return op.delegate(doc, &Operation{Op: OpAdd, Path: op.Path, Value: doc})
	default:
		return op.delegate(doc, op)
	}
}

func (op *Operation) test(doc Value) (Value, error) {
	v, err := get(doc, op.Path)
	if err != nil {
		return nil, op.notFound(op.Path)
	}
	if !Equal(v, op.Value) {
		return nil, &TestFailedError{Path: op.Path.String(), Expected: op.Value, Actual: v}
	}
	return doc, nil
}

// applyRoot runs an operation whose path is the whole document.
func (op *Operation) applyRoot(doc Value) (Value, error) {
	switch op.Op {
	case OpAdd, OpReplace:
		return Clone(op.Value), nil
	case OpMove, OpCopy:
		v, err := get(doc, op.From)
		if err != nil {
			return nil, op.notFound(op.From)
		}
		return Clone(v), nil
	default:
		return nil, op.notFound(op.Path)
	}
}

// delegate applies lib to doc with json-patch, reporting failures as op's.
func (op *Operation) delegate(doc Value, lib *Operation) (Value, error) {
	data, err := Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("patch: encode document: %w", err)
	}
	ops, err := lib.library()
	if err != nil {
		return nil, &MalformedPatchError{Index: -1, Reason: err.Error()}
	}

	options := jsonpatch.NewApplyOptions()
	options.SupportNegativeIndices = false
	data, err = ops.ApplyWithOptions(data, options)
	switch {
	case errors.Is(err, jsonpatch.ErrMissing), errors.Is(err, jsonpatch.ErrInvalidIndex):
		return nil, op.notFound(op.Path)
	case errors.Is(err, jsonpatch.ErrTestFailed):
		return nil, &TestFailedError{Path: op.Path.String(), Expected: op.Value}
	case err != nil:
		return nil, fmt.Errorf("patch: %s %q: %w", op.Op, op.Path.String(), err)
	}
	return Parse(data)
}

// library encodes op as a single-operation json-patch document.
func (op *Operation) library() (jsonpatch.Patch, error) {
	member := map[string]any{"op": op.Op, "path": op.Path.String()}
	switch op.Op {
	case OpMove, OpCopy:
		member["from"] = op.From.String()
	case OpAdd, OpReplace, OpTest:
		if op.Value == nil {
			member["value"] = Null{}
		} else {
			member["value"] = op.Value
		}
	}
	data, err := json.Marshal([]any{member})
	if err != nil {
		return nil, err
	}
	return jsonpatch.DecodePatch(data)
}

func (op *Operation) notFound(p Pointer) error {
	return &PathNotFoundError{Op: op.Op, Path: p.String()}
}

// resolvable reports false for the pointers json-patch would resolve
// differently from RFC 6901: any pointer into a scalar document, and array
// tokens that are not a plain decimal index ("-" is allowed as the last token
// when appendable). The walk stops at the first member that does not exist.
func resolvable(doc Value, p Pointer, appendable bool) bool {
	for i, token := range p {
		switch node := doc.(type) {
		case Object:
			v, ok := node[token]
			if !ok {
				return true
			}
			doc = v
		case Array:
			if token == "-" && appendable && i == len(p)-1 {
				return true
			}
			index, ok := arrayIndex(token, len(node))
			if !ok {
				return false
			}
			if index == len(node) {
				return true
			}
			doc = node[index]
		default:
			return i > 0
		}
	}
	return true
}

// get returns the value p refers to in doc.
func get(doc Value, p Pointer) (Value, error) {
	for _, token := range p {
		switch node := doc.(type) {
		case Object:
			v, ok := node[token]
			if !ok {
				return nil, errUnresolved
			}
			doc = v
		case Array:
			i, ok := arrayIndex(token, len(node)-1)
			if !ok {
				return nil, errUnresolved
			}
			doc = node[i]
		default:
			return nil, errUnresolved
		}
	}
	return doc, nil
}
