package patch

import "errors"

// Validator checks the field constraints of a decoded value, returning a
// non-nil error when any is violated.
type Validator interface {
	Validate(v any) error
}

// Apply applies p to target and returns a new, validated T. target is never
// modified; on any error the zero T is returned.
func Apply[T any](p JSONPatch, target T, validator Validator) (T, error) {
	return transform(target, p.Apply, validator)
}

// Merge applies the merge patch mergePatch to target and returns a new,
// validated T. target is never modified; on any error the zero T is returned.
func Merge[T any](mergePatch Value, target T, validator Validator) (T, error) {
	return transform(target, func(doc Value) (Value, error) {
		return MergePatch(mergePatch, doc)
	}, validator)
}

func transform[T any](target T, fn func(Value) (Value, error), validator Validator) (T, error) {
	var zero T
	if validator == nil {
		return zero, errors.New("patch: nil validator")
	}

	doc, err := ToGeneric(target)
	if err != nil {
		return zero, err
	}
	doc, err = fn(doc)
	if err != nil {
		return zero, err
	}
	result, err := FromGeneric[T](doc)
	if err != nil {
		return zero, err
	}
	if err := validator.Validate(result); err != nil {
		return zero, err
	}
	return result, nil
}
