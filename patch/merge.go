package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// MergePatch applies an RFC 7396 merge patch to target and returns the result.
// Object members of patch set to null delete the member, other members merge
// recursively, and any non-object patch (arrays included) replaces target
// wholesale. A non-object target merges as an empty object. Neither argument
// is modified.
func MergePatch(patch, target Value) (Value, error) {
	if KindOf(patch) != KindObject {
		return Clone(patch), nil
	}
	if KindOf(target) != KindObject {
		target = Object{}
	}

	doc, err := Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("patch: encode document: %w", err)
	}
	data, err := Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("patch: encode merge patch: %w", err)
	}
	merged, err := jsonpatch.MergePatch(doc, data)
	if err != nil {
		return nil, fmt.Errorf("patch: merge: %w", err)
	}
	return Parse(merged)
}
