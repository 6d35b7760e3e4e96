package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONPatch(t *testing.T) {
	ops, err := DecodeJSONPatch([]byte(`[
		{"op":"add","path":"/a~1b","value":{"c":1}},
		{"op":"remove","path":"/x"},
		{"op":"replace","path":"","value":null},
		{"op":"move","from":"/a","path":"/b"},
		{"op":"copy","from":"/b","path":"/c/-"},
		{"op":"test","path":"/d","value":[1]}
	]`))
	require.NoError(t, err)
	assert.Equal(t, JSONPatch{
		{Op: OpAdd, Path: Pointer{"a/b"}, Value: Object{"c": Number("1")}},
		{Op: OpRemove, Path: Pointer{"x"}},
		{Op: OpReplace, Path: Pointer{}, Value: Null{}},
		{Op: OpMove, From: Pointer{"a"}, Path: Pointer{"b"}},
		{Op: OpCopy, From: Pointer{"b"}, Path: Pointer{"c", "-"}},
		{Op: OpTest, Path: Pointer{"d"}, Value: Array{Number("1")}},
	}, ops)
}

func TestDecodeJSONPatchIgnoresExtraMembers(t *testing.T) {
	ops, err := DecodeJSONPatch([]byte(`[{"op":"remove","path":"/a","value":1,"from":"/b","comment":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, JSONPatch{{Op: OpRemove, Path: Pointer{"a"}}}, ops)
}

func TestDecodeJSONPatchMalformed(t *testing.T) {
	for _, tc := range []struct {
		name  string
		in    string
		index int
	}{
		{"syntax", `[{"op":`, -1},
		{"not an array", `{"op":"add","path":"/a","value":1}`, -1},
		{"not an object", `[1]`, 0},
		{"missing op", `[{"path":"/a"}]`, 0},
		{"op not a string", `[{"op":1,"path":"/a"}]`, 0},
		{"unknown op", `[{"op":"remove","path":"/a"},{"op":"delete","path":"/a"}]`, 1},
		{"missing path", `[{"op":"remove"}]`, 0},
		{"path not a string", `[{"op":"remove","path":["a"]}]`, 0},
		{"path without slash", `[{"op":"remove","path":"a"}]`, 0},
		{"bad escape", `[{"op":"remove","path":"/a~2"}]`, 0},
		{"missing value", `[{"op":"add","path":"/a"}]`, 0},
		{"missing test value", `[{"op":"test","path":"/a"}]`, 0},
		{"missing from", `[{"op":"copy","path":"/a"}]`, 0},
		{"move into child", `[{"op":"move","from":"/a","path":"/a/b"}]`, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeJSONPatch([]byte(tc.in))
			var malformed *MalformedPatchError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tc.index, malformed.Index)
		})
	}
}

func TestDecodeJSONPatchEmpty(t *testing.T) {
	ops, err := DecodeJSONPatch([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDecodeMergePatch(t *testing.T) {
	doc, err := DecodeMergePatch([]byte(`{"a":null,"b":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, Object{"a": Null{}, "b": Array{Number("1")}}, doc)

	doc, err = DecodeMergePatch([]byte(`"replacement"`))
	require.NoError(t, err)
	assert.Equal(t, String("replacement"), doc)

	_, err = DecodeMergePatch([]byte(`{"a":`))
	var malformed *MalformedPatchError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, -1, malformed.Index)
}
