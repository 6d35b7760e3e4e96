package patch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string    `json:"name"`
	Age   int       `json:"age,omitempty"`
	Tags  []string  `json:"tags,omitempty"`
	When  time.Time `json:"when"`
	Inner *struct {
		On bool `json:"on"`
	} `json:"inner,omitempty"`
}

func TestToGeneric(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	doc, err := ToGeneric(sample{Name: "x", Tags: []string{"a"}, When: when})
	require.NoError(t, err)
	assert.Equal(t, Object{
		"name": String("x"),
		"tags": Array{String("a")},
		"when": String("2024-05-06T07:08:09Z"),
	}, doc)

	_, err = ToGeneric(func() {})
	assert.Error(t, err)
}

func TestFromGeneric(t *testing.T) {
	got, err := FromGeneric[sample](mustParse(t, `{"name":"y","age":3,"inner":{"on":true},"when":"2024-05-06T07:08:09Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "y", got.Name)
	assert.Equal(t, 3, got.Age)
	require.NotNil(t, got.Inner)
	assert.True(t, got.Inner.On)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), got.When)
}

func TestGenericRoundTrip(t *testing.T) {
	in := sample{Name: "x", Age: 1, When: time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)}
	doc, err := ToGeneric(in)
	require.NoError(t, err)
	out, err := FromGeneric[sample](doc)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFromGenericTypeMismatch(t *testing.T) {
	for _, tc := range []struct {
		name     string
		doc      string
		field    string
		expected string
		got      string
	}{
		{"string for number", `{"age":"old"}`, "age", "number", "string"},
		{"number for string", `{"name":1}`, "name", "string", "number"},
		{"object for array", `{"tags":{}}`, "tags", "array", "object"},
		{"unknown member", `{"nickname":"z"}`, "nickname", "no such member", "member"},
		{"array for object", `[]`, "", "object", "array"},
		{"member case differs", `{"NAME":"x"}`, "NAME", "no such member", "member"},
		{"member case differs from set field", `{"name":"x","Age":3}`, "Age", "no such member", "member"},
		{"nested member case differs", `{"inner":{"ON":true}}`, "inner.ON", "no such member", "member"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromGeneric[sample](mustParse(t, tc.doc))
			assert.Equal(t, sample{}, got)

			var mismatch *TypeMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tc.field, mismatch.Field)
			assert.Equal(t, tc.expected, mismatch.Expected)
			assert.Equal(t, tc.got, mismatch.Got)
			assert.Error(t, mismatch.Unwrap())
		})
	}
}

func TestFromGenericMalformedText(t *testing.T) {
	_, err := FromGeneric[sample](mustParse(t, `{"when":"yesterday"}`))
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "type mismatch")
}

type tagged struct {
	sample
	ID     string            `json:"id"`
	Skip   string            `json:"-"`
	Plain  int
	Items  []struct{ K int } `json:"items"`
	Labels map[string]struct {
		V string `json:"v"`
	} `json:"labels"`
}

func TestFromGenericExactMembers(t *testing.T) {
	got, err := FromGeneric[tagged](mustParse(t,
		`{"name":"n","id":"i","Plain":1,"items":[{"K":1}],"labels":{"a":{"v":"b"}},"when":"2024-05-06T07:08:09Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "n", got.Name)
	assert.Equal(t, "i", got.ID)
	assert.Equal(t, 1, got.Plain)
	assert.Equal(t, 1, got.Items[0].K)
	assert.Equal(t, "b", got.Labels["a"].V)

	for doc, field := range map[string]string{
		`{"Skip":"x"}`:                 "Skip",
		`{"plain":1}`:                  "plain",
		`{"sample":{}}`:                "sample",
		`{"items":[{"K":1},{"k":2}]}`:  "items[1].k",
		`{"labels":{"a":{"V":"b"}}}`:   "labels.a.V",
		`{"ID":"x","name":"n","id":1}`: "ID",
	} {
		_, err := FromGeneric[tagged](mustParse(t, doc))
		var mismatch *TypeMismatchError
		require.ErrorAs(t, err, &mismatch, doc)
		assert.Equal(t, field, mismatch.Field, doc)
		assert.Equal(t, "no such member", mismatch.Expected, doc)
	}
}
