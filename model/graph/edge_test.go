package graph

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEdge(t *testing.T) {
	up, down := NewTask("x", nil), NewTask("y", nil)

	testCases := []struct {
		description string
		options     []EdgeOption
		expectError bool
	}{
		{description: "ordering edge", options: nil},
		{description: "valid key", options: []EdgeOption{WithKey("valid_name")}},
		{description: "leading underscore", options: []EdgeOption{WithKey("_rows")}},
		{description: "leading digit", options: []EdgeOption{WithKey("2bad")}, expectError: true},
		{description: "python keyword", options: []EdgeOption{WithKey("for")}, expectError: true},
		{description: "python constant", options: []EdgeOption{WithKey("None")}, expectError: true},
		{description: "go keyword", options: []EdgeOption{WithKey("func")}, expectError: true},
		{description: "dash", options: []EdgeOption{WithKey("a-b")}, expectError: true},
		{description: "unicode letters", options: []EdgeOption{WithKey("zażółć")}},
		{description: "unicode digit", options: []EdgeOption{WithKey("x٣")}},
		{description: "leading unicode digit", options: []EdgeOption{WithKey("٣x")}, expectError: true},
		{description: "symbol", options: []EdgeOption{WithKey("price€")}, expectError: true},
		{description: "index with key", options: []EdgeOption{WithKey("first"), WithIndex(0)}},
		{description: "index without key", options: []EdgeOption{WithIndex(1)}, expectError: true},
		{description: "negative index", options: []EdgeOption{WithKey("first"), WithIndex(-1)}, expectError: true},
		{description: "uuid id", options: []EdgeOption{WithID("3F2504E0-4F89-11D3-9A0C-0305E82C3301")}},
		{description: "invalid id", options: []EdgeOption{WithID("abc")}, expectError: true},
	}

	for _, testCase := range testCases {
		edge, err := NewEdge(up, down, testCase.options...)
		if testCase.expectError {
			assert.Error(t, err, testCase.description)
			assert.True(t, errors.Is(err, ErrValidation), testCase.description)
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.NotEmpty(t, edge.ID(), testCase.description)
		assert.Same(t, up, edge.Upstream(), testCase.description)
		assert.Same(t, down, edge.Downstream(), testCase.description)
	}
}

func TestEdge_Equal(t *testing.T) {
	up, down := NewTask("x", nil), NewTask("y", nil)

	e1, err := NewEdge(up, down, WithKey("a"))
	require.NoError(t, err)
	e2, err := NewEdge(up, down, WithKey("a"), WithIndex(2))
	require.NoError(t, err)
	e3, err := NewEdge(up, down, WithKey("b"))
	require.NoError(t, err)

	assert.NotEqual(t, e1.ID(), e2.ID())
	assert.True(t, e1.Equal(e2))
	assert.Equal(t, e1.HashKey(), e2.HashKey())
	assert.False(t, e1.Equal(e3))

	set := map[EdgeKey]*Edge{e1.HashKey(): e1}
	_, ok := set[e2.HashKey()]
	assert.True(t, ok)
}

func TestEdge_String(t *testing.T) {
	up, down := NewTask("x", nil), NewTask("y", nil)
	keyed, err := NewEdge(up, down, WithKey("a"))
	require.NoError(t, err)
	ordering, err := NewEdge(up, down)
	require.NoError(t, err)
	assert.Equal(t, "<Edge: x to y (key=a)>", keyed.String())
	assert.Equal(t, "<Edge: x to y>", ordering.String())
}

func TestEdge_MarshalJSON(t *testing.T) {
	up, down := NewTask("x", nil), NewTask("y", nil)
	edge, err := NewEdge(up, down, WithKey("rows"), WithIndex(1), WithID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	require.NoError(t, err)

	data, err := json.Marshal(edge)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"3f2504e0-4f89-11d3-9a0c-0305e82c3301","upstream":"x","downstream":"y","key":"rows","index":1}`, string(data))

	spec := &EdgeSpec{}
	require.NoError(t, json.Unmarshal(data, spec))
	restored, err := NewEdge(up, down, spec.Options()...)
	require.NoError(t, err)
	assert.True(t, edge.Equal(restored))
	assert.Equal(t, edge.ID(), restored.ID())
	index, ok := restored.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, index)
}
