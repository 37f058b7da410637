package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv struct {
	K string
	V int
}

func TestIndexByKeepsInsertionOrder(t *testing.T) {
	items := []kv{{"a", 1}, {"b", 2}, {"a", 3}, {"a", 4}}

	idx := IndexBy(items, func(it kv) string { return it.K })
	require.Len(t, idx, 2)
	assert.Equal(t, []kv{{"a", 1}, {"a", 3}, {"a", 4}}, idx["a"])
	assert.Equal(t, []kv{{"b", 2}}, idx["b"])
	assert.Nil(t, idx["missing"])
}

func TestIndexUniqueLastWriteWins(t *testing.T) {
	items := []kv{{"a", 1}, {"a", 2}}

	idx := IndexUnique(items, func(it kv) string { return it.K })
	assert.Equal(t, 2, idx["a"].V)
}

func TestIndexFirstKeepsFirst(t *testing.T) {
	items := []kv{{"a", 1}, {"a", 2}}

	idx := IndexFirst(items, func(it kv) string { return it.K })
	assert.Equal(t, 1, idx["a"].V)
}
