package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bools(t *testing.T, s *BooleanStorage) []Item[bool] {
	t.Helper()
	items, err := s.GetAllCollapsed(0, s.Filled())
	require.NoError(t, err)
	return items
}

func TestBooleanAddAllWithError(t *testing.T) {
	s := NewBoolean(DefaultOptions())
	require.NoError(t, s.AddAll([]Item[bool]{Valid(true), Invalid[bool]("bad"), Valid(false)}))

	items := bools(t, s)
	require.Len(t, items, 3)
	v, ok := items[0].Right()
	assert.True(t, ok)
	assert.True(t, v)
	msg, isErr := items[1].Left()
	assert.True(t, isErr)
	assert.Equal(t, "bad", msg)
	v, ok = items[2].Right()
	assert.True(t, ok)
	assert.False(t, v)

	assert.Equal(t, 1, s.CountTrue())
}

func TestBooleanInsertRemoveAcrossWords(t *testing.T) {
	s := NewBoolean(DefaultOptions())
	items := make([]Item[bool], 130)
	for i := range items {
		items[i] = Valid(i%3 == 0)
	}
	require.NoError(t, s.AddAll(items))
	before := bools(t, s)

	inserted := make([]Item[bool], 70)
	for i := range inserted {
		inserted[i] = Valid(true)
	}
	revert, err := s.InsertRows(60, inserted)
	require.NoError(t, err)
	assert.Equal(t, 200, s.Filled())
	after := bools(t, s)
	assert.Equal(t, before[:60], after[:60])
	assert.Equal(t, before[60:], after[130:])
	assert.Equal(t, 44+70, s.CountTrue())

	revert()
	assert.Equal(t, before, bools(t, s))

	removeRevert, err := s.RemoveRows(10, 100)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Filled())
	after = bools(t, s)
	assert.Equal(t, before[:10], after[:10])
	assert.Equal(t, before[110:], after[10:])
	assert.Len(t, s.data.words, 1)

	removeRevert()
	assert.Equal(t, before, bools(t, s))
}

func TestBooleanShrinkClearsTail(t *testing.T) {
	s := NewBoolean(DefaultOptions())
	require.NoError(t, s.AddAll([]Item[bool]{Valid(true), Valid(true), Valid(true)}))

	_, err := s.RemoveRows(1, 2)
	require.NoError(t, err)
	require.NoError(t, s.AddAll([]Item[bool]{Valid(false)}))

	v, err := s.View().Get(1)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestReadBoolean(t *testing.T) {
	for text, want := range map[string]bool{"true": true, "YES": true, "1": true, " false ": false, "No": false, "0": false} {
		item := ReadBoolean(text)
		v, ok := item.Right()
		require.True(t, ok, text)
		assert.Equal(t, want, v, text)
	}
	msg, isErr := ReadBoolean("maybe").Left()
	assert.True(t, isErr)
	assert.Equal(t, `cannot parse "maybe" as boolean`, msg)
}
