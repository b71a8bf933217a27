package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/book"
)

func snap(symbol string) book.Snapshot {
	return book.Snapshot{Symbol: symbol}
}

func TestPushAssignsMonotonicSequence(t *testing.T) {
	t.Parallel()
	b := New(3)
	e1 := b.Push(snap("A"), 1000)
	e2 := b.Push(snap("B"), 1001)
	assert.Equal(t, uint64(0), e1.Sequence)
	assert.Equal(t, uint64(1), e2.Sequence)
	assert.Equal(t, uint64(2), b.CurrentSequence())
}

func TestPushEvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()
	b := New(2)
	b.Push(snap("A"), 1)
	b.Push(snap("B"), 2)
	b.Push(snap("C"), 3)

	assert.Equal(t, 2, b.Len())
	oldest, ok := b.Oldest()
	require.True(t, ok)
	assert.Equal(t, "B", oldest.Snapshot.Symbol)

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, "C", latest.Snapshot.Symbol)
}

func TestClearPreservesSequenceCounter(t *testing.T) {
	t.Parallel()
	b := New(5)
	b.Push(snap("A"), 1)
	b.Push(snap("B"), 2)
	b.Clear()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, uint64(2), b.CurrentSequence(), "sequence must not reset across Clear")

	next := b.Push(snap("C"), 3)
	assert.Equal(t, uint64(2), next.Sequence)
}

func TestGetBySequenceMissesEvictedEntries(t *testing.T) {
	t.Parallel()
	b := New(1)
	b.Push(snap("A"), 1)
	b.Push(snap("B"), 2)

	_, ok := b.GetBySequence(0)
	assert.False(t, ok, "evicted sequence 0 must no longer be retrievable")

	entry, ok := b.GetBySequence(1)
	require.True(t, ok)
	assert.Equal(t, "B", entry.Snapshot.Symbol)
}

func TestRangeFiltersInclusive(t *testing.T) {
	t.Parallel()
	b := New(10)
	for i := 0; i < 5; i++ {
		b.Push(snap("x"), int64(i))
	}
	r := b.Range(1, 3)
	require.Len(t, r, 3)
	assert.Equal(t, uint64(1), r[0].Sequence)
	assert.Equal(t, uint64(3), r[2].Sequence)
}

func TestNonPositiveCapacityUsesDefault(t *testing.T) {
	t.Parallel()
	b := New(0)
	assert.Equal(t, DefaultCapacity, b.Capacity())
}

func TestFirstAndLastSequence(t *testing.T) {
	t.Parallel()
	b := New(3)
	_, ok := b.FirstSequence()
	assert.False(t, ok)

	b.Push(snap("A"), 1)
	b.Push(snap("B"), 2)

	first, ok := b.FirstSequence()
	require.True(t, ok)
	assert.Equal(t, uint64(0), first)

	last, ok := b.LastSequence()
	require.True(t, ok)
	assert.Equal(t, uint64(1), last)
}
