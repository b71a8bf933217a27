// Package history implements the bounded snapshot ring buffer of spec §3
// and §8: a fixed-capacity history of book snapshots that preserves a
// monotonically increasing sequence number across eviction and Clear.
package history

import "github.com/hitakshiA/Havklo-sdk-sub000/book"

// DefaultCapacity is the ring buffer's default size.
const DefaultCapacity = 100

// TimestampedSnapshot pairs a book snapshot with the sequence number and
// wall-clock timestamp it was recorded under.
type TimestampedSnapshot struct {
	Snapshot    book.Snapshot
	Sequence    uint64
	TimestampMs int64
}

// Buffer is a fixed-capacity ring of TimestampedSnapshot, oldest evicted
// first. Its sequence counter never resets, even across Clear — spec §8
// requires that sequence numbers remain comparable across a book's whole
// lifetime, not just within the buffer's current contents.
type Buffer struct {
	entries      []TimestampedSnapshot
	maxSize      int
	nextSequence uint64
}

// New constructs a Buffer with the given capacity. A non-positive
// capacity is treated as DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{maxSize: capacity}
}

// Push appends a snapshot, stamping it with the caller-supplied
// timestampMs and the buffer's next sequence number, evicting the oldest
// entry if the buffer is at capacity.
func (b *Buffer) Push(snapshot book.Snapshot, timestampMs int64) TimestampedSnapshot {
	entry := TimestampedSnapshot{
		Snapshot:    snapshot,
		Sequence:    b.nextSequence,
		TimestampMs: timestampMs,
	}
	b.nextSequence++

	if len(b.entries) >= b.maxSize {
		b.entries = append(b.entries[1:], entry)
	} else {
		b.entries = append(b.entries, entry)
	}
	return entry
}

// Len returns the number of snapshots currently retained.
func (b *Buffer) Len() int { return len(b.entries) }

// IsEmpty reports whether the buffer currently holds no snapshots.
func (b *Buffer) IsEmpty() bool { return len(b.entries) == 0 }

// Capacity returns the buffer's maximum size.
func (b *Buffer) Capacity() int { return b.maxSize }

// Get returns the entry at the given index (0 = oldest retained).
func (b *Buffer) Get(index int) (TimestampedSnapshot, bool) {
	if index < 0 || index >= len(b.entries) {
		return TimestampedSnapshot{}, false
	}
	return b.entries[index], true
}

// Latest returns the most recently pushed snapshot.
func (b *Buffer) Latest() (TimestampedSnapshot, bool) {
	if len(b.entries) == 0 {
		return TimestampedSnapshot{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Oldest returns the oldest snapshot still retained.
func (b *Buffer) Oldest() (TimestampedSnapshot, bool) {
	if len(b.entries) == 0 {
		return TimestampedSnapshot{}, false
	}
	return b.entries[0], true
}

// GetBySequence finds the retained entry with the given sequence number.
// Evicted sequences are not found, even though they once existed.
func (b *Buffer) GetBySequence(sequence uint64) (TimestampedSnapshot, bool) {
	for _, e := range b.entries {
		if e.Sequence == sequence {
			return e, true
		}
	}
	return TimestampedSnapshot{}, false
}

// Range returns every retained entry with sequence in [from, to] inclusive.
func (b *Buffer) Range(from, to uint64) []TimestampedSnapshot {
	var out []TimestampedSnapshot
	for _, e := range b.entries {
		if e.Sequence >= from && e.Sequence <= to {
			out = append(out, e)
		}
	}
	return out
}

// CurrentSequence returns the sequence number that would be assigned to
// the next pushed entry.
func (b *Buffer) CurrentSequence() uint64 { return b.nextSequence }

// FirstSequence returns the sequence number of the oldest retained entry.
func (b *Buffer) FirstSequence() (uint64, bool) {
	if len(b.entries) == 0 {
		return 0, false
	}
	return b.entries[0].Sequence, true
}

// LastSequence returns the sequence number of the most recently pushed
// retained entry.
func (b *Buffer) LastSequence() (uint64, bool) {
	if len(b.entries) == 0 {
		return 0, false
	}
	return b.entries[len(b.entries)-1].Sequence, true
}

// Clear empties the buffer's contents without resetting its sequence
// counter — the next Push continues numbering from where it left off.
func (b *Buffer) Clear() {
	b.entries = nil
}

// Iter returns a copy of every retained entry, oldest first.
func (b *Buffer) Iter() []TimestampedSnapshot {
	out := make([]TimestampedSnapshot, len(b.entries))
	copy(out, b.entries)
	return out
}
