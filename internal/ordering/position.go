// Package ordering computes position assignments for entities moved
// within or across an ordered scope (a board's column list or a
// column's task list). Lists are represented as id slices ordered by
// current position; after any operation an entity's position is simply
// its index, which keeps positions contiguous with no gaps.
package ordering

import "github.com/google/uuid"

// ClampIndex bounds i to the valid insertion range [0, n].
// Negative indexes clamp to 0; anything past the end clamps to n.
func ClampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// IndexOf returns the index of id in ids, or -1 when absent.
func IndexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// MoveWithin moves the element at index from to index to within a
// single scope and returns the resulting order. The second return is
// false when the move is a no-op (same index after clamping), letting
// callers skip redundant writes.
func MoveWithin(ids []uuid.UUID, from, to int) ([]uuid.UUID, bool) {
	if from < 0 || from >= len(ids) {
		return ids, false
	}
	to = ClampIndex(to, len(ids)-1)
	if from == to {
		return ids, false
	}

	out := make([]uuid.UUID, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)

	result := make([]uuid.UUID, 0, len(ids))
	result = append(result, out[:to]...)
	result = append(result, ids[from])
	result = append(result, out[to:]...)
	return result, true
}

// MoveAcross removes the element at index from in src and inserts it
// into dst at index to. Both resulting orders are returned; every
// element's new position is its index in the returned slice.
func MoveAcross(src, dst []uuid.UUID, from, to int) (newSrc, newDst []uuid.UUID) {
	if from < 0 || from >= len(src) {
		return src, dst
	}
	moved := src[from]
	to = ClampIndex(to, len(dst))

	newSrc = make([]uuid.UUID, 0, len(src)-1)
	newSrc = append(newSrc, src[:from]...)
	newSrc = append(newSrc, src[from+1:]...)

	newDst = make([]uuid.UUID, 0, len(dst)+1)
	newDst = append(newDst, dst[:to]...)
	newDst = append(newDst, moved)
	newDst = append(newDst, dst[to:]...)
	return newSrc, newDst
}

// SameSet reports whether got is a permutation of want with no
// duplicates. Used to validate full-reorder requests: the submitted id
// order must be exactly the scope's current id set.
func SameSet(want, got []uuid.UUID) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(want))
	for _, id := range want {
		seen[id] = true
	}
	used := make(map[uuid.UUID]bool, len(got))
	for _, id := range got {
		if !seen[id] || used[id] {
			return false
		}
		used[id] = true
	}
	return true
}
