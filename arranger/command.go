package arranger

import "errors"

// ErrNoChange is returned by a partial update command whose every present
// field already equals the current value. The model treats it as success
// but records no history entry.
var ErrNoChange = errors.New("no change")

type (
	// Command is a single edit of the project: a change paired with its exact
	// inverse. Commands are single-use stateful objects; Execute may run
	// again only after Undo and vice versa. A command locates its targets
	// fresh by id on every run, so it survives the project changing shape
	// between runs and fails cleanly when its targets are gone.
	Command interface {
		Execute(m *Model) error
		Undo(m *Model) error
		Description() string
	}

	// Merger is an optional interface for commands that can absorb the
	// command coming after them, collapsing e.g. a stream of drag updates
	// into a single history entry. The history only merges when the top of
	// the undo stack implements Merger and agrees to the merge.
	Merger interface {
		CanMergeWith(next Command) bool
		MergeWith(next Command) Command
	}

	// Edge tells which end of a note or region a resize grabs.
	Edge int
)

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// insertAt inserts an element into a slice at the given index, appending if
// the index is out of bounds. Restores of deleted elements go through this,
// as the original index may not exist in a shrunken list anymore.
func insertAt[T any, S ~[]T](slice S, index int, inserted T) S {
	if index < 0 || index > len(slice) {
		index = len(slice)
	}
	ret := make(S, 0, len(slice)+1)
	ret = append(ret, slice[:index]...)
	ret = append(ret, inserted)
	ret = append(ret, slice[index:]...)
	return ret
}

func clamp(a, min, max int) int {
	if a < min {
		return min
	}
	if a > max {
		return max
	}
	return a
}
