package arranger

import "fmt"

// History is the two-stack undo/redo memory of the model. It owns every
// command that executed successfully and replays them backwards and forwards
// on demand. Both stacks are bounded: when the undo stack grows past
// maxSize, the oldest entries are dropped and those edits become permanent.
type History struct {
	undoStack []Command
	redoStack []Command
	maxSize   int
	onChange  func()
}

const defaultMaxUndo = 30

// NewHistory returns a History holding at most maxSize undo steps, or
// defaultMaxUndo if maxSize is not positive. onChange may be nil; when set,
// it runs after every stack mutation, merges included.
func NewHistory(maxSize int, onChange func()) *History {
	if maxSize <= 0 {
		maxSize = defaultMaxUndo
	}
	return &History{maxSize: maxSize, onChange: onChange}
}

// Execute runs the command against the model and records it. A command that
// returns an error is not recorded and the stacks stay untouched. A
// successful command always clears the redo stack; then, if the top of the
// undo stack agrees to merge with the new command, the merged command
// replaces the top instead of stacking.
func (h *History) Execute(m *Model, cmd Command) error {
	if err := cmd.Execute(m); err != nil {
		return err
	}
	h.redoStack = h.redoStack[:0]
	if len(h.undoStack) > 0 {
		if top, ok := h.undoStack[len(h.undoStack)-1].(Merger); ok && top.CanMergeWith(cmd) {
			h.undoStack[len(h.undoStack)-1] = top.MergeWith(cmd)
			h.changed()
			return nil
		}
	}
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) >= h.maxSize {
		copy(h.undoStack, h.undoStack[len(h.undoStack)-h.maxSize:])
		h.undoStack = h.undoStack[:h.maxSize]
	}
	h.changed()
	return nil
}

// Undo reverts the newest command and moves it to the redo stack. If the
// inverse fails, the command is put back where it was and Undo returns
// false, so the failed step stays undoable.
func (h *History) Undo(m *Model) bool {
	if len(h.undoStack) == 0 {
		return false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	if err := cmd.Undo(m); err != nil {
		h.undoStack = append(h.undoStack, cmd)
		m.Alerts().Add(fmt.Sprintf("Error undoing %s: %v", cmd.Description(), err), Error)
		return false
	}
	h.redoStack = append(h.redoStack, cmd)
	if len(h.redoStack) >= h.maxSize {
		copy(h.redoStack, h.redoStack[len(h.redoStack)-h.maxSize:])
		h.redoStack = h.redoStack[:h.maxSize]
	}
	h.changed()
	return true
}

// Redo reapplies the newest undone command and moves it back to the undo
// stack. If reapplying fails, the command is put back on the redo stack and
// Redo returns false.
func (h *History) Redo(m *Model) bool {
	if len(h.redoStack) == 0 {
		return false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	if err := cmd.Execute(m); err != nil {
		h.redoStack = append(h.redoStack, cmd)
		m.Alerts().Add(fmt.Sprintf("Error redoing %s: %v", cmd.Description(), err), Error)
		return false
	}
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) >= h.maxSize {
		copy(h.undoStack, h.undoStack[len(h.undoStack)-h.maxSize:])
		h.undoStack = h.undoStack[:h.maxSize]
	}
	h.changed()
	return true
}

// Clear drops both stacks, e.g. when a new project is loaded and the old
// edits no longer apply to anything.
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
	h.changed()
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoDescription returns the description of the command Undo would revert.
func (h *History) UndoDescription() (string, bool) {
	if len(h.undoStack) == 0 {
		return "", false
	}
	return h.undoStack[len(h.undoStack)-1].Description(), true
}

// RedoDescription returns the description of the command Redo would reapply.
func (h *History) RedoDescription() (string, bool) {
	if len(h.redoStack) == 0 {
		return "", false
	}
	return h.redoStack[len(h.redoStack)-1].Description(), true
}

func (h *History) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}
