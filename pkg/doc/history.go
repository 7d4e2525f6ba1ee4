package doc

import "errors"

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// defaultHistoryDepth bounds the undo stack when no depth is configured.
const defaultHistoryDepth = 1000

// historyEntry is one committed edit with the states around it.
type historyEntry struct {
	label  string
	before *State
	after  *State
}

// History keeps undo and redo stacks of committed edits.
type History struct {
	undoStack  []historyEntry
	redoStack  []historyEntry
	maxEntries int
}

// NewHistory creates a history bounded to maxEntries undo steps.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = defaultHistoryDepth
	}
	return &History{maxEntries: maxEntries}
}

// push records an entry and clears the redo stack.
func (h *History) push(entry historyEntry) {
	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

func (h *History) popUndo() (historyEntry, bool) {
	n := len(h.undoStack)
	if n == 0 {
		return historyEntry{}, false
	}
	entry := h.undoStack[n-1]
	h.undoStack = h.undoStack[:n-1]
	h.redoStack = append(h.redoStack, entry)
	return entry, true
}

func (h *History) popRedo() (historyEntry, bool) {
	n := len(h.redoStack)
	if n == 0 {
		return historyEntry{}, false
	}
	entry := h.redoStack[n-1]
	h.redoStack = h.redoStack[:n-1]
	h.undoStack = append(h.undoStack, entry)
	return entry, true
}

// CanUndo reports whether there is an edit to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether there is an edit to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabels returns the labels of undoable edits, oldest first.
func (h *History) UndoLabels() []string {
	labels := make([]string, 0, len(h.undoStack))
	for _, e := range h.undoStack {
		labels = append(labels, e.label)
	}
	return labels
}
