package whiteboard

// History is a linear undo/redo stack of canvas snapshots. The current index
// is -1 when empty and otherwise always points at a stored snapshot. Pushing
// after an undo discards everything that could have been redone.
type History struct {
	snapshots []Snapshot
	index     int
	maxDepth  int
}

// NewHistory creates an empty history. maxDepth <= 0 keeps every snapshot;
// otherwise the oldest snapshots are dropped once the limit is reached.
func NewHistory(maxDepth int) *History {
	return &History{index: -1, maxDepth: maxDepth}
}

// Push records a snapshot as the new tail
func (h *History) Push(s Snapshot) {
	h.snapshots = append(h.snapshots[:h.index+1], s)
	if h.maxDepth > 0 && len(h.snapshots) > h.maxDepth {
		drop := len(h.snapshots) - h.maxDepth
		h.snapshots = append([]Snapshot(nil), h.snapshots[drop:]...)
	}
	h.index = len(h.snapshots) - 1
}

// Undo steps back one snapshot and returns it. At index 0 nothing changes.
func (h *History) Undo() (Snapshot, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.snapshots[h.index], true
}

// Redo steps forward one snapshot and returns it. At the tail nothing changes.
func (h *History) Redo() (Snapshot, bool) {
	if h.index >= len(h.snapshots)-1 {
		return nil, false
	}
	h.index++
	return h.snapshots[h.index], true
}

// Index returns the current position, or -1 when empty
func (h *History) Index() int {
	return h.index
}

// Len returns the number of stored snapshots
func (h *History) Len() int {
	return len(h.snapshots)
}

// CanUndo reports whether Undo would change the board
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether Redo would change the board
func (h *History) CanRedo() bool {
	return h.index < len(h.snapshots)-1
}
