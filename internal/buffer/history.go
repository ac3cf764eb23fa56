package buffer

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultHistorySize bounds each of the undo and redo stacks.
const DefaultHistorySize = 100

// Command labels the operation that produced a history entry. It only
// decides which entries coalesce on undo/redo.
type Command int

const (
	CommandNull Command = iota
	CommandChar
	CommandSpace
	CommandTab
	CommandBackspace
	CommandNewline
)

func (c Command) String() string {
	switch c {
	case CommandChar:
		return "char"
	case CommandSpace:
		return "space"
	case CommandTab:
		return "tab"
	case CommandBackspace:
		return "backspace"
	case CommandNewline:
		return "newline"
	default:
		return "null"
	}
}

func (c Command) coalesces() bool {
	return c == CommandChar
}

// Entry is a full snapshot of lines and cursors.
type Entry struct {
	Cursors []Cursor
	Lines   [][]rune
	Command Command
}

// History keeps bounded undo and redo stacks of snapshots.
type History struct {
	undo    []Entry
	redo    []Entry
	dropped []Entry // redo entries discarded by the last Push
	evicted *Entry  // oldest undo entry pushed out by the last Push
	maxSize int
}

func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{maxSize: maxSize}
}

func (h *History) Len() int {
	return len(h.undo)
}

func (h *History) RedoLen() int {
	return len(h.redo)
}

func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.dropped = nil
	h.evicted = nil
}

// Push records the state before a user edit and invalidates the redo stack.
func (h *History) Push(entry Entry) {
	h.dropped = h.redo
	h.redo = nil
	h.evicted = nil
	if len(h.undo) >= h.maxSize {
		oldest := h.undo[0]
		h.evicted = &oldest
	}
	h.undo = pushBounded(h.undo, entry, h.maxSize)
}

// PopBack retracts the most recent Push without restoring anything. Redo
// entries discarded by that push come back, as does an undo entry it evicted.
func (h *History) PopBack() (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if h.evicted != nil {
		h.undo = append([]Entry{*h.evicted}, h.undo...)
	}
	if len(h.redo) == 0 && h.dropped != nil {
		h.redo = h.dropped
	}
	h.dropped = nil
	h.evicted = nil
	return last, true
}

// Undo pops the latest entry, chaining through a run of coalescing entries,
// and returns the snapshot to restore. current is the live state; it becomes
// the redo snapshot for the top of the chain.
func (h *History) Undo(current Entry) (Entry, error) {
	if len(h.undo) == 0 {
		return Entry{}, ErrNothingToUndo
	}
	var restored Entry
	h.undo, h.redo, restored = transfer(h.undo, h.redo, current, h.maxSize)
	h.dropped = nil
	h.evicted = nil
	return restored, nil
}

// Redo mirrors Undo.
func (h *History) Redo(current Entry) (Entry, error) {
	if len(h.redo) == 0 {
		return Entry{}, ErrNothingToRedo
	}
	var restored Entry
	h.redo, h.undo, restored = transfer(h.redo, h.undo, current, h.maxSize)
	h.dropped = nil
	h.evicted = nil
	return restored, nil
}

// transfer moves a coalesced chain from src to dst. Every popped entry is
// re-pushed onto dst carrying the state that followed it, so moving the chain
// back restores the exact starting state.
func transfer(src, dst []Entry, current Entry, maxSize int) ([]Entry, []Entry, Entry) {
	after := current
	for {
		e := src[len(src)-1]
		src = src[:len(src)-1]
		dst = pushBounded(dst, Entry{Cursors: after.Cursors, Lines: after.Lines, Command: e.Command}, maxSize)
		after = e
		if !e.Command.coalesces() || len(src) == 0 || !src[len(src)-1].Command.coalesces() {
			break
		}
	}
	return src, dst, after
}

func pushBounded(stack []Entry, e Entry, maxSize int) []Entry {
	stack = append(stack, e)
	if len(stack) > maxSize {
		stack = stack[len(stack)-maxSize:]
	}
	return stack
}
