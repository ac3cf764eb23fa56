package buffer

import (
	"strings"

	"go.uber.org/zap"
)

// Buffer is the editing core: lines, cursors, history and the finder. It is
// owned by a single goroutine and is not safe for concurrent use.
type Buffer struct {
	lines   [][]rune
	cursors *CursorSet
	history *History
	finder  *Finder
	log     *zap.Logger
}

type Option func(*Buffer)

func WithLogger(l *zap.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.log = l
		}
	}
}

func WithHistorySize(n int) Option {
	return func(b *Buffer) {
		b.history = NewHistory(n)
	}
}

// New returns an empty document with one cursor at (0, 0).
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:   [][]rune{{}},
		cursors: NewCursorSet(),
		history: NewHistory(DefaultHistorySize),
		finder:  NewFinder(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the document with content, resetting history, search state
// and cursors.
func (b *Buffer) Load(content string) {
	b.lines = splitLines(content)
	b.history.Clear()
	b.finder.Reset()
	b.cursors.Reset()
	b.log.Debug("buffer loaded", zap.Int("lines", len(b.lines)))
}

// Reload swaps in content changed outside the editor. Cursors are kept and
// clamped; the previous state stays reachable through undo.
func (b *Buffer) Reload(content string) {
	b.pushHistory(CommandNull)
	b.lines = splitLines(content)
	b.AdjustCursors()
	b.log.Debug("buffer reloaded", zap.Int("lines", len(b.lines)))
}

// Content joins lines with a single newline, without a trailing one.
func (b *Buffer) Content() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = string(line)
	}
	return out
}

func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return string(b.lines[i])
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) Cursors() *CursorSet {
	return b.cursors
}

func (b *Buffer) History() *History {
	return b.history
}

func (b *Buffer) Finder() *Finder {
	return b.finder
}

// AdjustCursors clamps every cursor into the document. Safe to call any time.
func (b *Buffer) AdjustCursors() {
	b.cursors.Clamp(b.lines)
}

// Collapse keeps only the primary cursor.
func (b *Buffer) Collapse() {
	b.cursors.Collapse()
}

// SetPrimary moves the primary cursor to pos, clamped to the document.
func (b *Buffer) SetPrimary(pos Position) {
	line, col := clampPos(b.lines, pos.Line, pos.Col)
	c := &b.cursors.cursors[0]
	c.Line, c.Col = line, col
	c.ClearSelection()
}

// AddCursorBelow adds a cursor on the line after the lowest cursor, at the
// same column where the line allows.
func (b *Buffer) AddCursorBelow() bool {
	last := b.cursors.Primary()
	for _, c := range b.cursors.cursors {
		if c.Line > last.Line {
			last = c
		}
	}
	if last.Line+1 >= len(b.lines) {
		return false
	}
	line, col := clampPos(b.lines, last.Line+1, last.Col)
	return b.cursors.Add(Position{Line: line, Col: col})
}

func (b *Buffer) AddCursorAbove() bool {
	first := b.cursors.Primary()
	for _, c := range b.cursors.cursors {
		if c.Line < first.Line {
			first = c
		}
	}
	if first.Line == 0 {
		return false
	}
	line, col := clampPos(b.lines, first.Line-1, first.Col)
	return b.cursors.Add(Position{Line: line, Col: col})
}

// Undo restores the state before the most recent edit, or before the whole
// run when that edit was plain character input.
func (b *Buffer) Undo() error {
	entry, err := b.history.Undo(b.snapshot(CommandNull))
	if err != nil {
		return err
	}
	b.restore(entry)
	b.log.Debug("undo", zap.Int("undo", b.history.Len()), zap.Int("redo", b.history.RedoLen()))
	return nil
}

func (b *Buffer) Redo() error {
	entry, err := b.history.Redo(b.snapshot(CommandNull))
	if err != nil {
		return err
	}
	b.restore(entry)
	b.log.Debug("redo", zap.Int("undo", b.history.Len()), zap.Int("redo", b.history.RedoLen()))
	return nil
}

// Find searches for query and moves the primary cursor to the first result
// at or after it. It reports whether anything matched.
func (b *Buffer) Find(query string) bool {
	b.finder.SetQuery(query)
	b.finder.Find(b.lines, b.cursors.Primary().Line)
	return b.jumpToResult()
}

func (b *Buffer) FindNext() bool {
	b.finder.Next()
	return b.jumpToResult()
}

func (b *Buffer) FindPrev() bool {
	b.finder.Prev()
	return b.jumpToResult()
}

func (b *Buffer) jumpToResult() bool {
	pos, ok := b.finder.Current()
	if !ok {
		return false
	}
	b.SetPrimary(pos)
	return true
}

func (b *Buffer) pushHistory(cmd Command) {
	b.history.Push(b.snapshot(cmd))
}

// retractIfUnchanged drops the entry pushed by a mutating operation that
// ended up changing nothing.
func (b *Buffer) retractIfUnchanged(changed bool) {
	if changed {
		return
	}
	b.history.PopBack()
	b.log.Debug("no-op edit retracted from history")
}

func (b *Buffer) snapshot(cmd Command) Entry {
	return Entry{
		Cursors: b.cursors.Clone(),
		Lines:   copyLines(b.lines),
		Command: cmd,
	}
}

func (b *Buffer) restore(e Entry) {
	b.lines = copyLines(e.Lines)
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	b.cursors.restore(e.Cursors)
	b.AdjustCursors()
}

func copyLines(lines [][]rune) [][]rune {
	out := make([][]rune, len(lines))
	for i, line := range lines {
		out[i] = append([]rune(nil), line...)
	}
	return out
}

func splitLines(content string) [][]rune {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	parts := strings.Split(content, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}
