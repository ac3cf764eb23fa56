package buffer

// Position is a (line, col) location in the document. Col counts runes.
type Position struct {
	Line int
	Col  int
}

// Less reports whether p comes before q in document order.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Cursor is an editing position with an optional selection anchor and a
// private scratch string used by copy/paste.
type Cursor struct {
	Line      int
	Col       int
	Anchor    Position
	HasAnchor bool
	Scratch   string
}

func (c Cursor) Pos() Position {
	return Position{Line: c.Line, Col: c.Col}
}

// Equal compares cursors by position only.
func (c Cursor) Equal(o Cursor) bool {
	return c.Line == o.Line && c.Col == o.Col
}

// ExpandSelection moves the far edge of the selection to (line, col). The
// anchor is fixed at the current position on the first extension.
func (c *Cursor) ExpandSelection(line, col int) {
	if !c.HasAnchor {
		c.Anchor = c.Pos()
		c.HasAnchor = true
	}
	c.Line = line
	c.Col = col
}

func (c *Cursor) ClearSelection() {
	c.Anchor = Position{}
	c.HasAnchor = false
}

// Selection returns the selected range in document order.
func (c Cursor) Selection() (Position, Position, bool) {
	if !c.HasAnchor || c.Anchor == c.Pos() {
		return Position{}, Position{}, false
	}
	start, end := c.Anchor, c.Pos()
	if end.Less(start) {
		start, end = end, start
	}
	return start, end, true
}

// CursorSet is an ordered list of cursors. Order is the order edits are
// applied in, not document order. The first cursor is the primary one.
type CursorSet struct {
	cursors []Cursor
}

func NewCursorSet() *CursorSet {
	return &CursorSet{cursors: []Cursor{{}}}
}

func (cs *CursorSet) Len() int {
	return len(cs.cursors)
}

// At returns a copy of the cursor at index i.
func (cs *CursorSet) At(i int) Cursor {
	return cs.cursors[i]
}

func (cs *CursorSet) Primary() Cursor {
	return cs.cursors[0]
}

// All returns a copy of every cursor.
func (cs *CursorSet) All() []Cursor {
	out := make([]Cursor, len(cs.cursors))
	copy(out, cs.cursors)
	return out
}

// Each calls fn for every cursor in application order. fn may mutate the
// cursor through the pointer.
func (cs *CursorSet) Each(fn func(i int, c *Cursor)) {
	for i := range cs.cursors {
		fn(i, &cs.cursors[i])
	}
}

// Add appends a cursor at pos unless one already sits there.
func (cs *CursorSet) Add(pos Position) bool {
	for _, c := range cs.cursors {
		if c.Pos() == pos {
			return false
		}
	}
	cs.cursors = append(cs.cursors, Cursor{Line: pos.Line, Col: pos.Col})
	return true
}

// Collapse drops every cursor but the primary.
func (cs *CursorSet) Collapse() {
	if len(cs.cursors) > 1 {
		cs.cursors = cs.cursors[:1]
	}
}

// Reset replaces the set with a single cursor at (0, 0).
func (cs *CursorSet) Reset() {
	cs.cursors = []Cursor{{}}
}

// Clamp saturates every cursor (and anchor) to the bounds of lines.
func (cs *CursorSet) Clamp(lines [][]rune) {
	for i := range cs.cursors {
		c := &cs.cursors[i]
		c.Line, c.Col = clampPos(lines, c.Line, c.Col)
		if c.HasAnchor {
			c.Anchor.Line, c.Anchor.Col = clampPos(lines, c.Anchor.Line, c.Anchor.Col)
		}
	}
}

// Clone returns a deep copy suitable for a history snapshot.
func (cs *CursorSet) Clone() []Cursor {
	return cs.All()
}

func (cs *CursorSet) restore(cursors []Cursor) {
	if len(cursors) == 0 {
		cs.Reset()
		return
	}
	cs.cursors = make([]Cursor, len(cursors))
	copy(cs.cursors, cursors)
}

func clampPos(lines [][]rune, line, col int) (int, int) {
	if line >= len(lines) {
		line = len(lines) - 1
	}
	if line < 0 {
		line = 0
	}
	if col > len(lines[line]) {
		col = len(lines[line])
	}
	if col < 0 {
		col = 0
	}
	return line, col
}
