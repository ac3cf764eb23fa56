package buffer

import "testing"

func TestInsertAdvancesCursor(t *testing.T) {
	b := newTestBuffer("ac")
	b.SetPrimary(Position{Col: 1})
	b.Insert('b')
	assertLines(t, b, "abc")
	assertCursor(t, b, 0, 0, 2)
}

func TestInsertMultiCursorSameLine(t *testing.T) {
	b := newTestBuffer("abcd")
	b.SetPrimary(Position{Col: 1})
	b.Cursors().Add(Position{Col: 3})
	b.Insert('x')
	assertLines(t, b, "axbcxd")
	assertCursor(t, b, 0, 0, 2)
	assertCursor(t, b, 1, 0, 5)
}

func TestInsertStringMultiline(t *testing.T) {
	b := newTestBuffer("ab")
	b.SetPrimary(Position{Col: 1})
	b.InsertString("1\n2\r\n3")
	assertLines(t, b, "a1", "2", "3b")
	assertCursor(t, b, 0, 2, 1)
	if b.History().Len() != 0 {
		t.Fatalf("history len = %d, want 0", b.History().Len())
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	b := newTestBuffer("ab", "cd")
	b.SetPrimary(Position{Line: 1})
	b.Backspace()
	assertLines(t, b, "abcd")
	assertCursor(t, b, 0, 0, 2)
}

func TestBackspaceAtOriginIsNoop(t *testing.T) {
	b := newTestBuffer("ab")
	b.Backspace()
	assertLines(t, b, "ab")
	assertCursor(t, b, 0, 0, 0)
	if b.History().Len() != 0 {
		t.Fatalf("history len = %d, want 0", b.History().Len())
	}
}

func TestNoopKeepsRedo(t *testing.T) {
	b := newTestBuffer("")
	b.Insert('a')
	b.Move(MotionLeftLine)
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	b.Backspace()
	if b.History().RedoLen() == 0 {
		t.Fatalf("no-op backspace cleared redo stack")
	}
	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	assertLines(t, b, "a")
}

func TestBackspaceMultiCursorJoin(t *testing.T) {
	b := newTestBuffer("ab", "cd", "ef")
	b.SetPrimary(Position{Line: 1})
	b.Cursors().Add(Position{Line: 2, Col: 1})
	b.Backspace()
	assertLines(t, b, "abcd", "f")
	assertCursor(t, b, 0, 0, 2)
	assertCursor(t, b, 1, 1, 0)
}

func TestBackspaceWord(t *testing.T) {
	b := newTestBuffer("foo bar")
	b.SetPrimary(Position{Col: 7})
	b.BackspaceWord()
	assertLines(t, b, "foo ")
	assertCursor(t, b, 0, 0, 4)
	b.BackspaceWord()
	assertLines(t, b, "foo")
	b.BackspaceWord()
	assertLines(t, b, "")
	b.BackspaceWord()
	if b.History().Len() != 3 {
		t.Fatalf("history len = %d, want 3", b.History().Len())
	}
}

func TestBackspaceWordSkipsColumnZero(t *testing.T) {
	b := newTestBuffer("abc", "def")
	b.SetPrimary(Position{Line: 0, Col: 3})
	b.Cursors().Add(Position{Line: 1, Col: 0})
	b.BackspaceWord()
	assertLines(t, b, "", "def")
	assertCursor(t, b, 1, 1, 0)
}

func TestBackspaceLine(t *testing.T) {
	b := newTestBuffer("some text", "keep")
	b.SetPrimary(Position{Col: 4})
	b.BackspaceLine()
	assertLines(t, b, "", "keep")
	assertCursor(t, b, 0, 0, 0)
	b.BackspaceLine()
	if b.History().Len() != 1 {
		t.Fatalf("history len = %d, want 1", b.History().Len())
	}
}

func TestNewLineAfterBrace(t *testing.T) {
	b := newTestBuffer("ab{", "  x")
	b.SetPrimary(Position{Col: 3})
	b.NewLine()
	assertLines(t, b, "ab{", "    ", "  x")
	assertCursor(t, b, 0, 1, 4)
}

func TestNewLineDedents(t *testing.T) {
	b := newTestBuffer("        foo")
	b.SetPrimary(Position{Col: 11})
	b.NewLine()
	assertLines(t, b, "        foo", "    ")
	assertCursor(t, b, 0, 1, 4)
}

func TestNewLineIndentLaw(t *testing.T) {
	for levels := 0; levels < 4; levels++ {
		head := string(spaces(levels)) + "x{"
		b := newTestBuffer(head)
		b.SetPrimary(Position{Col: len(head)})
		b.NewLine()
		want := (levels + 1) * indentWidth
		if got := leadingSpaces([]rune(b.Line(1))); got != want {
			t.Fatalf("levels %d: indent = %d, want %d", levels, got, want)
		}
	}
}

func TestNewLineShiftsCursorsOnSameLine(t *testing.T) {
	b := newTestBuffer("abcd")
	b.SetPrimary(Position{Col: 1})
	b.Cursors().Add(Position{Col: 3})
	b.NewLine()
	assertLines(t, b, "a", "bc", "d")
	assertCursor(t, b, 0, 1, 0)
	assertCursor(t, b, 1, 2, 0)
}

func TestTabIndent(t *testing.T) {
	b := newTestBuffer("x")
	b.Tab()
	assertLines(t, b, "    x")

	b = newTestBuffer("func f() {", "", "")
	b.SetPrimary(Position{Line: 2})
	b.Tab()
	assertLines(t, b, "func f() {", "", "    ")

	b = newTestBuffer("        if x {", "", "")
	b.SetPrimary(Position{Line: 2})
	b.Tab()
	if got := b.Line(2); got != string(spaces(3)) {
		t.Fatalf("tab line = %q, want 12 spaces", got)
	}
}

func TestCopyPasteLine(t *testing.T) {
	b := newTestBuffer("hello", "")
	b.CopySelection()
	if got := b.Cursors().Primary().Scratch; got != "hello" {
		t.Fatalf("scratch = %q, want hello", got)
	}
	b.Move(MotionDown)
	b.PasteScratch()
	assertLines(t, b, "hello", "hello")
	if b.History().Len() != 1 {
		t.Fatalf("history len = %d, want 1", b.History().Len())
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	assertLines(t, b, "hello", "")
}

func TestCopySelectionAcrossLines(t *testing.T) {
	b := newTestBuffer("abc", "def")
	b.SetPrimary(Position{Col: 1})
	b.Extend(MotionDown)
	b.CopySelection()
	if got := b.Cursors().Primary().Scratch; got != "bc\nd" {
		t.Fatalf("scratch = %q, want %q", got, "bc\nd")
	}
}

func TestPasteWithEmptyScratchIsNoop(t *testing.T) {
	b := newTestBuffer("abc")
	b.PasteScratch()
	if b.History().Len() != 0 {
		t.Fatalf("history len = %d, want 0", b.History().Len())
	}
}

func TestEditMovesOwnAnchor(t *testing.T) {
	b := newTestBuffer("abcdefghij", "xyz")
	b.SetPrimary(Position{Line: 1, Col: 3})
	for i := 0; i < 3; i++ {
		b.Extend(MotionLeft)
	}
	b.Backspace()
	assertLines(t, b, "abcdefghijxyz")
	c := b.Cursors().Primary()
	if c.Anchor != (Position{Line: 0, Col: 13}) {
		t.Fatalf("anchor = %+v, want {0 13}", c.Anchor)
	}
	b.CopySelection()
	if got := b.Cursors().Primary().Scratch; got != "xyz" {
		t.Fatalf("scratch = %q, want %q", got, "xyz")
	}
}

func TestInsertAndSplitMoveOwnAnchor(t *testing.T) {
	b := newTestBuffer("abcd")
	b.SetPrimary(Position{Col: 1})
	b.Extend(MotionRight)
	b.Cursors().Each(func(_ int, c *Cursor) {
		c.Line, c.Col = 0, 0
	})
	b.Insert('z')
	if c := b.Cursors().Primary(); c.Anchor != (Position{Col: 2}) {
		t.Fatalf("anchor after insert = %+v, want {0 2}", c.Anchor)
	}
	b.NewLine()
	assertLines(t, b, "z", "abcd")
	if c := b.Cursors().Primary(); c.Anchor != (Position{Line: 1, Col: 1}) {
		t.Fatalf("anchor after newline = %+v, want {1 1}", c.Anchor)
	}
}

func TestTextRangeWithStaleAnchor(t *testing.T) {
	b := newTestBuffer("abc", "de")
	c := Cursor{Line: 0, Col: 2, Anchor: Position{Line: 5, Col: 9}, HasAnchor: true}
	start, end, _ := c.Selection()
	if got := b.textRange(start, end); got != "c\nde" {
		t.Fatalf("textRange = %q, want %q", got, "c\nde")
	}
	if got := b.textRange(Position{Line: 1, Col: 9}, Position{Line: 1, Col: 1}); got != "e" {
		t.Fatalf("textRange swapped = %q, want %q", got, "e")
	}
}
