package buffer

import (
	"math/rand"
	"testing"
	"unicode/utf8"
)

var sequenceOps = []struct {
	name string
	fn   func(b *Buffer, r *rand.Rand)
}{
	{"insert", func(b *Buffer, r *rand.Rand) { b.Insert(rune("ab {} "[r.Intn(6)])) }},
	{"backspace", func(b *Buffer, _ *rand.Rand) { b.Backspace() }},
	{"backspace_word", func(b *Buffer, _ *rand.Rand) { b.BackspaceWord() }},
	{"backspace_line", func(b *Buffer, _ *rand.Rand) { b.BackspaceLine() }},
	{"newline", func(b *Buffer, _ *rand.Rand) { b.NewLine() }},
	{"tab", func(b *Buffer, _ *rand.Rand) { b.Tab() }},
	{"undo", func(b *Buffer, _ *rand.Rand) { _ = b.Undo() }},
	{"redo", func(b *Buffer, _ *rand.Rand) { _ = b.Redo() }},
	{"add_below", func(b *Buffer, _ *rand.Rand) { b.AddCursorBelow() }},
	{"add_above", func(b *Buffer, _ *rand.Rand) { b.AddCursorAbove() }},
	{"move", func(b *Buffer, r *rand.Rand) { b.Move(Motion(r.Intn(int(MotionDownFive) + 1))) }},
	{"extend", func(b *Buffer, r *rand.Rand) { b.Extend(Motion(r.Intn(int(MotionDownFive) + 1))) }},
	{"copy", func(b *Buffer, _ *rand.Rand) { b.CopySelection() }},
	{"paste", func(b *Buffer, _ *rand.Rand) { b.PasteScratch() }},
	{"collapse", func(b *Buffer, _ *rand.Rand) { b.Collapse() }},
}

func checkBounds(t *testing.T, b *Buffer, step int, op string) {
	t.Helper()
	inBounds := func(p Position) bool {
		return p.Line >= 0 && p.Line < b.LineCount() &&
			p.Col >= 0 && p.Col <= utf8.RuneCountInString(b.Line(p.Line))
	}
	for i, c := range b.Cursors().All() {
		if !inBounds(c.Pos()) {
			t.Fatalf("step %d (%s): cursor %d at %+v outside %q", step, op, i, c.Pos(), b.Lines())
		}
		if c.HasAnchor && !inBounds(c.Anchor) {
			t.Fatalf("step %d (%s): anchor %d at %+v outside %q", step, op, i, c.Anchor, b.Lines())
		}
	}
	if n := b.History().Len(); n > 8 {
		t.Fatalf("step %d (%s): undo len = %d, above bound", step, op, n)
	}
}

func TestRandomEditSequencesKeepCursorsInBounds(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		b := New(WithHistorySize(8))
		b.Load("func f() {\n    x\n}\n")
		for step := 0; step < 150; step++ {
			op := sequenceOps[r.Intn(len(sequenceOps))]
			op.fn(b, r)
			checkBounds(t, b, step, op.name)
		}
	}
}

func TestNoopEditsKeepUndoLength(t *testing.T) {
	b := New(WithHistorySize(3))
	b.Load("x")
	for i := 0; i < 3; i++ {
		b.Tab()
	}
	b.SetPrimary(Position{})
	for _, op := range []func(){b.Backspace, b.BackspaceWord, b.BackspaceLine, b.PasteScratch} {
		op()
		if n := b.History().Len(); n != 3 {
			t.Fatalf("undo len = %d, want 3", n)
		}
	}
}
