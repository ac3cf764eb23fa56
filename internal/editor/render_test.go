package editor

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/medit/internal/buffer"
	"github.com/kobzarvs/medit/internal/syntax"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func cellStyle(s tcell.SimulationScreen, x, y int) tcell.Style {
	cells, w, _ := s.GetContents()
	return cells[y*w+x].Style
}

func TestRenderHeader(t *testing.T) {
	e := newTestEditor("hello")
	e.filename = "dir/notes.txt"
	e.SetGitBranch("main")
	s := newTestScreen(t, 60, 5)

	e.Render(s)
	header := rowText(s, 0)
	if !strings.HasPrefix(header, " medit: notes.txt  git:main") {
		t.Fatalf("header = %q", header)
	}
	if !strings.Contains(header, "EDIT Ln 1, Col 1") {
		t.Fatalf("header missing position: %q", header)
	}
}

func TestRenderNotification(t *testing.T) {
	e := newTestEditor("abc")
	_ = e.HandleKey(keyCtrl(tcell.KeyCtrlF))
	typeText(t, e, "zz")
	_ = e.HandleKey(keyEnter())
	s := newTestScreen(t, 40, 4)

	e.Render(s)
	if header := rowText(s, 0); !strings.HasSuffix(strings.TrimRight(header, " "), "No matches") {
		t.Fatalf("header = %q, want notification on the right", header)
	}
}

func TestRenderLinesWithGutter(t *testing.T) {
	e := newTestEditor("hello", "world")
	s := newTestScreen(t, 20, 5)

	e.Render(s)
	if got := rowText(s, 1); !strings.HasPrefix(got, "  1 hello") {
		t.Fatalf("row 1 = %q", got)
	}
	if got := rowText(s, 2); !strings.HasPrefix(got, "  2 world") {
		t.Fatalf("row 2 = %q", got)
	}
}

func TestRenderScrollsToCursor(t *testing.T) {
	e := newTestEditor("a", "b", "c", "d", "e", "f")
	e.buf.SetPrimary(buffer.Position{Line: 5})
	s := newTestScreen(t, 20, 3)

	e.Render(s)
	if got := rowText(s, 2); !strings.HasPrefix(got, "  6 f") {
		t.Fatalf("last row = %q, want line 6", got)
	}
	if x, y, visible := s.GetCursor(); !visible || x != 4 || y != 2 {
		t.Fatalf("cursor = (%d,%d) visible=%v, want (4,2)", x, y, visible)
	}
}

func TestRenderCursorAfterWideRunes(t *testing.T) {
	e := newTestEditor("日本x")
	e.buf.SetPrimary(buffer.Position{Col: 2})
	s := newTestScreen(t, 20, 3)

	e.Render(s)
	if x, y, _ := s.GetCursor(); x != 8 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (8,1)", x, y)
	}
}

func TestRenderSecondaryCursorAndSelection(t *testing.T) {
	e := newTestEditor("ab", "cd")
	_ = e.HandleKey(keyCtrl(tcell.KeyCtrlD))
	s := newTestScreen(t, 20, 4)

	e.Render(s)
	if got := cellStyle(s, 4, 2); got != e.styles.cursor {
		t.Fatalf("secondary cursor cell style = %v, want cursor style", got)
	}

	e.buf.Collapse()
	_ = e.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	e.Render(s)
	_, selBg, _ := e.styles.selection.Decompose()
	if _, bg, _ := cellStyle(s, 4, 1).Decompose(); bg != selBg {
		t.Fatalf("selected cell background = %v, want %v", bg, selBg)
	}
	if _, bg, _ := cellStyle(s, 5, 1).Decompose(); bg == selBg {
		t.Fatalf("unselected cell has selection background")
	}
}

func TestRenderSyntaxColors(t *testing.T) {
	e := newTestEditor("package main")
	h, err := syntax.New("go")
	if err != nil {
		t.Fatalf("syntax.New error: %v", err)
	}
	defer h.Close()
	e.SetHighlighter(h)
	s := newTestScreen(t, 30, 3)

	e.Render(s)
	if got := cellStyle(s, 4, 1); got != e.styles.syntax["keyword"] {
		t.Fatalf("keyword cell style = %v, want keyword style", got)
	}
}

func TestRenderHidesCursorInGotoMode(t *testing.T) {
	e := newTestEditor("a")
	_ = e.HandleKey(keyCtrl(tcell.KeyCtrlG))
	s := newTestScreen(t, 30, 3)

	e.Render(s)
	if _, _, visible := s.GetCursor(); visible {
		t.Fatalf("cursor visible in goto mode")
	}
	if header := rowText(s, 0); !strings.Contains(header, "Goto line:") {
		t.Fatalf("header = %q, want goto prompt", header)
	}
}

func TestComposeStatusLine(t *testing.T) {
	if got := string(composeStatusLine("left", "right", 12)); got != "left   right" {
		t.Fatalf("compose = %q", got)
	}
	if got := string(composeStatusLine("left", "right", 7)); got != "leright" {
		t.Fatalf("compose narrow = %q", got)
	}
	if got := string(composeStatusLine("left", "right", 3)); got != "ght" {
		t.Fatalf("compose tiny = %q", got)
	}
}

func TestFormatGitBranch(t *testing.T) {
	if got := formatGitBranch("", "main"); got != "git:main" {
		t.Fatalf("default symbol = %q", got)
	}
	if got := formatGitBranch("br", "dev"); got != "br dev" {
		t.Fatalf("custom symbol = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	if got := parseColor("#ff0000", tcell.ColorBlue); got != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("hex color = %v", got)
	}
	if got := parseColor("red", tcell.ColorBlue); got != tcell.ColorRed {
		t.Fatalf("named color = %v", got)
	}
	if got := parseColor("#12", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("bad hex = %v, want fallback", got)
	}
	if got := parseColor("", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("empty = %v, want fallback", got)
	}
}
