package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/kobzarvs/medit/internal/buffer"
	"github.com/kobzarvs/medit/internal/config"
	"github.com/kobzarvs/medit/internal/syntax"
)

const tabWidth = 4

type styles struct {
	main             tcell.Style
	header           tcell.Style
	notification     tcell.Style
	lineNumber       tcell.Style
	lineNumberActive tcell.Style
	cursor           tcell.Style
	selection        tcell.Style
	searchMatch      tcell.Style
	syntax           map[string]tcell.Style
}

func newStyles(t config.Theme) styles {
	fg := parseColor(t.Foreground, tcell.ColorWhite)
	bg := parseColor(t.Background, tcell.ColorBlack)
	headerFg := parseColor(t.HeaderForeground, fg)
	headerBg := parseColor(t.HeaderBackground, bg)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	withFg := func(name string) tcell.Style {
		return base.Foreground(parseColor(name, fg))
	}
	return styles{
		main:             base,
		header:           tcell.StyleDefault.Foreground(headerFg).Background(headerBg),
		notification:     tcell.StyleDefault.Foreground(parseColor(t.NotificationForeground, headerFg)).Background(headerBg),
		lineNumber:       withFg(t.LineNumberForeground),
		lineNumberActive: withFg(t.LineNumberActiveForeground),
		cursor: tcell.StyleDefault.
			Foreground(parseColor(t.CursorForeground, tcell.ColorBlack)).
			Background(parseColor(t.CursorBackground, tcell.ColorWhite)),
		selection: tcell.StyleDefault.
			Foreground(parseColor(t.SelectionForeground, fg)).
			Background(parseColor(t.SelectionBackground, tcell.ColorGray)),
		searchMatch: tcell.StyleDefault.
			Foreground(parseColor(t.SearchMatchForeground, tcell.ColorBlack)).
			Background(parseColor(t.SearchMatchBackground, tcell.ColorYellow)),
		syntax: map[string]tcell.Style{
			"keyword":  withFg(t.SyntaxKeyword),
			"string":   withFg(t.SyntaxString),
			"comment":  withFg(t.SyntaxComment),
			"type":     withFg(t.SyntaxType),
			"function": withFg(t.SyntaxFunction),
			"number":   withFg(t.SyntaxNumber),
			"constant": withFg(t.SyntaxConstant),
			"builtin":  withFg(t.SyntaxConstant),
			"operator": withFg(t.SyntaxOperator),
		},
	}
}

// Render draws the header line and the visible part of the document.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 1
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styles.main)
	s.Clear()
	e.renderHeader(s, w)

	gutter := e.gutterWidth()
	spans := e.highlight(e.scroll, e.scroll+viewHeight-1)
	overlay := e.overlays()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= e.buf.LineCount() {
			clearLine(s, y+1, w, e.styles.main)
			continue
		}
		e.drawGutter(s, y+1, w, gutter, lineIdx)
		e.drawLine(s, y+1, w, gutter, lineIdx, spans[lineIdx], overlay)
	}

	primary := e.buf.Cursors().Primary()
	cy := primary.Line - e.scroll + 1
	cx := gutter + visualCol([]rune(e.buf.Line(primary.Line)), primary.Col)
	if cx >= w {
		cx = w - 1
	}
	switch e.mode.(type) {
	case *GotoLineMode, *FindMode:
		s.HideCursor()
	default:
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (e *Editor) renderHeader(s tcell.Screen, w int) {
	name := "[No Name]"
	if e.filename != "" {
		name = filepath.Base(e.filename)
	}
	left := " medit: " + name
	if e.gitBranch != "" {
		left += "  " + formatGitBranch(e.gitBranchSymbol, e.gitBranch)
	}
	right := e.notification
	style := e.styles.notification
	if right == "" {
		p := e.buf.Cursors().Primary()
		right = fmt.Sprintf("%s Ln %d, Col %d", e.mode.Name(), p.Line+1, p.Col+1)
		style = e.styles.header
	}
	right += " "

	line := composeStatusLine(left, right, w)
	split := len(line) - len([]rune(right))
	for x, r := range line {
		st := e.styles.header
		if x >= split {
			st = style
		}
		s.SetContent(x, 0, r, nil, st)
	}
}

// ensureCursorVisible scrolls so the primary cursor's line is on screen.
func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.buf.Cursors().Primary().Line
	if row < e.scroll {
		e.scroll = row
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

// highlight reparses when the document changed and returns spans for the
// window of lines.
func (e *Editor) highlight(start, end int) map[int][]syntax.Span {
	if e.highlighter == nil {
		return nil
	}
	content := e.buf.Content()
	if !e.parsed || content != e.parsedContent {
		if err := e.highlighter.Parse(context.Background(), content); err != nil {
			e.log.Warn("syntax parse failed", zap.Error(err))
			return nil
		}
		e.parsedContent = content
		e.parsed = true
	}
	return e.highlighter.Spans(start, end)
}

type overlay struct {
	selections map[int][][2]int
	cursors    map[int][]int
	matches    map[int][]int
	current    buffer.Position
	hasCurrent bool
	matchLen   int
}

// overlays collects per-line selection ranges, secondary cursors and search
// matches for drawLine.
func (e *Editor) overlays() overlay {
	o := overlay{
		selections: make(map[int][][2]int),
		cursors:    make(map[int][]int),
		matches:    make(map[int][]int),
	}
	for i, c := range e.buf.Cursors().All() {
		if i > 0 {
			o.cursors[c.Line] = append(o.cursors[c.Line], c.Col)
		}
		start, end, ok := c.Selection()
		if !ok {
			continue
		}
		for line := start.Line; line <= end.Line; line++ {
			from, to := 0, len([]rune(e.buf.Line(line)))+1
			if line == start.Line {
				from = start.Col
			}
			if line == end.Line {
				to = end.Col
			}
			o.selections[line] = append(o.selections[line], [2]int{from, to})
		}
	}
	if e.searchActive {
		f := e.buf.Finder()
		o.matchLen = len([]rune(f.Query()))
		for _, p := range f.Results() {
			o.matches[p.Line] = append(o.matches[p.Line], p.Col)
		}
		o.current, o.hasCurrent = f.Current()
	}
	return o
}

func (e *Editor) drawLine(s tcell.Screen, y, w, startX, lineIdx int, spans []syntax.Span, o overlay) {
	line := []rune(e.buf.Line(lineIdx))
	x := startX
	col := 0
	for idx := 0; idx <= len(line) && x < w; idx++ {
		r := ' '
		if idx < len(line) {
			r = line[idx]
		}
		style := e.styles.main
		if kind, ok := syntax.KindAt(spans, idx); ok {
			if st, ok := e.styles.syntax[kind]; ok {
				style = st
			}
		}
		style = e.overlayStyle(style, lineIdx, idx, o)

		if idx == len(line) {
			if style != e.styles.main {
				s.SetContent(x, y, ' ', nil, style)
			}
			break
		}
		if r == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
			}
			col += n
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw < 1 {
			rw = 1
		}
		if x+rw > w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
		col += rw
	}
}

func (e *Editor) overlayStyle(style tcell.Style, lineIdx, col int, o overlay) tcell.Style {
	for _, c := range o.cursors[lineIdx] {
		if c == col {
			return e.styles.cursor
		}
	}
	for _, m := range o.matches[lineIdx] {
		if col >= m && col < m+o.matchLen {
			if o.hasCurrent && o.current.Line == lineIdx && o.current.Col == m {
				return e.styles.searchMatch
			}
			return withBackground(style, e.styles.selection)
		}
	}
	for _, r := range o.selections[lineIdx] {
		if col >= r[0] && col < r[1] {
			return withBackground(style, e.styles.selection)
		}
	}
	return style
}

// withBackground keeps the syntax foreground and takes the overlay's
// background.
func withBackground(style, overlay tcell.Style) tcell.Style {
	_, bg, _ := overlay.Decompose()
	fg, _, _ := style.Decompose()
	return style.Foreground(fg).Background(bg)
}

func (e *Editor) gutterWidth() int {
	if !e.lineNumbers {
		return 0
	}
	digits := len(strconv.Itoa(e.buf.LineCount()))
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

func (e *Editor) drawGutter(s tcell.Screen, y, w, gutter, lineIdx int) {
	if gutter == 0 {
		return
	}
	style := e.styles.lineNumber
	if lineIdx == e.buf.Cursors().Primary().Line {
		style = e.styles.lineNumberActive
	}
	text := fmt.Sprintf(" %*d ", gutter-2, lineIdx+1)
	for x, r := range text {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, style)
	}
}

// visualCol converts a rune column into screen cells.
func visualCol(line []rune, col int) int {
	if col > len(line) {
		col = len(line)
	}
	x := 0
	for _, r := range line[:col] {
		if r == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw < 1 {
			rw = 1
		}
		x += rw
	}
	return x
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for len(line) < width-len(rightRunes) {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") {
		return symbol + branch
	}
	return symbol + " " + branch
}

// parseColor accepts "#rrggbb", a tcell color name or "default".
func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "":
		return fallback
	case name == "default":
		return tcell.ColorDefault
	case strings.HasPrefix(name, "#"):
		if len(name) != 7 {
			return fallback
		}
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c
	}
	return fallback
}
