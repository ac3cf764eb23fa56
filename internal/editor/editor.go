package editor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kobzarvs/medit/internal/buffer"
	"github.com/kobzarvs/medit/internal/config"
	"github.com/kobzarvs/medit/internal/syntax"
)

var (
	ErrInvalidLineNumber = errors.New("invalid line number")
	ErrInvalidSubstring  = errors.New("invalid substring")
	ErrNoFileName        = errors.New("no file name")
)

const (
	gotoPrompt       = "Goto line: "
	findPrompt       = "Find: "
	moveCursorPrompt = "Move cursor with WASD"
	noMatches        = "No matches"
	fileSaved        = "File saved"
	fileCreated      = "New file created"
	fileReloaded     = "File reloaded"
	badLineNumber    = "Invalid line number!"
	badSubstring     = "Invalid substring!"
)

// Editor routes key events to the buffer according to the current mode and
// owns the notification line shown by the view.
type Editor struct {
	buf          *buffer.Buffer
	mode         Mode
	keymap       map[string]string
	filename     string
	onDisk       string
	notification string
	searchActive bool

	gitBranch       string
	gitBranchSymbol string

	highlighter   *syntax.Highlighter
	parsedContent string
	parsed        bool

	scroll      int
	lineNumbers bool
	styles      styles
	log         *zap.Logger
}

type Option func(*Editor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

func New(cfg config.Config, opts ...Option) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap.Edit))
	for k, v := range cfg.Keymap.Edit {
		keymap[k] = v
	}
	e := &Editor{
		mode:            EditMode{},
		keymap:          keymap,
		gitBranchSymbol: strings.TrimSpace(cfg.Editor.GitBranchSymbol),
		lineNumbers:     !strings.EqualFold(strings.TrimSpace(cfg.Editor.LineNumbers), "off"),
		styles:          newStyles(cfg.Theme),
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buf = buffer.New(buffer.WithLogger(e.log), buffer.WithHistorySize(cfg.Editor.HistorySize))
	return e
}

// OpenFile loads path into the buffer. A missing file starts an empty
// document that will be created on save.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		e.buf.Load("")
		e.onDisk = ""
		e.notification = fileCreated
	case err != nil:
		return fmt.Errorf("open %s: %w", path, err)
	default:
		e.buf.Load(string(data))
		e.onDisk = string(data)
		e.notification = ""
	}
	e.filename = path
	e.mode = EditMode{}
	e.scroll = 0
	e.searchActive = false
	e.parsed = false
	e.log.Info("file opened", zap.String("path", path), zap.Int("lines", e.buf.LineCount()))
	return nil
}

// Save writes the buffer to the open file.
func (e *Editor) Save() error {
	if e.filename == "" {
		return ErrNoFileName
	}
	content := e.buf.Content()
	if err := os.WriteFile(e.filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", e.filename, err)
	}
	e.onDisk = content
	e.notification = fileSaved
	e.log.Info("file saved", zap.String("path", e.filename))
	return nil
}

// ReloadFromDisk picks up changes made outside the editor. It reports false
// when the file matches the buffer or the content last read or written by the
// editor, so the echo of our own save never discards newer typing.
func (e *Editor) ReloadFromDisk() (bool, error) {
	if e.filename == "" {
		return false, ErrNoFileName
	}
	data, err := os.ReadFile(e.filename)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", e.filename, err)
	}
	if string(data) == e.onDisk || string(data) == e.buf.Content() {
		e.onDisk = string(data)
		return false, nil
	}
	e.buf.Reload(string(data))
	e.onDisk = string(data)
	e.notification = fileReloaded
	e.log.Info("file reloaded", zap.String("path", e.filename))
	return true, nil
}

func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

func (e *Editor) Content() string {
	return e.buf.Content()
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) Mode() Mode {
	return e.mode
}

func (e *Editor) Notification() string {
	return e.notification
}

func (e *Editor) SetNotification(msg string) {
	e.notification = msg
}

func (e *Editor) SetGitBranch(name string) {
	e.gitBranch = name
}

// SetHighlighter attaches a parser for the open file; nil disables colors.
func (e *Editor) SetHighlighter(h *syntax.Highlighter) {
	e.highlighter = h
	e.parsed = false
}

// HandleKey processes one key event and reports whether the editor should
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	switch m := e.mode.(type) {
	case *GotoLineMode:
		e.handleGoto(m, ev)
	case *FindMode:
		e.handleFind(m, ev)
	case MoveCursorMode:
		e.handleMoveCursor(ev)
	default:
		return e.handleEdit(ev)
	}
	return false
}

func (e *Editor) handleEdit(ev *tcell.EventKey) bool {
	if action, ok := e.keymap[keyString(ev)]; ok {
		if action != "find_next" && action != "find_prev" {
			e.notification = ""
			e.searchActive = false
		}
		return e.execAction(action)
	}
	e.notification = ""
	e.searchActive = false
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) == 0 {
		e.buf.Insert(ev.Rune())
	}
	return false
}

var motions = map[string]buffer.Motion{
	"left":       buffer.MotionLeft,
	"right":      buffer.MotionRight,
	"up":         buffer.MotionUp,
	"down":       buffer.MotionDown,
	"left_word":  buffer.MotionLeftWord,
	"right_word": buffer.MotionRightWord,
	"left_line":  buffer.MotionLeftLine,
	"right_line": buffer.MotionRightLine,
	"up_line":    buffer.MotionUpLine,
	"down_line":  buffer.MotionDownLine,
	"left_five":  buffer.MotionLeftFive,
	"right_five": buffer.MotionRightFive,
	"up_five":    buffer.MotionUpFive,
	"down_five":  buffer.MotionDownFive,
}

// execAction runs a keymap action in edit mode. It returns true to quit.
func (e *Editor) execAction(action string) bool {
	if m, ok := motions[action]; ok {
		e.buf.Move(m)
		return false
	}
	if name, ok := strings.CutPrefix(action, "select_"); ok {
		if m, ok := motions[name]; ok {
			e.buf.Extend(m)
		}
		return false
	}

	switch action {
	case "backspace":
		e.buf.Backspace()
	case "backspace_word":
		e.buf.BackspaceWord()
	case "backspace_line":
		e.buf.BackspaceLine()
	case "newline":
		e.buf.NewLine()
	case "tab":
		e.buf.Tab()
	case "undo":
		if err := e.buf.Undo(); err != nil {
			e.log.Debug("undo", zap.Error(err))
		}
	case "redo":
		if err := e.buf.Redo(); err != nil {
			e.log.Debug("redo", zap.Error(err))
		}
	case "copy":
		e.buf.CopySelection()
	case "paste":
		e.buf.PasteScratch()
	case "add_cursor_below":
		e.buf.AddCursorBelow()
	case "add_cursor_above":
		e.buf.AddCursorAbove()
	case "goto_line":
		e.buf.Collapse()
		e.mode = &GotoLineMode{}
		e.notification = gotoPrompt
	case "find":
		e.buf.Collapse()
		e.mode = &FindMode{}
		e.notification = findPrompt
	case "find_next":
		e.showFindResult(e.buf.FindNext())
	case "find_prev":
		e.showFindResult(e.buf.FindPrev())
	case "move_cursor":
		e.mode = MoveCursorMode{}
		e.notification = moveCursorPrompt
	case "save":
		if err := e.Save(); err != nil {
			e.notification = err.Error()
			e.log.Error("save failed", zap.Error(err))
		}
	case "escape":
		return e.escape()
	case "quit":
		return true
	default:
		e.log.Debug("unknown action", zap.String("action", action))
	}
	return false
}

// escape drops extra cursors, then selections, and only then quits.
func (e *Editor) escape() bool {
	cursors := e.buf.Cursors()
	if cursors.Len() > 1 {
		e.buf.Collapse()
		return false
	}
	if cursors.Primary().HasAnchor {
		cursors.Each(func(_ int, c *buffer.Cursor) { c.ClearSelection() })
		return false
	}
	return true
}

// editInput applies a text-entry key to input. done is set on Enter, cancel
// on Esc.
func editInput(input []rune, ev *tcell.EventKey) (out []rune, done, cancel bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return input, true, false
	case tcell.KeyEscape:
		return input, false, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(input) > 0 {
			input = input[:len(input)-1]
		}
		return input, false, false
	case tcell.KeyRune:
		return append(input, ev.Rune()), false, false
	}
	return input, false, false
}

func (e *Editor) handleGoto(m *GotoLineMode, ev *tcell.EventKey) {
	input, done, cancel := editInput(m.Input, ev)
	m.Input = input
	switch {
	case cancel:
		e.mode = EditMode{}
		e.notification = ""
	case done:
		e.mode = EditMode{}
		e.commitGoto(string(m.Input))
	default:
		e.notification = gotoPrompt + string(m.Input)
	}
}

func (e *Editor) commitGoto(input string) {
	e.buf.Collapse()
	pos, err := parseGoto(input, e.buf.Cursors().Primary().Col)
	if err != nil {
		e.log.Debug("goto rejected", zap.String("input", input), zap.Error(err))
		e.notification = badLineNumber
		return
	}
	e.buf.SetPrimary(pos)
	e.notification = ""
}

// parseGoto reads "[:]<line>[:<col>]" with a 1-based line. Without a column
// the current column is kept.
func parseGoto(input string, col int) (buffer.Position, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), ":")
	lineText, colText, hasCol := strings.Cut(s, ":")
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return buffer.Position{}, ErrInvalidLineNumber
	}
	if hasCol && colText != "" {
		c, err := strconv.Atoi(colText)
		if err != nil || c < 0 {
			return buffer.Position{}, ErrInvalidLineNumber
		}
		col = c
	}
	return buffer.Position{Line: line - 1, Col: col}, nil
}

func (e *Editor) handleFind(m *FindMode, ev *tcell.EventKey) {
	query, done, cancel := editInput(m.Query, ev)
	m.Query = query
	switch {
	case cancel:
		e.mode = EditMode{}
		e.notification = ""
	case done:
		e.mode = EditMode{}
		e.commitFind(string(m.Query))
	default:
		e.notification = findPrompt + string(m.Query)
	}
}

func (e *Editor) commitFind(query string) {
	e.buf.Collapse()
	if query == "" {
		e.log.Debug("find rejected", zap.Error(ErrInvalidSubstring))
		e.notification = badSubstring
		return
	}
	e.showFindResult(e.buf.Find(query))
}

func (e *Editor) showFindResult(found bool) {
	if !found {
		e.searchActive = false
		e.notification = noMatches
		return
	}
	f := e.buf.Finder()
	e.searchActive = true
	e.notification = fmt.Sprintf("[%d/%d] %s", f.Index()+1, len(f.Results()), f.Query())
}

func (e *Editor) handleMoveCursor(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		e.mode = EditMode{}
		e.notification = ""
		return
	case tcell.KeyRune:
	default:
		return
	}
	switch ev.Rune() {
	case 'w':
		e.buf.Move(buffer.MotionUp)
	case 'a':
		e.buf.Move(buffer.MotionLeft)
	case 's':
		e.buf.Move(buffer.MotionDown)
	case 'd':
		e.buf.Move(buffer.MotionRight)
	}
}
