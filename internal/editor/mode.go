package editor

// Mode decides which handler receives the next key. Each modal state carries
// only the input it collects.
type Mode interface {
	Name() string
	isMode()
}

// EditMode dispatches keys through the keymap to buffer operations.
type EditMode struct{}

// GotoLineMode collects ":<line>[:<col>]".
type GotoLineMode struct {
	Input []rune
}

// FindMode collects the search substring.
type FindMode struct {
	Query []rune
}

// MoveCursorMode moves the cursor with w/a/s/d until Enter or Esc.
type MoveCursorMode struct{}

func (EditMode) Name() string       { return "EDIT" }
func (*GotoLineMode) Name() string  { return "GOTO" }
func (*FindMode) Name() string      { return "FIND" }
func (MoveCursorMode) Name() string { return "MOVE" }

func (EditMode) isMode()       {}
func (*GotoLineMode) isMode()  {}
func (*FindMode) isMode()      {}
func (MoveCursorMode) isMode() {}
