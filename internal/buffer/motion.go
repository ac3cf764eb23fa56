package buffer

// Motion names a cursor navigation. Motions never touch content or history.
type Motion int

const (
	MotionLeft Motion = iota
	MotionRight
	MotionUp
	MotionDown
	MotionLeftWord
	MotionRightWord
	MotionLeftLine
	MotionRightLine
	MotionUpLine
	MotionDownLine
	MotionLeftFive
	MotionRightFive
	MotionUpFive
	MotionDownFive
)

// Move applies m to every cursor and drops selections.
func (b *Buffer) Move(m Motion) {
	for i := range b.cursors.cursors {
		c := &b.cursors.cursors[i]
		p := b.motion(m, c.Pos())
		c.Line, c.Col = p.Line, p.Col
		c.ClearSelection()
	}
}

// Extend applies m to every cursor, growing each selection.
func (b *Buffer) Extend(m Motion) {
	for i := range b.cursors.cursors {
		c := &b.cursors.cursors[i]
		p := b.motion(m, c.Pos())
		c.ExpandSelection(p.Line, p.Col)
	}
}

func (b *Buffer) motion(m Motion, p Position) Position {
	lines := b.lines
	last := len(lines) - 1
	line := lines[p.Line]
	switch m {
	case MotionLeft:
		return moveLeft(lines, p)
	case MotionRight:
		return moveRight(lines, p)
	case MotionUp:
		if p.Line == 0 {
			return Position{}
		}
		return Position{Line: p.Line - 1, Col: min(p.Col, len(lines[p.Line-1]))}
	case MotionDown:
		if p.Line >= last {
			return Position{Line: last, Col: len(lines[last])}
		}
		return Position{Line: p.Line + 1, Col: min(p.Col, len(lines[p.Line+1]))}
	case MotionLeftWord:
		if p.Col == 0 {
			return moveLeft(lines, p)
		}
		return Position{Line: p.Line, Col: wordStartBefore(line, p.Col)}
	case MotionRightWord:
		if p.Col >= len(line) {
			return moveRight(lines, p)
		}
		return Position{Line: p.Line, Col: wordEndAfter(line, p.Col)}
	case MotionLeftLine:
		return Position{Line: p.Line}
	case MotionRightLine:
		return Position{Line: p.Line, Col: len(line)}
	case MotionUpLine:
		return Position{Col: min(p.Col, len(lines[0]))}
	case MotionDownLine:
		return Position{Line: last, Col: min(p.Col, len(lines[last]))}
	case MotionLeftFive:
		return Position{Line: p.Line, Col: max(p.Col-5, 0)}
	case MotionRightFive:
		return Position{Line: p.Line, Col: min(p.Col+5, len(line))}
	case MotionUpFive:
		row := max(p.Line-5, 0)
		return Position{Line: row, Col: min(p.Col, len(lines[row]))}
	case MotionDownFive:
		row := min(p.Line+5, last)
		return Position{Line: row, Col: min(p.Col, len(lines[row]))}
	}
	return p
}

func moveLeft(lines [][]rune, p Position) Position {
	if p.Col > 0 {
		return Position{Line: p.Line, Col: p.Col - 1}
	}
	if p.Line == 0 {
		return p
	}
	return Position{Line: p.Line - 1, Col: len(lines[p.Line-1])}
}

func moveRight(lines [][]rune, p Position) Position {
	if p.Col < len(lines[p.Line]) {
		return Position{Line: p.Line, Col: p.Col + 1}
	}
	if p.Line >= len(lines)-1 {
		return p
	}
	return Position{Line: p.Line + 1}
}

// wordStartBefore scans left from col to the nearest space boundary. One
// adjacent space is skipped first; landing inside the leading indentation
// continues to column 0.
func wordStartBefore(line []rune, col int) int {
	i := col
	if line[i-1] == ' ' {
		i--
	}
	for i > 0 && line[i-1] != ' ' {
		i--
	}
	if i <= leadingSpaces(line) {
		return 0
	}
	return i
}

// wordEndAfter scans right from col to the next space, skipping one
// adjacent space first.
func wordEndAfter(line []rune, col int) int {
	i := col
	if line[i] == ' ' {
		i++
	}
	for i < len(line) && line[i] != ' ' {
		i++
	}
	return i
}
