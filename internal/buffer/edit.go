package buffer

import "strings"

// Every edit below is applied cursor by cursor in set order. After each
// single-cursor change the remaining cursors are re-resolved against it, so
// cursors that share a line keep pointing at the same text.

// Insert types r at every cursor.
func (b *Buffer) Insert(r rune) {
	cmd := CommandChar
	if r == ' ' {
		cmd = CommandSpace
	}
	b.pushHistory(cmd)
	text := []rune{r}
	for i := range b.cursors.cursors {
		b.insertAt(i, text)
	}
}

// InsertString inserts s at every cursor without touching history. Newlines
// in s open new lines.
func (b *Buffer) InsertString(s string) {
	for i := range b.cursors.cursors {
		b.insertTextAt(i, s)
	}
}

// Backspace deletes the character before each cursor, joining with the
// previous line at column 0.
func (b *Buffer) Backspace() {
	b.pushHistory(CommandBackspace)
	changed := false
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		switch {
		case c.Col > 0:
			b.deleteAt(i, c.Col-1, c.Col)
			changed = true
		case c.Line > 0:
			b.joinUp(i)
			changed = true
		}
	}
	b.retractIfUnchanged(changed)
}

// BackspaceWord deletes a single space before the cursor, or else the word
// back to the previous space. Cursors at column 0 are left alone.
func (b *Buffer) BackspaceWord() {
	b.pushHistory(CommandBackspace)
	changed := false
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		if c.Col == 0 {
			continue
		}
		line := b.lines[c.Line]
		from := c.Col
		if line[from-1] == ' ' {
			from--
		} else {
			for from > 0 && line[from-1] != ' ' {
				from--
			}
		}
		b.deleteAt(i, from, c.Col)
		changed = true
	}
	b.retractIfUnchanged(changed)
}

// BackspaceLine empties the line of every cursor not already at column 0.
func (b *Buffer) BackspaceLine() {
	b.pushHistory(CommandBackspace)
	changed := false
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		if c.Col == 0 {
			continue
		}
		b.deleteAt(i, 0, len(b.lines[c.Line]))
		changed = true
	}
	b.retractIfUnchanged(changed)
}

// NewLine splits the line at every cursor and auto-indents the new line.
func (b *Buffer) NewLine() {
	b.pushHistory(CommandNewline)
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		head := b.lines[c.Line][:c.Col]
		b.splitAt(i, spaces(newlineLevels(head)))
	}
}

// Tab inserts one or more indent blocks at every cursor.
func (b *Buffer) Tab() {
	b.pushHistory(CommandTab)
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		b.insertAt(i, spaces(tabLevels(b.lines, c.Line)))
	}
}

// CopySelection stores each cursor's selected text in its scratch, or the
// whole line when the cursor has no selection.
func (b *Buffer) CopySelection() {
	for i := range b.cursors.cursors {
		c := &b.cursors.cursors[i]
		start, end, ok := c.Selection()
		if !ok {
			c.Scratch = string(b.lines[c.Line])
			continue
		}
		c.Scratch = b.textRange(start, end)
	}
}

// PasteScratch inserts each cursor's own scratch at its position.
func (b *Buffer) PasteScratch() {
	b.pushHistory(CommandNull)
	changed := false
	for i := range b.cursors.cursors {
		c := b.cursors.cursors[i]
		if c.Scratch == "" {
			continue
		}
		b.cursors.cursors[i].ClearSelection()
		b.insertTextAt(i, c.Scratch)
		changed = true
	}
	b.retractIfUnchanged(changed)
}

func (b *Buffer) textRange(start, end Position) string {
	start.Line, start.Col = clampPos(b.lines, start.Line, start.Col)
	end.Line, end.Col = clampPos(b.lines, end.Line, end.Col)
	if end.Less(start) {
		start, end = end, start
	}
	if start.Line == end.Line {
		return string(b.lines[start.Line][start.Col:end.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[start.Line][start.Col:]))
	for row := start.Line + 1; row < end.Line; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[end.Line][:end.Col]))
	return sb.String()
}

func (b *Buffer) insertTextAt(idx int, s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for n, part := range strings.Split(s, "\n") {
		if n > 0 {
			b.splitAt(idx, nil)
		}
		if part != "" {
			b.insertAt(idx, []rune(part))
		}
	}
}

// insertAt inserts text at cursor idx and advances it.
func (b *Buffer) insertAt(idx int, text []rune) {
	c := &b.cursors.cursors[idx]
	row, col := c.Line, c.Col
	line := b.lines[row]
	out := make([]rune, 0, len(line)+len(text))
	out = append(out, line[:col]...)
	out = append(out, text...)
	out = append(out, line[col:]...)
	b.lines[row] = out
	c.Col += len(text)
	n := len(text)
	b.remap(idx, func(p Position) Position {
		if p.Line == row && p.Col >= col {
			p.Col += n
		}
		return p
	})
}

// deleteAt removes [from, to) on the line of cursor idx and leaves the
// cursor at from.
func (b *Buffer) deleteAt(idx, from, to int) {
	c := &b.cursors.cursors[idx]
	row := c.Line
	line := b.lines[row]
	out := make([]rune, 0, len(line)-(to-from))
	out = append(out, line[:from]...)
	out = append(out, line[to:]...)
	b.lines[row] = out
	c.Col = from
	b.remap(idx, func(p Position) Position {
		if p.Line != row || p.Col <= from {
			return p
		}
		if p.Col >= to {
			p.Col -= to - from
		} else {
			p.Col = from
		}
		return p
	})
}

// splitAt breaks the line at cursor idx; the tail moves to a new line after
// indent, and the cursor follows it.
func (b *Buffer) splitAt(idx int, indent []rune) {
	c := &b.cursors.cursors[idx]
	row, col := c.Line, c.Col
	line := b.lines[row]
	head := append([]rune(nil), line[:col]...)
	tail := make([]rune, 0, len(indent)+len(line)-col)
	tail = append(tail, indent...)
	tail = append(tail, line[col:]...)

	lines := make([][]rune, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:row]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[row+1:]...)
	b.lines = lines

	c.Line, c.Col = row+1, len(indent)
	shift := len(indent) - col
	b.remap(idx, func(p Position) Position {
		switch {
		case p.Line > row:
			p.Line++
		case p.Line == row && p.Col >= col:
			p.Line++
			p.Col += shift
		}
		return p
	})
}

// joinUp appends the line of cursor idx to the previous line.
func (b *Buffer) joinUp(idx int) {
	c := &b.cursors.cursors[idx]
	row := c.Line
	prevLen := len(b.lines[row-1])
	merged := make([]rune, 0, prevLen+len(b.lines[row]))
	merged = append(merged, b.lines[row-1]...)
	merged = append(merged, b.lines[row]...)

	lines := make([][]rune, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:row-1]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[row+1:]...)
	b.lines = lines

	c.Line, c.Col = row-1, prevLen
	b.remap(idx, func(p Position) Position {
		switch {
		case p.Line > row:
			p.Line--
		case p.Line == row:
			p.Line--
			p.Col += prevLen
		}
		return p
	})
}

// remap applies fn to every selection anchor and to the position of every
// cursor except skip, whose position the caller has already moved.
func (b *Buffer) remap(skip int, fn func(Position) Position) {
	for i := range b.cursors.cursors {
		c := &b.cursors.cursors[i]
		if c.HasAnchor {
			c.Anchor = fn(c.Anchor)
		}
		if i == skip {
			continue
		}
		p := fn(c.Pos())
		c.Line, c.Col = p.Line, p.Col
	}
}
