package buffer

// indentWidth is the number of spaces in one indent level.
const indentWidth = 4

func leadingSpaces(line []rune) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func endsWithBrace(line []rune) bool {
	return len(line) > 0 && line[len(line)-1] == '{'
}

// newlineLevels is the indent for a line opened below head. A brace adds a
// level; otherwise the new line sits one level shallower than head.
func newlineLevels(head []rune) int {
	levels := leadingSpaces(head) / indentWidth
	if endsWithBrace(head) {
		return levels + 1
	}
	if levels > 0 {
		levels--
	}
	return levels
}

// tabLevels is the number of indent blocks a tab inserts on line row. It
// inherits the full depth of the line two rows back and is at least one.
func tabLevels(lines [][]rune, row int) int {
	if row <= 1 {
		return 1
	}
	ref := lines[row-2]
	levels := leadingSpaces(ref) / indentWidth
	if endsWithBrace(ref) {
		levels++
	}
	if levels < 1 {
		levels = 1
	}
	return levels
}

func spaces(levels int) []rune {
	out := make([]rune, levels*indentWidth)
	for i := range out {
		out[i] = ' '
	}
	return out
}
