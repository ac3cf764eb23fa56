package buffer

import "unicode"

// Finder holds the results of the last substring search.
type Finder struct {
	query   string
	index   int
	results []Position
}

func NewFinder() *Finder {
	return &Finder{}
}

func (f *Finder) SetQuery(query string) {
	f.query = query
}

func (f *Finder) Query() string {
	return f.query
}

// Find rebuilds the result list with every case-insensitive, non-overlapping
// occurrence of the query, in document order. The index starts at the first
// result on or after currentLine, wrapping to 0 when there is none.
func (f *Finder) Find(lines [][]rune, currentLine int) {
	f.results = f.results[:0]
	f.index = 0
	needle := lowerRunes([]rune(f.query))
	if len(needle) == 0 {
		return
	}
	for row, line := range lines {
		hay := lowerRunes(line)
		for col := 0; col+len(needle) <= len(hay); {
			if hasPrefixAt(hay, needle, col) {
				f.results = append(f.results, Position{Line: row, Col: col})
				if row < currentLine {
					f.index++
				}
				col += len(needle)
				continue
			}
			col++
		}
	}
	if f.index >= len(f.results) {
		f.index = 0
	}
}

func (f *Finder) Next() {
	if len(f.results) == 0 {
		return
	}
	f.index++
	if f.index >= len(f.results) {
		f.index = 0
	}
}

func (f *Finder) Prev() {
	if len(f.results) == 0 {
		return
	}
	if f.index == 0 {
		f.index = len(f.results) - 1
		return
	}
	f.index--
}

// Current returns the result under the search index.
func (f *Finder) Current() (Position, bool) {
	if len(f.results) == 0 {
		return Position{}, false
	}
	return f.results[f.index], true
}

func (f *Finder) Index() int {
	return f.index
}

func (f *Finder) Results() []Position {
	out := make([]Position, len(f.results))
	copy(out, f.results)
	return out
}

func (f *Finder) Reset() {
	f.query = ""
	f.index = 0
	f.results = nil
}

// lowerRunes lowercases rune by rune so columns stay aligned with the source.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasPrefixAt(hay, needle []rune, at int) bool {
	for i, r := range needle {
		if hay[at+i] != r {
			return false
		}
	}
	return true
}
