package syntax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/medit/internal/config"
)

var ErrUnsupported = errors.New("no grammar for language")

// Span colors runes [StartCol, EndCol) of one line. Columns are rune
// offsets, matching buffer positions.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type grammar struct {
	lang  *sitter.Language
	query string
}

var grammars = map[string]grammar{
	"go":   {golang.GetLanguage(), goHighlightQuery},
	"yaml": {yaml.GetLanguage(), yamlHighlightQuery},
	"toml": {toml.GetLanguage(), tomlHighlightQuery},
	"bash": {bash.GetLanguage(), bashHighlightQuery},
}

// Highlighter parses one document and answers span queries over a window
// of lines. It is used from the event loop only.
type Highlighter struct {
	name       string
	parser     *sitter.Parser
	query      *sitter.Query
	tree       *sitter.Tree
	source     []byte
	lineStarts []int
}

// New returns a highlighter for a language name from languages.toml.
func New(name string) (*Highlighter, error) {
	g, ok := grammars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	query, err := sitter.NewQuery([]byte(g.query), g.lang)
	if err != nil {
		return nil, fmt.Errorf("compile %s query: %w", name, err)
	}
	p := sitter.NewParser()
	p.SetLanguage(g.lang)
	return &Highlighter{name: name, parser: p, query: query}, nil
}

// ForPath picks the grammar for path through the language table.
func ForPath(langs config.Languages, path string) (*Highlighter, error) {
	lang := langs.Match(path)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return New(lang.Name)
}

func (h *Highlighter) Language() string {
	return h.name
}

// Parse replaces the document. Undo restores whole snapshots, so the tree is
// always rebuilt from scratch rather than edited.
func (h *Highlighter) Parse(ctx context.Context, text string) error {
	source := []byte(text)
	tree, err := h.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return err
	}
	if h.tree != nil {
		h.tree.Close()
	}
	h.tree = tree
	h.source = source
	h.lineStarts = lineStarts(source)
	return nil
}

// Spans returns highlight spans keyed by line for lines in [startLine, endLine].
func (h *Highlighter) Spans(startLine, endLine int) map[int][]Span {
	if h.tree == nil || startLine < 0 || endLine < startLine {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(h.query, h.tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, h.source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := h.query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := math.MaxInt32
				if row == int(start.Row) {
					startCol = h.runeCol(row, int(start.Column))
				}
				if row == int(end.Row) {
					endCol = h.runeCol(row, int(end.Column))
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

// KindAt returns the highest-priority kind among spans covering col.
func KindAt(spans []Span, col int) (string, bool) {
	bestKind := ""
	bestPriority := 0
	for _, s := range spans {
		if col < s.StartCol || col >= s.EndCol {
			continue
		}
		if p := priority(s.Kind); p > bestPriority {
			bestPriority = p
			bestKind = s.Kind
		}
	}
	return bestKind, bestKind != ""
}

func priority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "type", "function", "number":
		return 2
	case "operator":
		return 1
	default:
		return 0
	}
}

func (h *Highlighter) Close() {
	if h.tree != nil {
		h.tree.Close()
		h.tree = nil
	}
	h.query.Close()
	h.parser.Close()
}

// runeCol converts a tree-sitter byte column on row to a rune column.
func (h *Highlighter) runeCol(row, byteCol int) int {
	if row >= len(h.lineStarts) {
		return byteCol
	}
	start := h.lineStarts[row]
	end := start + byteCol
	if end > len(h.source) {
		end = len(h.source)
	}
	return utf8.RuneCount(h.source[start:end])
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
