package buffer

import "testing"

func toLines(ss ...string) [][]rune {
	out := make([][]rune, len(ss))
	for i, s := range ss {
		out[i] = []rune(s)
	}
	return out
}

func TestFinderResults(t *testing.T) {
	f := NewFinder()
	f.SetQuery("o")
	f.Find(toLines("hello world"), 0)
	got := f.Results()
	want := []Position{{0, 4}, {0, 7}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("results = %v, want %v", got, want)
	}
	if f.Index() != 0 {
		t.Fatalf("index = %d, want 0", f.Index())
	}
	f.Next()
	if f.Index() != 1 {
		t.Fatalf("index = %d, want 1", f.Index())
	}
	f.Next()
	if f.Index() != 0 {
		t.Fatalf("index = %d, want 0", f.Index())
	}
	f.Prev()
	if f.Index() != 1 {
		t.Fatalf("prev index = %d, want 1", f.Index())
	}
}

func TestFinderCaseInsensitive(t *testing.T) {
	f := NewFinder()
	f.SetQuery("ПрИ")
	f.Find(toLines("привет", "ПРИ при"), 0)
	if n := len(f.Results()); n != 3 {
		t.Fatalf("results = %v, want 3 matches", f.Results())
	}
	if pos, _ := f.Current(); pos != (Position{0, 0}) {
		t.Fatalf("current = %v, want (0,0)", pos)
	}
}

func TestFinderNonOverlapping(t *testing.T) {
	f := NewFinder()
	f.SetQuery("aa")
	f.Find(toLines("aaaaa"), 0)
	want := []Position{{0, 0}, {0, 2}}
	got := f.Results()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("results = %v, want %v", got, want)
	}
}

func TestFinderIndexWrapsWhenNothingBelow(t *testing.T) {
	f := NewFinder()
	f.SetQuery("x")
	f.Find(toLines("x", "x", "y"), 2)
	if f.Index() != 0 {
		t.Fatalf("index = %d, want 0", f.Index())
	}
}

func TestFinderEmpty(t *testing.T) {
	f := NewFinder()
	f.Find(toLines("abc"), 0)
	if _, ok := f.Current(); ok {
		t.Fatalf("empty query produced a result")
	}
	f.Next()
	f.Prev()
	if f.Index() != 0 {
		t.Fatalf("index moved without results: %d", f.Index())
	}
	f.SetQuery("abc")
	f.Find(toLines("abc"), 0)
	f.Reset()
	if f.Query() != "" || len(f.Results()) != 0 {
		t.Fatalf("reset left query %q results %v", f.Query(), f.Results())
	}
}
