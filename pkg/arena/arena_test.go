package arena

import (
	"strings"
	"testing"
)

func TestInternResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple", "hello"},
		{"empty", ""},
		{"unicode", "héllo wörld"},
		{"whitespace", "  spaced  "},
		{"long", strings.Repeat("x", 4096)},
	}

	a := New(16)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := a.Intern(tt.input)
			if got := a.Resolve(sp); got != tt.input {
				t.Errorf("Resolve(Intern(%q)) = %q", tt.input, got)
			}
			if sp.Len() != len(tt.input) {
				t.Errorf("Span.Len() = %d, want %d", sp.Len(), len(tt.input))
			}
		})
	}
}

func TestSpansSurviveGrowth(t *testing.T) {
	// Spans issued before the buffer reallocates must still resolve
	// to their original text.
	a := New(4)
	first := a.Intern("alpha")
	resolved := a.Resolve(first)

	for i := 0; i < 1000; i++ {
		a.Intern("padding-to-force-reallocation")
	}

	if got := a.Resolve(first); got != "alpha" {
		t.Errorf("span after growth resolves to %q, want %q", got, "alpha")
	}
	// The string resolved before growth points at the old backing array
	// and must be unaffected too.
	if resolved != "alpha" {
		t.Errorf("pre-growth string mutated to %q", resolved)
	}
}

func TestInternBytes(t *testing.T) {
	a := New(0)
	src := []byte("transient")
	sp := a.InternBytes(src)

	// Mutating the source after interning must not affect the arena.
	src[0] = 'X'

	if got := a.Resolve(sp); got != "transient" {
		t.Errorf("Resolve = %q, want %q", got, "transient")
	}
}

func TestSequentialSpans(t *testing.T) {
	a := New(0)
	s1 := a.Intern("ab")
	s2 := a.Intern("cd")

	if s1.End != s2.Start {
		t.Errorf("spans not contiguous: %v then %v", s1, s2)
	}
	if a.Len() != 4 {
		t.Errorf("Len() = %d, want 4", a.Len())
	}
	if a.Resolve(s1) != "ab" || a.Resolve(s2) != "cd" {
		t.Errorf("resolved %q, %q", a.Resolve(s1), a.Resolve(s2))
	}
}
