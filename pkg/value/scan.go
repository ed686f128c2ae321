package value

import (
	"strings"
	"unicode/utf8"

	"github.com/stratumdata/stratum/pkg/errors"
)

// Grouping symbol pairs recognized by the scanner. The first close symbol
// found terminates a group; same-pair nesting is not resolved specially.
var groupPairs = [6][2]byte{
	{'(', ')'},
	{'{', '}'},
	{'<', '>'},
	{'[', ']'},
	{'"', '"'},
	{'\'', '\''},
}

func closerFor(open byte) (byte, bool) {
	for _, pair := range groupPairs {
		if pair[0] == open {
			return pair[1], true
		}
	}
	return 0, false
}

// ScanLine tokenizes one line of separator-delimited text into values by
// recursive descent. A token that opens one of the six grouping pairs
// (parentheses, braces, angle brackets, square brackets, double quotes,
// single quotes) is scanned to its first matching
// close symbol and its inner text parsed recursively with the same
// separator: two or more inner cells become a list, exactly one collapses
// to that cell, none yields an empty list. A close symbol without a
// preceding opener is ordinary text. A trailing separator produces no
// trailing empty cell.
//
// ScanLine panics on structurally invalid lines: an opener with no
// matching close symbol, or text between a close symbol and the next
// separator. Such lines cannot be tokenized meaningfully.
func ScanLine(line string, sep rune) []Value {
	var cells []Value
	rest := line
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return cells
		}
		if closer, ok := closerFor(rest[0]); ok {
			group, tail := scanGroup(rest, closer, sep)
			cells = append(cells, group)
			rest = tail
			continue
		}
		var token string
		if idx := strings.IndexRune(rest, sep); idx >= 0 {
			token = rest[:idx]
			rest = rest[idx+utf8.RuneLen(sep):]
		} else {
			token = rest
			rest = ""
		}
		cells = append(cells, Infer(token))
	}
}

// scanGroup consumes a grouped token at the start of rest, which must
// begin with an open symbol. It returns the parsed cell and the remaining
// text after the group's separator.
func scanGroup(rest string, closer byte, sep rune) (Value, string) {
	body := rest[1:]
	end := strings.IndexByte(body, closer)
	if end < 0 {
		panic(errors.Newf(errors.ErrorTypeFormat,
			"unterminated group: no closing %q in %q", string(closer), rest))
	}

	tail := strings.TrimSpace(body[end+1:])
	if tail != "" {
		r, size := utf8.DecodeRuneInString(tail)
		if r != sep {
			panic(errors.Newf(errors.ErrorTypeFormat,
				"unexpected text %q after group close symbol", tail))
		}
		tail = tail[size:]
	}

	inner := ScanLine(body[:end], sep)
	switch len(inner) {
	case 1:
		return inner[0], tail
	default:
		return ListOf(inner...), tail
	}
}
