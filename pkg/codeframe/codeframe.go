// Package codeframe renders a source excerpt with a caret underline below
// the line that a diagnostic points at.
//
//	   1 | fn A() = x
//	 > 2 | Id(x) = x;
//	       ^^
//	   3 | fn B() = y
//
// Lines are 1-based. Columns are 1-based rune offsets and EndColumn is
// exclusive.
package codeframe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Options locates the span to underline. EndColumn is only read when HasEnd
// is set; otherwise a single column is underlined.
type Options struct {
	Line      int
	Column    int
	EndColumn int
	HasEnd    bool
}

// RangeError reports a location that does not fit the source text.
type RangeError struct {
	Line       int
	Column     int
	EndColumn  int
	LineLength int
	Message    string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("codeframe: %s (line %d, column %d, end column %d, line length %d)",
		e.Message, e.Line, e.Column, e.EndColumn, e.LineLength)
}

// Format renders a plain code frame.
func Format(input string, opts Options) (string, error) {
	return Printer{}.Format(input, opts)
}

// Printer renders code frames, optionally with ANSI colors.
type Printer struct {
	Color bool
}

type styles struct {
	gutter *color.Color
	focus  *color.Color
	caret  *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		gutter: color.New(color.FgHiBlack),
		focus:  color.New(color.Bold, color.FgHiRed),
		caret:  color.New(color.Bold, color.FgHiRed),
	}
	for _, c := range []*color.Color{s.gutter, s.focus, s.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Format shows up to two lines before and one line after opts.Line, then
// an underline of max(1, EndColumn-Column) carets.
func (p Printer) Format(input string, opts Options) (string, error) {
	lines := lineBreak.Split(input, -1)
	if opts.Line < 1 || opts.Line > len(lines) {
		return "", &RangeError{
			Line: opts.Line, Column: opts.Column, EndColumn: opts.EndColumn,
			Message: "line is outside the input",
		}
	}

	lineLength := utf8.RuneCountInString(lines[opts.Line-1])
	if opts.HasEnd && (opts.EndColumn < opts.Column || opts.EndColumn > lineLength+1) {
		return "", &RangeError{
			Line: opts.Line, Column: opts.Column, EndColumn: opts.EndColumn,
			LineLength: lineLength,
			Message:    "end column must not precede column or pass the end of the line",
		}
	}

	top := max(1, opts.Line-2)
	bottom := min(len(lines), opts.Line+1)
	width := len(strconv.Itoa(bottom)) + 1
	s := newStyles(p.Color)

	var b strings.Builder
	for n := top; n <= bottom; n++ {
		if n > top {
			b.WriteByte('\n')
		}
		focus := "  "
		if n == opts.Line {
			focus = s.focus.Sprint(" >")
		}
		b.WriteString(focus)
		b.WriteString(s.gutter.Sprintf("%*d | ", width, n))
		b.WriteString(lines[n-1])

		if n == opts.Line {
			carets := 1
			if opts.HasEnd {
				carets = max(1, opts.EndColumn-opts.Column)
			}
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", max(1, opts.Column)+width+4))
			b.WriteString(s.caret.Sprint(strings.Repeat("^", carets)))
		}
	}
	return b.String(), nil
}
