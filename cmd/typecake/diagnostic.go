package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	typecake "github.com/g-plane/TypeCake"
)

// styles holds the color formatters for diagnostics
type styles struct {
	label   *color.Color
	message *color.Color
	arrow   *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		label:   color.New(color.Bold, color.FgHiRed),
		message: color.New(color.Bold),
		arrow:   color.New(color.FgHiBlue),
	}
	for _, c := range []*color.Color{s.label, s.message, s.arrow} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// printDiagnostic writes err for the named input. Syntax errors get a
// location line and a code frame.
func printDiagnostic(w io.Writer, name string, err error, colored bool) {
	s := newStyles(colored)

	var se *typecake.SyntaxError
	if !errors.As(err, &se) {
		fmt.Fprintf(w, "%s %s: %v\n", s.label.Sprint("error:"), name, err)
		return
	}

	fmt.Fprintf(w, "%s %s\n", s.label.Sprint("error:"), s.message.Sprint(se.Message))
	fmt.Fprintf(w, "  %s %s:%d:%d\n", s.arrow.Sprint("-->"), name, se.Line(), se.Column())
	if frame, err := typecake.ErrorFrame(se, colored); err == nil {
		fmt.Fprintln(w, frame)
	}
}
