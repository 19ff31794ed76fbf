// Package errs is ogma's error substrate: errors are plain data (a
// category tag plus source traces); rendering is a separate pure
// function over that data. This mirrors original_source/ogma's
// common/err.rs almost field-for-field.
package errs

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ogma-lang/ogma/internal/tag"
)

// Category classifies an Error for its header line. The inference loop's
// hard/soft routing uses Error.Hard, not the Category.
type Category uint8

const (
	Internal Category = iota
	Parsing
	UnknownCommand
	Semantics
	Type
	Evaluation
	Definitions
	Help
)

func (c Category) header() string {
	switch c {
	case Internal:
		return "Internal Error"
	case Parsing:
		return "Parsing Error"
	case UnknownCommand:
		return "Unknown Command"
	case Semantics:
		return "Semantics Error"
	case Type:
		return "Typing Error"
	case Evaluation:
		return "Evaluation Error"
	case Definitions:
		return "Definition Error"
	case Help:
		return "Help"
	default:
		return "Error"
	}
}

// Trace anchors one source span inside an Error.
type Trace struct {
	Loc    tag.Location
	Source string
	Desc   string // empty means no short description
	Start  int
	Len    int
}

// FromTag builds a Trace from a Tag plus an optional short description.
func FromTag(t tag.Tag, desc string) Trace {
	return Trace{Loc: t.Anchor, Source: t.Line, Desc: desc, Start: t.Start, Len: t.Len()}
}

func trace(t tag.Tag, desc string) []Trace { return []Trace{FromTag(t, desc)} }

// Error is ogma's ubiquitous error value: data, not a chain of wrapped
// causes. `Hard` signals to the inference loop that the error must
// propagate immediately rather than be retried as "try again with more
// type information".
type Error struct {
	Cat       Category
	Desc      string
	Traces    []Trace
	HelpMsg   string // empty means no help footer
	Hard      bool
	Cancelled bool // true iff this Error is the cooperative-cancellation sentinel (spec §5)
}

func (e *Error) Error() string {
	var b strings.Builder
	_ = e.Print(false, &b)
	return b.String()
}

// AddTrace appends a trace anchored at t with the given message (default
// "invoked here" when msg is empty), returning the receiver for chaining.
func (e *Error) AddTrace(t tag.Tag, msg string) *Error {
	if msg == "" {
		msg = "invoked here"
	}
	e.Traces = append(e.Traces, FromTag(t, msg))
	return e
}

// IsInferenceDepthError reports whether e is the `inference_depth` error.
func (e *Error) IsInferenceDepthError() bool {
	return strings.HasPrefix(e.Desc, "inference depth reached")
}

// Print renders the error to wtr. When colourize is true, categories,
// source lines, carets and the help footer are coloured with
// github.com/fatih/color; colour.NoColor is forced per call (rather than
// relying on package-global TTY auto-detection) so output stays
// deterministic regardless of the process's stdout.
func (e *Error) Print(colourize bool, wtr io.Writer) error {
	prevNoColor := color.NoColor
	color.NoColor = !colourize
	defer func() { color.NoColor = prevNoColor }()

	headerColour := color.New(color.FgHiRed)
	if e.Cat == Help {
		headerColour = color.New(color.FgHiYellow)
	}
	if _, err := headerColour.Fprint(wtr, e.Cat.header()); err != nil {
		return err
	}
	if _, err := color.New(color.FgHiWhite).Fprintf(wtr, ": %s\n", e.Desc); err != nil {
		return err
	}

	for _, tr := range e.Traces {
		if err := tr.print(wtr); err != nil {
			return err
		}
	}

	if e.HelpMsg != "" {
		if _, err := color.New(color.FgHiMagenta).Fprint(wtr, "--> help: "); err != nil {
			return err
		}
		if _, err := color.New(color.FgYellow).Fprintf(wtr, "%s\n", e.HelpMsg); err != nil {
			return err
		}
	}
	return nil
}

func (tr Trace) print(wtr io.Writer) error {
	var lines []codeLine
	if tr.Len > 0 {
		lines = traceCodeLines(tr.Source, tr.Start, tr.Start+tr.Len)
	} else {
		for _, l := range strings.Split(tr.Source, "\n") {
			lines = append(lines, codeLine{text: l})
		}
	}

	pos := 0
	if len(lines) > 0 {
		pos = lines[0].start
	}
	loc := "shell"
	if tr.Loc != nil {
		loc = tr.Loc.String()
	}
	if _, err := color.New(color.FgHiMagenta).Fprintf(wtr, "--> %s:%d\n", loc, pos); err != nil {
		return err
	}

	for _, l := range lines {
		if _, err := color.New(color.FgHiMagenta).Fprint(wtr, " | "); err != nil {
			return err
		}
		if _, err := color.New(color.FgWhite).Fprintf(wtr, "%s\n", l.text); err != nil {
			return err
		}
	}

	min, max := 10_000, 0
	for _, l := range lines {
		if l.start < min {
			min = l.start
		}
		if l.end > max {
			max = l.end
		}
	}

	if min < max {
		if _, err := color.New(color.FgHiMagenta).Fprint(wtr, " | "); err != nil {
			return err
		}
		if _, err := fmt.Fprint(wtr, strings.Repeat(" ", min)); err != nil {
			return err
		}
		carets := strings.Repeat("^", max-min)
		if _, err := color.New(color.FgHiRed).Fprint(wtr, carets); err != nil {
			return err
		}
		if tr.Desc != "" {
			if _, err := color.New(color.FgHiRed).Fprintf(wtr, " %s", tr.Desc); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(wtr); err != nil {
			return err
		}
	}

	return nil
}

type codeLine struct {
	text       string
	start, end int
}

// traceCodeLines returns the lines of code intersecting the byte range
// [start, end), with per-line visible start/end columns (tabs count as 4
// columns; a continuation line's visible start is measured from its own
// leading whitespace). Ported from original_source/ogma's
// `trace_code_lines`, including its five unit-tested edge cases.
func traceCodeLines(code string, start, end int) []codeLine {
	var out []codeLine

	offset := 0
	for _, line := range strings.Split(code, "\n") {
		lineStart := offset
		lineEnd := lineStart + len(line)
		offset = lineEnd + 1 // account for the '\n' this split consumed

		if lineEnd < start || lineStart >= end {
			continue
		}

		adjStart := lineStart <= start
		adjEnd := lineEnd >= end

		var s int
		if adjStart {
			s = tabWidth(line, start-lineStart)
		} else {
			s = leadingWhitespaceWidth(line)
		}

		var e int
		switch {
		case adjEnd:
			e = tabWidth(line, end-lineStart)
		case lineEnd == start:
			e = s + 1
		default:
			trimmed := strings.TrimRight(line, " \t\r")
			e = tabWidth(trimmed, len(trimmed))
		}

		out = append(out, codeLine{text: line, start: s, end: e})
	}

	return out
}

// tabWidth sums the visible-column width of the runes of s[:upto]
// (upto is a byte offset into s, clamped to len(s)), counting a tab as 4
// columns and every other rune as 1.
func tabWidth(s string, upto int) int {
	if upto > len(s) {
		upto = len(s)
	}
	if upto < 0 {
		upto = 0
	}
	width := 0
	for _, r := range s[:upto] {
		if r == '\t' {
			width += 4
		} else {
			width++
		}
	}
	return width
}

func leadingWhitespaceWidth(s string) int {
	width := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		if r == '\t' {
			width += 4
		} else {
			width++
		}
	}
	return width
}
