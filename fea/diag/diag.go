// seehuhn.de/go/otfea - a compiler for the OpenType Feature File language
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package diag collects and formats the errors and warnings produced
// while compiling a parse tree.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"seehuhn.de/go/otfea/fea/ast"
)

// Kind distinguishes a fatal problem from an informational one.
type Kind int

const (
	// Error indicates the parse tree cannot be compiled as given;
	// [Bag.Err] returns a non-nil error whenever a Bag holds at least
	// one Error-kind entry.
	Error Kind = iota
	// Warning flags a suspicious but compilable construct, e.g. a
	// duplicate rule or a lookup that matches no glyphs.
	Warning
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single compiler message, anchored at a byte range in
// a source file.
type Diagnostic struct {
	Kind    Kind
	Pos     ast.Pos
	Message string
}

// lineCol turns a byte offset into a 1-based (line, column) pair.
func lineCol(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	line = 1
	lastNL := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNL = i
		}
	}
	col = offset - lastNL
	return line, col
}

// String formats the diagnostic as "file:line:col: kind: message". If
// the diagnostic carries no file, "<input>" is used in its place.
func (d Diagnostic) String() string {
	name := "<input>"
	line, col := 1, 1
	if d.Pos.File != nil {
		if d.Pos.File.Name != "" {
			name = d.Pos.File.Name
		}
		line, col = lineCol(d.Pos.File.Text, d.Pos.Start)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, line, col, d.Kind, d.Message)
}

// Bag accumulates diagnostics over the course of a compilation run. The
// zero value is ready to use.
type Bag struct {
	entries []Diagnostic
}

// Errorf records an Error-kind diagnostic at pos.
func (b *Bag) Errorf(pos ast.Pos, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{Kind: Error, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a Warning-kind diagnostic at pos.
func (b *Bag) Warnf(pos ast.Pos, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{Kind: Warning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any Error-kind diagnostic has been
// recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Kind == Error {
			return true
		}
	}
	return false
}

// All returns every recorded diagnostic, in the order it was recorded.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.entries))
	copy(out, b.entries)
	return out
}

// Err returns an error summarizing every recorded diagnostic, sorted by
// source position, or nil if the bag holds no Error-kind diagnostic.
func (b *Bag) Err() error {
	if !b.HasErrors() {
		return nil
	}
	sorted := b.All()
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Pos, sorted[j].Pos
		if pi.File != pj.File {
			return fmt.Sprintf("%p", pi.File) < fmt.Sprintf("%p", pj.File)
		}
		return pi.Start < pj.Start
	})
	var b2 strings.Builder
	for i, d := range sorted {
		if i > 0 {
			b2.WriteByte('\n')
		}
		b2.WriteString(d.String())
	}
	return &CompileError{Diagnostics: sorted, text: b2.String()}
}

// CompileError is the error type returned by [Bag.Err].
type CompileError struct {
	Diagnostics []Diagnostic
	text        string
}

// Error implements the error interface.
func (e *CompileError) Error() string { return e.text }
