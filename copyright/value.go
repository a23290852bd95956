// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package copyright

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidValue is returned when a stored copyright entry is neither a
// string nor a list of strings
var ErrInvalidValue = errors.New("copyright must be a string or a list of strings")

// Value is a copyright notice as stored in a project's configuration: either a
// single line, or an ordered sequence of lines that are each corrected on
// their own
type Value struct {
	lines    []string
	sequence bool
}

// Single returns a Value holding exactly one line
func Single(line string) Value {
	return Value{lines: []string{line}}
}

// Sequence returns a Value holding an ordered list of lines. A sequence of one
// line is still a sequence and is stored back as a list.
func Sequence(lines ...string) Value {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Value{lines: cp, sequence: true}
}

// FromRaw converts an untyped configuration value into a Value.
//
// Supported inputs are a string, a []string, or a []interface{} whose
// elements are all strings (the shape HCL, JSON and YAML parsers produce).
func FromRaw(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, fmt.Errorf("%w: value is empty", ErrInvalidValue)
	case string:
		return Single(v), nil
	case Value:
		return v, nil
	}

	var lines []string
	if err := mapstructure.Decode(raw, &lines); err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}
	return Sequence(lines...), nil
}

// IsSequence reports whether the value is a list rather than a single string
func (v Value) IsSequence() bool { return v.sequence }

// Len returns the number of lines in the value
func (v Value) Len() int { return len(v.lines) }

// Lines returns a copy of the value's lines in order
func (v Value) Lines() []string {
	cp := make([]string, len(v.lines))
	copy(cp, v.lines)
	return cp
}

// Raw returns the value in the form a configuration store expects: a string
// for single values and a []string for sequences
func (v Value) Raw() interface{} {
	if v.sequence {
		return v.Lines()
	}
	if len(v.lines) == 0 {
		return ""
	}
	return v.lines[0]
}

// Equal reports whether both values have the same shape and lines
func (v Value) Equal(o Value) bool {
	if v.sequence != o.sequence || len(v.lines) != len(o.lines) {
		return false
	}
	for i := range v.lines {
		if v.lines[i] != o.lines[i] {
			return false
		}
	}
	return true
}

// String joins the lines with newlines, which is how a multi-line notice is
// rendered
func (v Value) String() string {
	return strings.Join(v.lines, "\n")
}
