// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package copyright

import (
	"regexp"
	"strconv"

	"github.com/samber/lo"
)

// Shape identifies which of the recognized copyright line layouts a line uses
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeRangeCommaAuthor
	ShapeRangeSpaceAuthor
	ShapeRange
	ShapeSingleCommaAuthor
	ShapeSingleSpaceAuthor
	ShapeSingle
)

var shapeNames = map[Shape]string{
	ShapeUnrecognized:      "unrecognized",
	ShapeRangeCommaAuthor:  "range, author",
	ShapeRangeSpaceAuthor:  "range author",
	ShapeRange:             "range",
	ShapeSingleCommaAuthor: "year, author",
	ShapeSingleSpaceAuthor: "year author",
	ShapeSingle:            "year",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// matcher recognizes one line shape. Every pattern has exactly three groups:
// the text kept before the year, the year being replaced, and the text kept
// after it.
type matcher struct {
	shape   Shape
	pattern *regexp.Regexp
}

// Order matters: range shapes must be tried before single-year shapes, and
// the first match wins.
var matchers = []matcher{
	{ShapeRangeCommaAuthor, regexp.MustCompile(`(?s)^(\d{4}-)(\d{4})(,.*)$`)},
	{ShapeRangeSpaceAuthor, regexp.MustCompile(`(?s)^(\d{4}-)(\d{4})( .*)$`)},
	{ShapeRange, regexp.MustCompile(`^(\d{4}-)(\d{4})()$`)},
	{ShapeSingleCommaAuthor, regexp.MustCompile(`(?s)^()(\d{4})(,.*)$`)},
	{ShapeSingleSpaceAuthor, regexp.MustCompile(`(?s)^()(\d{4})( .*)$`)},
	{ShapeSingle, regexp.MustCompile(`^()(\d{4})()$`)},
}

// split returns the shape of a line along with the text surrounding its
// trailing year. ok is false for lines that match no shape.
func split(line string) (shape Shape, prefix string, suffix string, ok bool) {
	for _, m := range matchers {
		groups := m.pattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		return m.shape, groups[1], groups[3], true
	}
	return ShapeUnrecognized, "", "", false
}

// Match returns the shape of a copyright line, or ShapeUnrecognized
func Match(line string) Shape {
	shape, _, _, _ := split(line)
	return shape
}

// CorrectLine replaces the trailing year of a copyright line with year. The
// start year of a range and anything after the year are kept verbatim. Lines
// that match no recognized shape are returned unchanged.
func CorrectLine(line string, year int) string {
	_, prefix, suffix, ok := split(line)
	if !ok {
		return line
	}
	return prefix + strconv.Itoa(year) + suffix
}

// Correct returns a new Value of the same shape as v with every line's
// trailing year set to year. v itself is not modified.
func Correct(v Value, year int) Value {
	lines := lo.Map(v.lines, func(line string, _ int) string {
		return CorrectLine(line, year)
	})
	return Value{lines: lines, sequence: v.sequence}
}

// Change describes the correction applied to a single line
type Change struct {
	Index  int
	Shape  Shape
	Before string
	After  string
}

// Modified reports whether the line was rewritten
func (c Change) Modified() bool {
	return c.Before != c.After
}

// Diff pairs up the lines of a value before and after correction. Lines are
// matched by position, so both values are expected to have the same length;
// any extra lines in either are ignored.
func Diff(before, after Value) []Change {
	n := before.Len()
	if after.Len() < n {
		n = after.Len()
	}
	changes := make([]Change, 0, n)
	for i := 0; i < n; i++ {
		changes = append(changes, Change{
			Index:  i,
			Shape:  Match(before.lines[i]),
			Before: before.lines[i],
			After:  after.lines[i],
		})
	}
	return changes
}

// Changed reports whether correcting before produced a different value
func Changed(before, after Value) bool {
	return !before.Equal(after)
}
