// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"strings"
)

// cursor walks over a run of trimmed log lines.
// All section slicing in the package goes through takeUntil, so a sub-section
// is itself a cursor that knows the absolute log position of its lines.
type cursor struct {
	lines []string
	pos   int
	// first is the 0-based index of lines[0] in the whole log.
	first int
}

type matcher func(line string) bool

func newCursor(lines []string, first int) *cursor {
	return &cursor{
		lines: lines,
		first: first,
	}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

// peek returns the current line, or "" at the end of input.
func (c *cursor) peek() string {
	if c.done() {
		return ""
	}
	return c.lines[c.pos]
}

func (c *cursor) advance() {
	if !c.done() {
		c.pos++
	}
}

// next returns the current line and moves past it.
func (c *cursor) next() (string, bool) {
	if c.done() {
		return "", false
	}
	line := c.lines[c.pos]
	c.pos++
	return line, true
}

// line returns the 1-based log line number of the current line.
func (c *cursor) line() int {
	return c.first + c.pos + 1
}

func (c *cursor) rest() []string {
	return c.lines[c.pos:]
}

// takeUntil splits off the lines up to (not including) the first line accepted by match.
// The returned cursor covers that prefix and c is left at the matching line.
// If no line matches, a mandatory section fails with ErrSectionNotFound and
// an optional section yields an empty prefix leaving c untouched.
func (c *cursor) takeUntil(what string, match matcher, optional bool) (*cursor, error) {
	for i := c.pos; i < len(c.lines); i++ {
		if !match(c.lines[i]) {
			continue
		}
		sub := newCursor(c.lines[c.pos:i], c.first+c.pos)
		c.pos = i
		return sub, nil
	}
	if optional {
		return newCursor(nil, c.first+c.pos), nil
	}
	return nil, c.failf(ErrSectionNotFound, "no %q after this line", what)
}

// takeThrough is like a mandatory takeUntil, but the matching line is included
// in the returned cursor and c is left after it.
func (c *cursor) takeThrough(what string, match matcher) (*cursor, error) {
	sub, err := c.takeUntil(what, match, false)
	if err != nil {
		return nil, err
	}
	c.pos++
	sub.lines = c.lines[sub.first-c.first : c.pos]
	return sub, nil
}

// takeSection is like an optional takeUntil, but if nothing matches
// the section runs to the end of input.
func (c *cursor) takeSection(end matcher) *cursor {
	sub, _ := c.takeUntil("", end, true)
	if !c.done() && end(c.peek()) {
		return sub
	}
	sub = newCursor(c.rest(), c.first+c.pos)
	c.pos = len(c.lines)
	return sub
}

// takeBlock is like takeSection, but the current line is always part of the block,
// so end may also match the line that opens it.
func (c *cursor) takeBlock(end matcher) *cursor {
	start := c.pos
	c.advance()
	c.takeSection(end)
	return newCursor(c.lines[start:c.pos], c.first+start)
}

// onlyFiller says if no data lines are left.
func (c *cursor) onlyFiller() bool {
	for _, line := range c.rest() {
		if !isFiller(line) {
			return false
		}
	}
	return true
}

func (c *cursor) failf(err error, msg string, args ...interface{}) error {
	return &ParseError{
		Line: c.line(),
		Err:  fmt.Errorf("%w: %v", err, fmt.Sprintf(msg, args...)),
	}
}

// failAtf is like failf, but blames the previously consumed line.
func (c *cursor) failAtf(err error, msg string, args ...interface{}) error {
	pe := c.failf(err, msg, args...).(*ParseError)
	if c.pos > 0 {
		pe.Line--
	}
	return pe
}

func contains(marker string) matcher {
	return func(line string) bool {
		return strings.Contains(line, marker)
	}
}

func hasPrefix(marker string) matcher {
	return func(line string) bool {
		return strings.HasPrefix(line, marker)
	}
}

func anyOf(matchers ...matcher) matcher {
	return func(line string) bool {
		for _, m := range matchers {
			if m(line) {
				return true
			}
		}
		return false
	}
}
