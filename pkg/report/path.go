// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"math"
	"regexp"
	"strings"
)

// Arrows are checked in order, so longer arrows must come before their prefixes.
var pathArrows = []struct {
	arrow string
	edge  EdgeKind
}{
	{"===>", EdgeDirectCall},
	{"--->", EdgeIndirectCall},
	{"<===", EdgeDirectReturn},
	{"<---", EdgeIndirectReturn},
	{"++>", EdgeFlowForward},
	{"<++", EdgeFlowBackward},
	{"->", EdgeCall},
}

// LLVM appends ".N" to cloned function names.
var cloneSuffixRe = regexp.MustCompile(`\.\d*$`)

// parsePath decodes the lines of one drawn call path.
// Depth is encoded as a run of "." tokens in front of the arrow.
func parsePath(c *cursor) []PathStep {
	var path []PathStep
	for !c.done() {
		line, _ := c.next()
		// A lone "+" frames an assignment step.
		if isFiller(line) || strings.Count(line, "+") == 1 {
			continue
		}
		line = cloneSuffixRe.ReplaceAllString(line, "")
		fields := strings.Fields(line)
		depth := 0
		for depth < len(fields) && fields[depth] == "." {
			depth++
		}
		fields = fields[depth:]
		if len(fields) == 0 {
			continue
		}
		step := PathStep{Depth: depth}
		for _, a := range pathArrows {
			if fields[0] == a.arrow {
				step.Edge = a.edge
				step.Depth++
				fields = fields[1:]
				break
			}
		}
		step.Text = strings.Join(fields, " ")
		path = append(path, step)
	}
	return path
}

// parseLocationMap decodes lines of the form "- <func> <file> (ln: <line>)".
// Lines that do not start with a "-" token are ignored.
func parseLocationMap(c *cursor) (LocationMap, error) {
	locs := make(LocationMap)
	for !c.done() {
		line, _ := c.next()
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "-" {
			continue
		}
		if len(fields) < 5 {
			return nil, c.failAtf(ErrMalformedLocationEntry, "want 5 tokens, got %v", len(fields))
		}
		lineNo, err := parseLineNumber(c, fields[4][:len(fields[4])-1])
		if err != nil {
			return nil, err
		}
		locs[fields[1]] = Location{
			Function: fields[1],
			File:     fields[2],
			Line:     lineNo,
		}
	}
	return locs, nil
}

func parseLineNumber(c *cursor, token string) (uint32, error) {
	v, err := parseUint(c, "line", token)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, c.failAtf(ErrMalformedNumericField, "line: %v is out of range", v)
	}
	return uint32(v), nil
}
