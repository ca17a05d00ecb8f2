// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"strings"
)

// CheckerReport is the result of one checker run over one API.
type CheckerReport struct {
	Kind BugKind
	// Duration of the checker run in seconds.
	Duration float64
	// Timeout is the per-variable time limit in seconds.
	// Only the Use-After-Return checker prints it.
	Timeout     float64
	NumAnalyzed uint64
	Bugs        []Bug
}

// parseCheckerReport parses the body of one "<Checker> Analysis Statistic" section.
// The header lines come first, followed by bug records each ending with a Duration line.
func parseCheckerReport(c *cursor, kind BugKind, ids *IDAllocator) (*CheckerReport, error) {
	cr := &CheckerReport{Kind: kind}
	var declared uint64
	declaredLine := 0
headers:
	for !c.done() {
		line := c.peek()
		if isFiller(line) {
			c.advance()
			continue
		}
		var err error
		switch {
		case firstWord(line) == "Time":
			c.advance()
			cr.Duration, err = parseFloat(c, "checker time", lastWord(line))
		case firstWord(line) == "Timeout":
			c.advance()
			cr.Timeout, err = parseFloat(c, "checker timeout", lastWord(line))
		case strings.HasPrefix(line, "Num analyzed"):
			c.advance()
			cr.NumAnalyzed, err = parseUint(c, "analyzed variables", lastWord(line))
		case strings.HasPrefix(line, "Num bugs found"):
			declaredLine = c.line()
			c.advance()
			declared, err = parseUint(c, "bugs found", lastWord(line))
		default:
			break headers
		}
		if err != nil {
			return nil, err
		}
	}
	if declaredLine == 0 {
		return nil, c.failf(ErrSectionNotFound, "no \"Num bugs found\" line in %v section", kind.Title())
	}
	for !c.onlyFiller() {
		rec, err := c.takeThrough("Duration", isDurationLine)
		if err != nil {
			return nil, err
		}
		bug, err := parseBug(rec, kind, ids)
		if err != nil {
			return nil, err
		}
		cr.Bugs = append(cr.Bugs, bug)
	}
	if uint64(len(cr.Bugs)) != declared {
		return nil, &ParseError{
			Line: declaredLine,
			Err: fmt.Errorf("%w: %v bugs declared, %v found",
				ErrBugCountMismatch, declared, len(cr.Bugs)),
		}
	}
	return cr, nil
}
