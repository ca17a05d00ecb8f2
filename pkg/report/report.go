// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package report parses the text output of the KMiner kernel static analyzer
// into per-API reports and aggregates them into per-kernel corpora.
package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Report is the analysis result for one API (system call or driver).
type Report struct {
	API     APIKind
	Name    string
	Threads uint64
	// Checkers holds the checker sections present in the report.
	// A missing entry means that the checker did not run for the API.
	Checkers    map[BugKind]*CheckerReport
	SystemInfo  *SystemInfo
	Partitioner *PartitionerStat
	// Blacklist and DeleteFunctions are sorted sets of function names.
	Blacklist       []string
	DeleteFunctions []string
	TotalDuration   float64
	Comments        []*Comment
}

// noName is the key of reports that do not name their API.
const noName = "NA"

// Key returns the identity of the report in a corpus.
func (rep *Report) Key() string {
	if rep.API == APIUnknown || rep.Name == "" {
		return noName
	}
	return rep.Name
}

func (rep *Report) NumBugs() int {
	n := 0
	for _, cr := range rep.Checkers {
		n += len(cr.Bugs)
	}
	return n
}

func (rep *Report) NumBugsOf(kind BugKind) int {
	if kind == AllKinds {
		return rep.NumBugs()
	}
	if cr := rep.Checkers[kind]; cr != nil {
		return len(cr.Bugs)
	}
	return 0
}

// Bugs returns all bugs of the report in checker order.
func (rep *Report) Bugs() []Bug {
	var bugs []Bug
	for _, kind := range BugKinds {
		if cr := rep.Checkers[kind]; cr != nil {
			bugs = append(bugs, cr.Bugs...)
		}
	}
	return bugs
}

// Matches says if the report has a bug with the given ID,
// or a bug whose main variable is in the given function.
func (rep *Report) Matches(query string) bool {
	id, idErr := strconv.ParseUint(query, 10, 64)
	for _, bug := range rep.Bugs() {
		if idErr == nil && bug.Info().ID == id {
			return true
		}
		if bug.Object().Loc.Function == query {
			return true
		}
		if uar, ok := bug.(*UARBug); ok && uar.LocalVar.Loc.Function == query {
			return true
		}
	}
	return false
}

func (rep *Report) AddComment(comment *Comment) {
	rep.Comments = append(rep.Comments, comment)
}

// ParseReport parses the lines of one API report, without the REPORT banner.
func ParseReport(data []byte, ids *IDAllocator) (*Report, error) {
	return parseReport(newCursor(splitLines(data), 0), ids)
}

var isCheckerStart = contains("Analysis Statistic")

// tailSection is one of the sections that follow the checker sections.
type tailSection struct {
	start matcher
	parse func(c *cursor, rep *Report) error
}

// tailSections are listed in the order the analyzer prints them.
var tailSections = []tailSection{
	{contains("System Info"), func(c *cursor, rep *Report) (err error) {
		rep.SystemInfo, err = parseSystemInfo(c)
		return
	}},
	{contains("Partitioner Statistic"), func(c *cursor, rep *Report) (err error) {
		rep.Partitioner, err = parsePartitionerStat(c, rep.API)
		return
	}},
	{contains("Blacklisted"), func(c *cursor, rep *Report) error {
		rep.Blacklist = parseNameList(c)
		return nil
	}},
	{contains("Sinks"), func(c *cursor, rep *Report) error {
		rep.DeleteFunctions = parseNameList(c)
		return nil
	}},
	{hasPrefix("Total"), func(c *cursor, rep *Report) (err error) {
		line, _ := c.next()
		if rep.TotalDuration, err = parseFloat(c, "total time", lastWord(line)); err != nil {
			return err
		}
		// Total is the last section, only rules may follow it.
		for !c.done() && isFiller(c.peek()) {
			c.advance()
		}
		if !c.done() {
			return c.failf(ErrSectionOrder, "%q after total time", c.peek())
		}
		return nil
	}},
}

// startOfAny matches the first line of any of the sections.
func startOfAny(sections []tailSection, more ...matcher) matcher {
	for _, s := range sections {
		more = append(more, s.start)
	}
	return anyOf(more...)
}

// parseReport parses sections in the order the analyzer prints them.
// Only the general info section is mandatory, any other section may be missing.
// Reports with unknown API kind are returned after the general info section,
// they are never added to a corpus.
func parseReport(c *cursor, ids *IDAllocator) (*Report, error) {
	rep := &Report{
		Checkers: make(map[BugKind]*CheckerReport),
	}
	sectionEnd := startOfAny(tailSections, isCheckerStart)
	if err := parseGeneralInfo(c.takeSection(sectionEnd), rep); err != nil {
		return nil, err
	}
	if rep.API == APIUnknown {
		return rep, nil
	}
	for _, kind := range BugKinds {
		if !strings.Contains(c.peek(), kind.Title()+" Analysis Statistic") {
			continue
		}
		c.advance()
		var err error
		if rep.Checkers[kind], err = parseCheckerReport(c.takeSection(sectionEnd), kind, ids); err != nil {
			return nil, err
		}
	}
	if isCheckerStart(c.peek()) {
		return nil, c.failf(ErrSectionOrder, "%q", c.peek())
	}
	for _, section := range tailSections {
		if !section.start(c.peek()) {
			continue
		}
		if err := section.parse(c.takeBlock(sectionEnd), rep); err != nil {
			return nil, err
		}
	}
	if !c.onlyFiller() {
		return nil, c.failf(ErrSectionOrder, "%q", c.peek())
	}
	return rep, nil
}

func parseGeneralInfo(c *cursor, rep *Report) error {
	nameKind, nameLine := APIUnknown, 0
	for !c.done() {
		line, _ := c.next()
		switch {
		case firstWord(line) == "API":
			switch lastWord(line) {
			case "SYSCALL":
				rep.API = APISyscall
			case "DRIVER":
				rep.API = APIDriver
			}
		case strings.HasPrefix(line, "System call"):
			rep.Name, nameKind, nameLine = labelValue(line, "System call"), APISyscall, c.line()-1
		case strings.HasPrefix(line, "Driver"):
			rep.Name, nameKind, nameLine = labelValue(line, "Driver"), APIDriver, c.line()-1
		case strings.HasPrefix(line, "Num Threads"):
			var err error
			if rep.Threads, err = parseUint(c, "threads", lastWord(line)); err != nil {
				return err
			}
		}
	}
	switch {
	case rep.API == APIUnknown:
		// Incomplete header, the report is dropped whether it has a name or not.
	case rep.Name == "":
		return c.failf(ErrSectionNotFound, "no %v name in general info", rep.API)
	case nameKind != rep.API:
		return &ParseError{
			Line: nameLine,
			Err:  fmt.Errorf("%w: %v name in %v report", ErrInconsistentAPIKind, nameKind, rep.API),
		}
	}
	return nil
}
