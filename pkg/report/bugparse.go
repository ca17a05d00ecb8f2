// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"math"
	"strconv"
	"strings"
)

// recordFormat describes the shape of one bug record.
// A record is a list of points, each opened by a marker line and filled by
// File/Function/Line/Name lines, then the terminator line, then a number of
// drawn paths, an optional function location map and the Duration line.
type recordFormat struct {
	// points[i] lists the markers that open the i-th point.
	points     [][]string
	terminator string
	numPaths   int
	// pathEnds[i] is the marker that ends the i-th path section.
	// Sections past the end of the list run up to the Duration line.
	pathEnds []string
	locMap   bool
	build    func(vars []Var, paths [][]PathStep, marker string) Bug
}

const (
	neverFreeMarker   = "Never Free at"
	partialLeakMarker = "Partial Leak at"
)

var srcSinkPathEnds = []string{"PATH TO FIRST SINK", "PATH TO SECOND SINK", "FUNCTION-LOCATION MAP"}

var recordFormats = map[BugKind]*recordFormat{
	UseAfterFree: {
		points:     [][]string{{"SOURCE"}, {"FIRST SINK"}, {"SECOND SINK"}},
		terminator: "API TO SOURCE",
		numPaths:   3,
		pathEnds:   srcSinkPathEnds,
		locMap:     true,
		build: func(vars []Var, paths [][]PathStep, _ string) Bug {
			return &UAFBug{
				DanglingPtr: vars[0],
				Free:        vars[1],
				Use:         vars[2],
				APIPath:     paths[0],
				FreePath:    paths[1],
				UsePath:     paths[2],
			}
		},
	},
	UseAfterReturn: {
		points:     [][]string{{"DANGLING POINTER"}, {"LOCAL VARIABLE"}},
		terminator: "API TO LOCALVAR",
		numPaths:   3,
		pathEnds:   []string{"LOCALVAR TO OUTOFSCOPE", "DANGLINGPTR TO OUTOFSCOPE", "FUNCTION-LOCATION MAP"},
		locMap:     true,
		build: func(vars []Var, paths [][]PathStep, _ string) Bug {
			return &UARBug{
				DanglingPtr:     vars[0],
				LocalVar:        vars[1],
				APIPath:         paths[0],
				LocalVarPath:    paths[1],
				DanglingPtrPath: paths[2],
			}
		},
	},
	DoubleFree: {
		points:     [][]string{{"SOURCE"}, {"FIRST SINK"}, {"SECOND SINK"}},
		terminator: "API TO SOURCE",
		numPaths:   3,
		pathEnds:   srcSinkPathEnds,
		locMap:     true,
		build: func(vars []Var, paths [][]PathStep, _ string) Bug {
			return &DoubleFreeBug{
				DanglingPtr: vars[0],
				Free1:       vars[1],
				Free2:       vars[2],
				APIPath:     paths[0],
				Free1Path:   paths[1],
				Free2Path:   paths[2],
			}
		},
	},
	MemoryLeak: {
		points:     [][]string{{neverFreeMarker, partialLeakMarker}},
		terminator: "API TO SOURCE",
		numPaths:   1,
		build: func(vars []Var, paths [][]PathStep, marker string) Bug {
			return &MemLeakBug{
				LeakPtr:   vars[0],
				NeverFree: marker == neverFreeMarker,
				APIPath:   paths[0],
			}
		},
	},
	DoubleLock: {
		points:     [][]string{{"SOURCE"}, {"FIRST SINK"}, {"SECOND SINK"}},
		terminator: "API TO SOURCE",
		numPaths:   3,
		pathEnds:   srcSinkPathEnds,
		locMap:     true,
		build: func(vars []Var, paths [][]PathStep, _ string) Bug {
			return &DoubleLockBug{
				Lock:      vars[0],
				Lock1:     vars[1],
				Lock2:     vars[2],
				APIPath:   paths[0],
				Lock1Path: paths[1],
				Lock2Path: paths[2],
			}
		},
	},
}

var isDurationLine = hasPrefix("Duration")

// parseBug parses one bug record of the given kind.
// The record must end with its Duration line.
func parseBug(c *cursor, kind BugKind, ids *IDAllocator) (Bug, error) {
	f := recordFormats[kind]
	vars, marker, err := parsePoints(c, f)
	if err != nil {
		return nil, err
	}
	// Skip the terminator.
	c.advance()
	paths := make([][]PathStep, f.numPaths)
	for i := range paths {
		what, end := "Duration", isDurationLine
		if i < len(f.pathEnds) {
			what, end = f.pathEnds[i], contains(f.pathEnds[i])
		}
		sub, err := c.takeUntil(what, end, false)
		if err != nil {
			return nil, err
		}
		paths[i] = parsePath(sub)
		if i < len(f.pathEnds) {
			c.advance()
		}
	}
	var locs LocationMap
	if f.locMap {
		sub, err := c.takeUntil("Duration", isDurationLine, false)
		if err != nil {
			return nil, err
		}
		if locs, err = parseLocationMap(sub); err != nil {
			return nil, err
		}
	}
	if !isDurationLine(c.peek()) {
		return nil, c.failf(ErrSectionNotFound, "no Duration line")
	}
	line, _ := c.next()
	duration, timedOut, err := parseDuration(c, line)
	if err != nil {
		return nil, err
	}
	for !c.done() {
		if line, _ := c.next(); !isFiller(line) {
			return nil, c.failAtf(ErrIncompleteBugRecord, "unexpected line after Duration: %q", line)
		}
	}
	bug := f.build(vars, paths, marker)
	*bug.Info() = BugInfo{
		ID:        ids.Next(),
		Status:    NotChecked,
		Locations: locs,
		Duration:  duration,
		TimedOut:  timedOut,
	}
	return bug, nil
}

// parsePoints consumes the record up to the terminator line and returns the
// variables bound to the points, and the marker that opened the first point.
func parsePoints(c *cursor, f *recordFormat) ([]Var, string, error) {
	vars := make([]Var, len(f.points))
	open, marker := -1, ""
	for {
		if c.done() {
			return nil, "", c.failf(ErrSectionNotFound, "no %q line", f.terminator)
		}
		line := c.peek()
		if field := firstWord(line); isLocationField(field) {
			c.advance()
			if open < 0 {
				return nil, "", c.failAtf(ErrIncompleteBugRecord, "%v line before any record point", field)
			}
			if err := setLocationField(c, &vars[open], field, line); err != nil {
				return nil, "", err
			}
			continue
		}
		if strings.Contains(line, f.terminator) {
			if open != len(f.points)-1 {
				return nil, "", c.failf(ErrIncompleteBugRecord, "%q before %q",
					f.terminator, f.points[open+1][0])
			}
			return vars, marker, nil
		}
		c.advance()
		for i, markers := range f.points {
			m := matchedMarker(line, markers)
			if m == "" {
				continue
			}
			if i != open+1 {
				return nil, "", c.failAtf(ErrIncompleteBugRecord, "unexpected %q", m)
			}
			open = i
			if i == 0 {
				marker = m
			}
			break
		}
	}
}

func matchedMarker(line string, markers []string) string {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return m
		}
	}
	return ""
}

func isLocationField(word string) bool {
	switch word {
	case "File", "Function", "Line", "Name":
		return true
	}
	return false
}

// setLocationField stores one "<Field> <value>" line of a record point.
// The analyzer prints a field without a value when it is unknown.
func setLocationField(c *cursor, v *Var, field, line string) error {
	value := ""
	if len(strings.Fields(line)) > 1 {
		value = lastWord(line)
	}
	switch field {
	case "File":
		v.Loc.File = value
	case "Function":
		v.Loc.Function = value
	case "Name":
		v.Name = value
	case "Line":
		if value == "" {
			return c.failAtf(ErrMalformedNumericField, "Line without a value")
		}
		line, err := parseLineNumber(c, value)
		if err != nil {
			return err
		}
		v.Loc.Line = line
	}
	return nil
}

// parseDuration parses "Duration (sec) <n>" and "Duration=<n>" lines.
// The analyzer prints "timeout" instead of the number if it gave up on the bug.
func parseDuration(c *cursor, line string) (float64, bool, error) {
	token := lastWord(line)
	if i := strings.LastIndexByte(token, '='); i >= 0 {
		token = token[i+1:]
	}
	if token == "timeout" {
		return 0, true, nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, c.failAtf(ErrMalformedDuration, "%q is not a non-negative number", token)
	}
	return v, false, nil
}
