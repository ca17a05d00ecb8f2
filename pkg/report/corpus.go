// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/kminer/kminer-reports/pkg/log"
	"github.com/kminer/kminer-reports/pkg/osutil"
)

// KernelReport is the corpus of API reports produced by one analyzer run over one kernel.
// After parsing it is modified only by SetStatus and DeleteBug.
// Methods are not safe for concurrent use.
type KernelReport struct {
	Version string
	Module  string
	// Reports are keyed by Report.Key.
	Reports map[string]*Report
	// Failures lists report blocks excluded from the corpus because they failed to parse.
	Failures []*BlockError

	keys        []string
	corruptions map[BugKind][]Bug
}

// DefaultVersion is used if the module name does not contain a version.
const DefaultVersion = "v0.0"

var versionRe = regexp.MustCompile(`v\d.*\.`)

// ParseFile reads and parses an analyzer log. Files ending with .xz are decompressed.
func ParseFile(file string, ids *IDAllocator) (*KernelReport, error) {
	data, err := osutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w %v: %w", ErrIO, file, err)
	}
	kr := Parse(data, ids)
	log.Logf(1, "%v: module %v, %v reports, %v failed blocks",
		file, kr.Module, len(kr.Reports), len(kr.Failures))
	return kr, nil
}

// Parse parses a whole analyzer log.
// A block that fails to parse is excluded from the result and recorded in Failures.
func Parse(data []byte, ids *IDAllocator) *KernelReport {
	return ParseLines(splitLines(data), ids)
}

// ParseLines is like Parse, but accepts the log split into lines.
func ParseLines(lines []string, ids *IDAllocator) *KernelReport {
	kr := &KernelReport{
		Reports: make(map[string]*Report),
	}
	start := 0
	for i, line := range lines {
		if !strings.Contains(line, "REPORT") {
			continue
		}
		kr.addBlock(lines[start:i], start, ids)
		start = i + 1
	}
	kr.addBlock(lines[start:], start, ids)
	kr.keys = slices.Sorted(maps.Keys(kr.Reports))
	return kr
}

// addBlock parses the lines between two REPORT banners.
// first is the 0-based log index of the first line of the block.
func (kr *KernelReport) addBlock(raw []string, first int, ids *IDAllocator) {
	lines := make([]string, len(raw))
	var moduleErr error
	for i, line := range raw {
		line = strings.TrimSpace(line)
		if fields := strings.Fields(line); len(fields) == 2 && fields[0] == "Module" {
			// Module lines are consumed here, the report parser sees a blank line.
			if err := kr.setModule(fields[1]); err != nil && moduleErr == nil {
				moduleErr = &ParseError{Line: first + i + 1, Err: err}
			}
			line = ""
		}
		lines[i] = line
	}
	c := newCursor(lines, first)
	if c.onlyFiller() {
		return
	}
	if moduleErr != nil {
		kr.fail(first, moduleErr)
		return
	}
	rep, err := parseReport(c, ids)
	if err != nil {
		kr.fail(first, err)
		return
	}
	if rep.API == APIUnknown {
		statDropped.Add(1)
		log.Logf(1, "dropping report block at line %v: unknown API kind", first+1)
		return
	}
	key := rep.Key()
	if kr.Reports[key] != nil {
		log.Logf(1, "report %v at line %v replaces an earlier one", key, first+1)
	}
	kr.Reports[key] = rep
	recordReportStats(rep)
	log.Logf(2, "parsed %v report %v: %v bugs", rep.API, key, rep.NumBugs())
}

func (kr *KernelReport) setModule(name string) error {
	if kr.Module != "" && kr.Module != name {
		return fmt.Errorf("%w: module %v, earlier blocks are from %v",
			ErrInconsistentModuleIdentity, name, kr.Module)
	}
	kr.Module = name
	kr.Version = DefaultVersion
	if v := versionRe.FindString(name); v != "" {
		kr.Version = v[:len(v)-1]
	}
	return nil
}

func (kr *KernelReport) fail(first int, err error) {
	blockErr := &BlockError{Line: first + 1, Err: err}
	kr.Failures = append(kr.Failures, blockErr)
	statFailures.Add(1)
	log.Errorf("%v", blockErr)
}
