// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"slices"
	"strings"
)

// SystemInfo describes the machine the analyzer ran on.
type SystemInfo struct {
	KernelName    string
	KernelRelease string
	KernelVersion string
	Processor     string
	NumCores      uint64
	// Memory in kB. Old analyzer versions print only MemTotal.
	MemUsage    uint64
	MemMaxUsage uint64
	MemTotal    uint64
}

func parseSystemInfo(c *cursor) (*SystemInfo, error) {
	info := new(SystemInfo)
	for !c.done() {
		line, _ := c.next()
		var err error
		switch {
		case strings.HasPrefix(line, "Kernel Name"):
			info.KernelName = labelValue(line, "Kernel Name")
		case strings.HasPrefix(line, "Kernel Release"):
			info.KernelRelease = labelValue(line, "Kernel Release")
		case strings.HasPrefix(line, "Kernel Version"):
			// The version string does not fit the column and is printed on the next line.
			if info.KernelVersion = labelValue(line, "Kernel Version"); info.KernelVersion == "" &&
				!c.done() && !isFiller(c.peek()) && !isSystemInfoLabel(c.peek()) {
				info.KernelVersion, _ = c.next()
			}
		case strings.HasPrefix(line, "Processor"):
			info.Processor = labelValue(line, "Processor")
		case strings.HasPrefix(line, "Num Cores"):
			info.NumCores, err = parseUint(c, "cores", lastWord(line))
		case strings.Contains(line, "Total-Mem"):
			err = parseMemTriple(c, info, lastWord(line))
		case strings.HasPrefix(line, "MemTotal"):
			info.MemTotal, err = parseUint(c, "total memory", lastWord(line))
		}
		if err != nil {
			return nil, err
		}
	}
	return info, nil
}

var systemInfoLabels = []string{
	"Kernel Name", "Kernel Release", "Kernel Version", "Processor", "Num Cores", "MemTotal",
}

func isSystemInfoLabel(line string) bool {
	if strings.Contains(line, "Total-Mem") {
		return true
	}
	for _, label := range systemInfoLabels {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}

func parseMemTriple(c *cursor, info *SystemInfo, token string) error {
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return c.failAtf(ErrMalformedNumericField, "memory: want used/max/total, got %q", token)
	}
	dst := []*uint64{&info.MemUsage, &info.MemMaxUsage, &info.MemTotal}
	for i, part := range parts {
		v, err := parseUint(c, "memory", part)
		if err != nil {
			return err
		}
		*dst[i] = v
	}
	return nil
}

func labelValue(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

// Count is a partitioner table cell pair.
type Count struct {
	// Relevant is the number left after the kernel was sliced for the API.
	Relevant uint64
	Original uint64
}

// PartitionerStat describes how much of the kernel the partitioner kept.
type PartitionerStat struct {
	API APIKind

	Initcalls         Count
	InitcallFuncs     Count
	InitcallGlobals   Count
	InitcallUndefined Count
	InitcallCGDepth   Count

	APIFuncs   Count
	APIGlobals Count
	APICGDepth Count

	KernelFuncs   Count
	KernelGlobals Count

	InitcallFuncLimit uint64
	APIFuncLimit      uint64
}

// parsePartitionerStat parses the partitioner table:
//
//	Initcalls |                       |   12|   40
//	          | Functions             |  300| 9000
//	...
//	API       | Functions             |  100| 9000
//	Kernel    | Functions             | 1200| 9000
//
// The first column names the table group and is only printed on its first row.
func parsePartitionerStat(c *cursor, api APIKind) (*PartitionerStat, error) {
	p := &PartitionerStat{API: api}
	cells := map[string]*Count{
		"Initcalls/":                      &p.Initcalls,
		"Initcalls/Functions":             &p.InitcallFuncs,
		"Initcalls/Global Variables":      &p.InitcallGlobals,
		"Initcalls/Non Defined Variables": &p.InitcallUndefined,
		"Initcalls/Call Graph Depth":      &p.InitcallCGDepth,
		"API/Functions":                   &p.APIFuncs,
		"API/Global Variables":            &p.APIGlobals,
		"API/Call Graph Depth":            &p.APICGDepth,
		"Kernel/Functions":                &p.KernelFuncs,
		"Kernel/Global Variables":         &p.KernelGlobals,
	}
	group := ""
	for !c.done() {
		line, _ := c.next()
		var err error
		switch {
		case strings.HasPrefix(line, "API Function Limit"):
			p.APIFuncLimit, err = parseUint(c, "API function limit", lastWord(line))
		case strings.HasPrefix(line, "Initcall Function Limit"):
			p.InitcallFuncLimit, err = parseUint(c, "initcall function limit", lastWord(line))
		case strings.Contains(line, "|"):
			cols := strings.Split(line, "|")
			if len(cols) < 4 {
				return nil, c.failAtf(ErrMalformedNumericField, "partitioner row has %v columns", len(cols))
			}
			if name := strings.TrimSpace(cols[0]); name != "" {
				group = name
			}
			cell := cells[group+"/"+strings.TrimSpace(cols[1])]
			if cell == nil {
				continue
			}
			if cell.Relevant, err = parseUint(c, "partitioner cell", strings.TrimSpace(cols[2])); err != nil {
				return nil, err
			}
			cell.Original, err = parseUint(c, "partitioner cell", strings.TrimSpace(cols[3]))
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// parseNameList collects comma separated names.
// The analyzer terminates every name with ", ", so lines without a comma carry no names.
func parseNameList(c *cursor) []string {
	var names []string
	for !c.done() {
		line, _ := c.next()
		if !strings.Contains(line, ",") {
			continue
		}
		for _, name := range strings.Split(line, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}
