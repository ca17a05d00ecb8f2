// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generalInfo = `General Info:
======================================================
______________________________________________________
Module                                vmlinux-v4.10.bc
______________________________________________________
API                                            SYSCALL
______________________________________________________
System call                                       read
______________________________________________________
Num Threads                                          4
`

const tailInfo = `System Info:
======================================================
Kernel Name                                      Linux
Kernel Release                           4.10.0-kminer
Kernel Version
#1 SMP Tue Mar 7 10:00:00 UTC 2017
Processor                                       x86_64
Num Cores                                           32
Used/Max/Total-Mem (kB)             1024/2048/65536000

Partitioner Statistic:
======================================================
 Type      |                             |  R  |  O
 Initcalls |                             |   12|  140
           | Functions                   |  300| 9000
           | Global Variables            |   40|  800
           | Non Defined Variables       |    5|   50
           | Call Graph Depth            |    7|   20
-----------+-----------------------------+-----+-----
 API       | Functions                   |  120| 9000
           | Global Variables            |   30|  800
           | Call Graph Depth            |    9|   20
-----------+-----------------------------+-----+-----
 Kernel    | Functions                   | 1500|45000
           | Global Variables            |  200| 5000
Legend:	R= relevant ; O= original
API Function Limit                                5000

Blacklisted (Sub-)Function Names:
======================================================
printk, panic, dump_stack,
printk,

Sinks:
======================================================
kfree, vfree, kfree,

======================================================
Total (sec)                                       17.5
======================================================
`

func uafSection(declared string, records ...string) string {
	return "Use-After-Free Analysis Statistic:\n" + checkerBody(declared, records...)
}

// replaceLine replaces lines starting with prefix, or drops them if repl is empty.
func replaceLine(text, prefix, repl string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			if repl == "" {
				continue
			}
			line = repl
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func parseTestReport(text string) (*Report, error) {
	return ParseReport([]byte(text), new(IDAllocator))
}

func TestParseReport(t *testing.T) {
	rep, err := parseTestReport(generalInfo + uafSection("1", srcSinkRecord) + tailInfo)
	require.NoError(t, err)
	assert.Equal(t, APISyscall, rep.API)
	assert.Equal(t, "read", rep.Name)
	assert.Equal(t, "read", rep.Key())
	assert.Equal(t, uint64(4), rep.Threads)
	assert.Equal(t, 17.5, rep.TotalDuration)
	assert.Equal(t, []string{"dump_stack", "panic", "printk"}, rep.Blacklist)
	assert.Equal(t, []string{"kfree", "vfree"}, rep.DeleteFunctions)
	require.Len(t, rep.Checkers, 1)
	assert.Equal(t, 1, rep.NumBugs())
	assert.Equal(t, 1, rep.NumBugsOf(UseAfterFree))
	assert.Equal(t, 1, rep.NumBugsOf(AllKinds))
	assert.Equal(t, 0, rep.NumBugsOf(DoubleFree))

	wantInfo := &SystemInfo{
		KernelName:    "Linux",
		KernelRelease: "4.10.0-kminer",
		KernelVersion: "#1 SMP Tue Mar 7 10:00:00 UTC 2017",
		Processor:     "x86_64",
		NumCores:      32,
		MemUsage:      1024,
		MemMaxUsage:   2048,
		MemTotal:      65536000,
	}
	if diff := cmp.Diff(wantInfo, rep.SystemInfo); diff != "" {
		t.Errorf("system info: %v", diff)
	}
	wantPart := &PartitionerStat{
		API:               APISyscall,
		Initcalls:         Count{12, 140},
		InitcallFuncs:     Count{300, 9000},
		InitcallGlobals:   Count{40, 800},
		InitcallUndefined: Count{5, 50},
		InitcallCGDepth:   Count{7, 20},
		APIFuncs:          Count{120, 9000},
		APIGlobals:        Count{30, 800},
		APICGDepth:        Count{9, 20},
		KernelFuncs:       Count{1500, 45000},
		KernelGlobals:     Count{200, 5000},
		APIFuncLimit:      5000,
	}
	if diff := cmp.Diff(wantPart, rep.Partitioner); diff != "" {
		t.Errorf("partitioner: %v", diff)
	}
}

func TestParseReportOptionalSections(t *testing.T) {
	rep, err := parseTestReport(generalInfo)
	require.NoError(t, err)
	assert.Equal(t, "read", rep.Key())
	assert.Empty(t, rep.Checkers)
	assert.Nil(t, rep.SystemInfo)
	assert.Nil(t, rep.Partitioner)
	assert.Zero(t, rep.TotalDuration)

	rep, err = parseTestReport(generalInfo + "Total (sec) 0.5\n")
	require.NoError(t, err)
	assert.Equal(t, 0.5, rep.TotalDuration)
	assert.Nil(t, rep.SystemInfo)

	// Old analyzer versions print the total memory only.
	rep, err = parseTestReport(generalInfo + "System Info:\nMemTotal 4096\nKernel Version 4.4\n")
	require.NoError(t, err)
	assert.Equal(t, &SystemInfo{MemTotal: 4096, KernelVersion: "4.4"}, rep.SystemInfo)
}

func TestParseReportDriver(t *testing.T) {
	text := replaceLine(generalInfo, "API", "API DRIVER")
	text = replaceLine(text, "System call", "Driver usb_storage")
	rep, err := parseTestReport(text)
	require.NoError(t, err)
	assert.Equal(t, APIDriver, rep.API)
	assert.Equal(t, "usb_storage", rep.Key())
}

func TestParseReportUnknownAPI(t *testing.T) {
	for _, text := range []string{
		replaceLine(generalInfo, "API", ""),
		replaceLine(generalInfo, "API", "API FIRMWARE"),
	} {
		// The rest of the block is not looked at.
		rep, err := parseTestReport(text + uafSection("3"))
		require.NoError(t, err)
		assert.Equal(t, APIUnknown, rep.API)
		assert.Equal(t, noName, rep.Key())
		assert.Empty(t, rep.Checkers)
	}
}

func TestParseSystemInfoNoVersion(t *testing.T) {
	for _, next := range []string{"______", "", "Processor x86_64"} {
		text := generalInfo + "System Info:\n=====\nKernel Version\n" + next + "\nProcessor x86_64\n"
		rep, err := parseTestReport(text)
		require.NoError(t, err, "%q", next)
		assert.Empty(t, rep.SystemInfo.KernelVersion, "%q", next)
		assert.Equal(t, "x86_64", rep.SystemInfo.Processor)
	}
}

func TestParseReportErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		line int
	}{
		{
			name: "inconsistent-api",
			text: strings.Replace(generalInfo, "System call", "Driver", 1),
			err:  ErrInconsistentAPIKind,
			line: 8,
		},
		{
			name: "no-name",
			text: replaceLine(generalInfo, "System call", ""),
			err:  ErrSectionNotFound,
		},
		{
			name: "bad-threads",
			text: strings.Replace(generalInfo, "4\n", "four\n", 1),
			err:  ErrMalformedNumericField,
			line: 10,
		},
		{
			name: "checker-order",
			text: generalInfo + uafSection("0") + "Use-After-Return Analysis Statistic:\nNum bugs found 0\n",
			err:  ErrSectionOrder,
			line: 22,
		},
		{
			name: "repeated-checker",
			text: generalInfo + uafSection("0") + uafSection("0"),
			err:  ErrSectionOrder,
			line: 22,
		},
		{
			name: "checker-after-tail",
			text: generalInfo + "Total (sec) 1\n" + uafSection("0"),
			err:  ErrSectionOrder,
			line: 12,
		},
		{
			name: "tail-order",
			text: generalInfo + "Sinks:\nkfree,\nBlacklisted (Sub-)Function Names:\nprintk,\n",
			err:  ErrSectionOrder,
			line: 13,
		},
		{
			name: "bad-total",
			text: generalInfo + "Total (sec) long\n",
			err:  ErrMalformedNumericField,
			line: 11,
		},
		{
			name: "data-after-total",
			text: generalInfo + "Total (sec) 17.5\ngarbage line here\n",
			err:  ErrSectionOrder,
			line: 12,
		},
		{
			name: "data-after-total-rule",
			text: generalInfo + "Total (sec) 17.5\n=====\n\nleftover\n",
			err:  ErrSectionOrder,
			line: 14,
		},
		{
			name: "bad-memory",
			text: generalInfo + "System Info:\nUsed/Max/Total-Mem (kB) 1024/2048\n",
			err:  ErrMalformedNumericField,
			line: 12,
		},
		{
			name: "bad-partitioner-row",
			text: generalInfo + "Partitioner Statistic:\n API | Functions | 12\n",
			err:  ErrMalformedNumericField,
			line: 12,
		},
		{
			name: "bad-checker",
			text: generalInfo + uafSection("2", srcSinkRecord),
			err:  ErrBugCountMismatch,
			line: 18,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseTestReport(test.text)
			require.ErrorIs(t, err, test.err)
			if test.line == 0 {
				return
			}
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, test.line, pe.Line)
		})
	}
}

func TestReportMatches(t *testing.T) {
	text := generalInfo +
		"Use-After-Return Analysis Statistic:\nNum bugs found 1\n" + uarRecord +
		uafSection("1", srcSinkRecord)
	rep, err := ParseReport([]byte(text), new(IDAllocator))
	require.NoError(t, err)
	bugs := rep.Bugs()
	require.Len(t, bugs, 2)
	// Bugs are listed in checker order.
	assert.Equal(t, UseAfterReturn, bugs[0].Kind())
	assert.Equal(t, UseAfterFree, bugs[1].Kind())

	assert.True(t, rep.Matches("0"))
	assert.True(t, rep.Matches("1"))
	assert.False(t, rep.Matches("2"))
	assert.True(t, rep.Matches("usb_stor_probe1"))
	assert.True(t, rep.Matches("get_device_info"))
	assert.True(t, rep.Matches("do_iter_read"))
	assert.False(t, rep.Matches("kfree"))
	assert.False(t, rep.Matches(""))
}
