// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kminer/kminer-reports/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const testLog = "../../pkg/report/testdata/kminer-v4.10.log"

// prepareLogs creates a directory with logs of two kernel versions.
func prepareLogs(t *testing.T) string {
	data, err := os.ReadFile(testLog)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kminer-v4.10.log"), data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("v4.14 is slow"), 0644))

	buf := new(bytes.Buffer)
	w, err := xz.NewWriter(buf)
	require.NoError(t, err)
	_, err = w.Write(bytes.ReplaceAll(data, []byte("vmlinux-v4.10.bc"), []byte("vmlinux-v4.14.bc")))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kminer-v4.14.log.xz"), buf.Bytes(), 0644))
	return dir
}

func parseTestLogs(t *testing.T) []*report.KernelReport {
	files, err := expandLogs([]string{prepareLogs(t)})
	require.NoError(t, err)
	kernels, err := parseLogs(files, 2)
	require.NoError(t, err)
	return kernels
}

func TestExpandLogs(t *testing.T) {
	dir := prepareLogs(t)
	files, err := expandLogs([]string{dir, testLog})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "kminer-v4.10.log"),
		filepath.Join(dir, "kminer-v4.14.log.xz"),
		testLog,
	}, files)

	_, err = expandLogs([]string{filepath.Join(dir, "missing.log")})
	assert.Error(t, err)
}

func TestParseLogs(t *testing.T) {
	kernels := parseTestLogs(t)
	require.Len(t, kernels, 2)
	assert.Equal(t, "v4.10", kernels[0].Version)
	assert.Equal(t, "v4.14", kernels[1].Version)
	ids := make(map[uint64]bool)
	for _, kr := range kernels {
		assert.Len(t, kr.Reports, 4)
		for _, rep := range kr.List() {
			for _, bug := range rep.Bugs() {
				ids[bug.Info().ID] = true
			}
		}
	}
	assert.Len(t, ids, 12)
	assert.GreaterOrEqual(t, parseTime.Count(), int64(2))

	_, err := parseLogs([]string{filepath.Join(t.TempDir(), "missing.log")}, 0)
	assert.ErrorIs(t, err, report.ErrIO)
}

func TestTriage(t *testing.T) {
	kernels := parseTestLogs(t)
	uaf := kernels[0].Corruptions()[report.UseAfterFree][0]
	sig := report.Signature(uaf)
	triage, err := parseTriage([]TriageEntry{{Signature: sig, Status: "Positive"}})
	require.NoError(t, err)

	// The bug is found for read and write in both kernels.
	assert.Equal(t, 4, applyTriage(kernels, triage))
	assert.Equal(t, 0, applyTriage(kernels, triage))
	for _, kr := range kernels {
		assert.Equal(t, 1, kr.NumPositive(report.UseAfterFree))
		assert.Equal(t, 1, kr.NumPositive(report.AllKinds))
	}

	file := filepath.Join(t.TempDir(), "triage", "triage.yaml")
	require.NoError(t, saveTriage(file, kernels))
	loaded, err := loadTriage(file)
	require.NoError(t, err)
	assert.Equal(t, map[string]report.Status{sig: report.Positive}, loaded)
	assert.Error(t, saveTriage(filepath.Join(t.TempDir(), "triage.json"), kernels))

	entries := collectTriage(kernels)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Note, "v4.10 read: iov at do_iter_read"), entries[0].Note)
}

func TestParseTriageErrors(t *testing.T) {
	sig := strings.Repeat("ab", 20)
	tests := [][]TriageEntry{
		{{Signature: "xyz", Status: "Positive"}},
		{{Signature: sig[:10], Status: "Positive"}},
		{{Signature: sig, Status: "Confirmed"}},
		{{Signature: sig, Status: "Positive"}, {Signature: sig, Status: "False"}},
	}
	for i, entries := range tests {
		_, err := parseTriage(entries)
		assert.Error(t, err, "test #%v", i)
	}
	triage, err := parseTriage([]TriageEntry{
		{Signature: sig, Status: "Remove"},
		{Signature: sig, Status: "Remove"},
	})
	require.NoError(t, err)
	assert.Equal(t, report.Removed, triage[sig])
}

func TestLoadTriageUnknownField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "triage.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- signature: abc\n  verdict: Positive\n"), 0644))
	_, err := loadTriage(file)
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	kernels := parseTestLogs(t)
	buf := new(bytes.Buffer)
	printSummary(buf, kernels[0], false)
	out := buf.String()
	assert.Contains(t, out, "v4.10 (vmlinux-v4.10.bc): 4 reports (3 syscalls, 1 drivers), 1 failed blocks\n")
	assert.Contains(t, out, "reports: close read usb_storage write\n")
	assert.Contains(t, out, "average analysis time: 15.1s\n")
	assert.Contains(t, out, "failed: report block at line")
	assert.Regexp(t, `Use-After-Free: +found +2, distinct +1, positive +0`, out)
	assert.Regexp(t, `TOTAL: +found +6, distinct +5, positive +0`, out)

	buf.Reset()
	printSummary(buf, kernels[0], true)
	assert.Contains(t, buf.String(), "reports: read usb_storage write\n")

	buf.Reset()
	printBugs(buf, kernels[1], report.BugKinds)
	assert.Equal(t, 5, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), report.Signature(kernels[1].Corruptions()[report.DoubleLock][0]))

	buf.Reset()
	printBugs(buf, kernels[1], []report.BugKind{report.UseAfterFree, report.MemoryLeak})
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.NotContains(t, buf.String(), "DLOCK")
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds(nil)
	require.NoError(t, err)
	assert.Equal(t, report.BugKinds, kinds)
	kinds, err = parseKinds([]string{"uaf", "DLOCK"})
	require.NoError(t, err)
	assert.Equal(t, []report.BugKind{report.UseAfterFree, report.DoubleLock}, kinds)
	_, err = parseKinds([]string{"TOTAL"})
	assert.Error(t, err)
	_, err = parseKinds([]string{"OOB"})
	assert.Error(t, err)
}

func TestWalkReportsEmpty(t *testing.T) {
	kr := report.Parse(nil, new(report.IDAllocator))
	assert.Empty(t, walkReports(kr, false))
	assert.Empty(t, walkReports(kr, true))
}
