// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// syz-kminer parses KMiner analyzer logs (one per kernel version) and prints
// per-kernel bug summaries. Triage decisions are applied from a YAML file
// keyed by bug signatures, so they carry over between analyzer runs.
//
// Usage:
//
//	syz-kminer -config kminer.cfg
//	syz-kminer -j 4 -metrics kminer.prom logs/ kminer-v4.10.log.xz
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/kminer/kminer-reports/pkg/config"
	"github.com/kminer/kminer-reports/pkg/log"
	"github.com/kminer/kminer-reports/pkg/osutil"
	"github.com/kminer/kminer-reports/pkg/report"
	"github.com/kminer/kminer-reports/pkg/stat"
	"github.com/kminer/kminer-reports/pkg/tool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Analyzer logs or directories with logs (*.log, *.log.xz).
	Logs []string `json:"logs" yaml:"logs"`
	// Optional triage file, see loadTriage.
	Triage string `json:"triage" yaml:"triage"`
	// List only reports with bugs.
	SkipEmpty bool `json:"skip_empty" yaml:"skip_empty"`
}

var (
	flagConfig     = flag.String("config", "", "config file (JSON, or YAML if it ends with .yaml)")
	flagJobs       = flag.Int("j", runtime.NumCPU(), "number of logs parsed in parallel")
	flagMetrics    = flag.String("metrics", "", "write Prometheus metrics to this textfile")
	flagBugs       = flag.Bool("bugs", false, "list distinct bugs with their signatures")
	flagDumpTriage = flag.String("dump-triage", "", "write the triage state of all bugs to this YAML file")
)

var (
	flagKinds tool.ListFlag
	parseTime stat.AverageValue[time.Duration]
)

func init() {
	flag.Var(&flagKinds, "kinds", "comma-separated bug kinds listed by -bugs (default: all)")
}

func main() {
	args := tool.Init("syz-kminer parses KMiner analyzer logs and prints per-kernel bug summaries.")
	cfg := new(Config)
	if *flagConfig != "" {
		if err := config.LoadFile(*flagConfig, cfg); err != nil {
			tool.Fail(err)
		}
	}
	files, err := expandLogs(append(cfg.Logs, args...))
	if err != nil {
		tool.Fail(err)
	}
	if len(files) == 0 {
		tool.Failf("no analyzer logs specified")
	}
	kinds, err := parseKinds(flagKinds)
	if err != nil {
		tool.Fail(err)
	}
	log.EnableLogCaching(1000, 1<<20)
	kernels, err := parseLogs(files, *flagJobs)
	if err != nil {
		tool.Fail(err)
	}
	log.Logf(0, "parsed %v logs, %v per log", parseTime.Count(), parseTime.Value().Round(time.Millisecond))
	if cfg.Triage != "" {
		triage, err := loadTriage(cfg.Triage)
		if err != nil {
			tool.Fail(err)
		}
		log.Logf(0, "applied %v triage decisions", applyTriage(kernels, triage))
	}
	failed := 0
	for _, kr := range kernels {
		printSummary(os.Stdout, kr, cfg.SkipEmpty)
		if *flagBugs {
			printBugs(os.Stdout, kr, kinds)
		}
		failed += len(kr.Failures)
	}
	level := stat.Console
	if log.V(1) {
		level = stat.All
	}
	for _, ui := range stat.Collect(level) {
		fmt.Printf("%-20v %v\n", ui.Name+":", ui.Value)
	}
	if *flagDumpTriage != "" {
		if err := saveTriage(*flagDumpTriage, kernels); err != nil {
			tool.Fail(err)
		}
	}
	if *flagMetrics != "" {
		if err := prometheus.WriteToTextfile(*flagMetrics, prometheus.DefaultGatherer); err != nil {
			tool.Failf("failed to write metrics: %v", err)
		}
	}
	if failed != 0 {
		fmt.Fprintf(os.Stderr, "%v report blocks failed to parse, recent log output:\n%v",
			failed, log.CachedLogOutput())
	}
}

// expandLogs replaces directories with the analyzer logs they contain.
func expandLogs(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := osutil.IsAccessible(path); err != nil {
				return nil, err
			}
			files = append(files, path)
			continue
		}
		names, err := osutil.ListDir(path, ".log", ".log.xz")
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			files = append(files, filepath.Join(path, name))
		}
	}
	return files, nil
}

// parseLogs parses the logs in parallel. Bug IDs are unique across all logs.
// The result is sorted by kernel version.
func parseLogs(files []string, jobs int) ([]*report.KernelReport, error) {
	ids := new(report.IDAllocator)
	kernels := make([]*report.KernelReport, len(files))
	g := new(errgroup.Group)
	g.SetLimit(max(jobs, 1))
	for i, file := range files {
		g.Go(func() error {
			start := time.Now()
			kr, err := report.ParseFile(file, ids)
			if err != nil {
				return err
			}
			parseTime.Save(time.Since(start))
			kernels[i] = kr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(kernels, func(a, b *report.KernelReport) int {
		return strings.Compare(a.Version, b.Version)
	})
	return kernels, nil
}

func printSummary(w io.Writer, kr *report.KernelReport, skipEmpty bool) {
	fmt.Fprintf(w, "%v (%v): %v reports (%v syscalls, %v drivers), %v failed blocks\n",
		kr.Version, kr.Module, len(kr.Reports), len(kr.Syscalls()), len(kr.Drivers()), len(kr.Failures))
	for _, kind := range append(slices.Clone(report.BugKinds), report.AllKinds) {
		found := 0
		for _, rep := range kr.List() {
			found += rep.NumBugsOf(kind)
		}
		fmt.Fprintf(w, "\t%-18v found %4v, distinct %4v, positive %4v\n",
			kind.Title()+":", found, kr.NumCorruptions(kind), kr.NumPositive(kind))
	}
	fmt.Fprintf(w, "\taverage analysis time: %.1fs\n", kr.AverageDuration())
	fmt.Fprintf(w, "\treports: %v\n", strings.Join(walkReports(kr, skipEmpty), " "))
	for _, err := range kr.Failures {
		fmt.Fprintf(w, "\tfailed: %v\n", err)
	}
}

// walkReports lists report keys in navigation order.
func walkReports(kr *report.KernelReport, skipEmpty bool) []string {
	var keys []string
	first := kr.Next(nil, skipEmpty)
	for rep := first; rep != nil; {
		if skipEmpty && rep.NumBugs() == 0 {
			// No report has bugs.
			break
		}
		keys = append(keys, rep.Key())
		if rep = kr.Next(rep, skipEmpty); rep == first {
			break
		}
	}
	return keys
}

// parseKinds validates the -kinds flag. Empty list selects all kinds.
func parseKinds(names []string) ([]report.BugKind, error) {
	if len(names) == 0 {
		return report.BugKinds, nil
	}
	var kinds []report.BugKind
	for _, name := range names {
		kind := report.BugKind(strings.ToUpper(name))
		if !slices.Contains(report.BugKinds, kind) {
			return nil, fmt.Errorf("unknown bug kind %q, want one of %v", name, report.BugKinds)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printBugs(w io.Writer, kr *report.KernelReport, kinds []report.BugKind) {
	corruptions := kr.Corruptions()
	for _, kind := range kinds {
		for _, bug := range corruptions[kind] {
			_, rep := kr.Bug(bug.Info().ID)
			fmt.Fprintf(w, "\t%v %-5v #%-5v %-10v %v: %v\n", report.Signature(bug), kind,
				bug.Info().ID, bug.Info().Status, rep.Key(), bug.Object())
		}
	}
}
