// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"github.com/kminer/kminer-reports/pkg/stat"
)

var (
	statReports = stat.New("reports", "API reports added to corpora",
		stat.Console, stat.Prometheus("kminer_reports_parsed"))
	statDropped = stat.New("dropped reports", "Report blocks dropped because the API kind is unknown",
		stat.Prometheus("kminer_reports_dropped"))
	statFailures = stat.New("failed reports", "Report blocks excluded because of parsing errors",
		stat.Console, stat.Prometheus("kminer_report_parse_errors"))
	statBugs = stat.New("bugs", "Bugs found in parsed reports",
		stat.Console, stat.Prometheus("kminer_bugs_parsed"))
	statBugDuration = stat.New("bug duration ms", "Time the analyzer spent on one bug",
		stat.Distribution{}, stat.Prometheus("kminer_bug_duration_ms_mean"))
)

func recordReportStats(rep *Report) {
	statReports.Add(1)
	for _, bug := range rep.Bugs() {
		statBugs.Add(1)
		if info := bug.Info(); !info.TimedOut {
			statBugDuration.Add(int(info.Duration * 1000))
		}
	}
}
