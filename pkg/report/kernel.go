// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

// Keys returns the report keys in sorted order.
func (kr *KernelReport) Keys() []string {
	return append([]string(nil), kr.keys...)
}

// List returns all reports sorted by key.
func (kr *KernelReport) List() []*Report {
	return kr.Filter(APIUnknown)
}

// Filter returns reports of the given API kind sorted by key.
// APIUnknown selects all reports.
func (kr *KernelReport) Filter(kind APIKind) []*Report {
	var res []*Report
	for _, key := range kr.keys {
		rep := kr.Reports[key]
		if kind == APIUnknown || rep.API == kind {
			res = append(res, rep)
		}
	}
	return res
}

func (kr *KernelReport) Syscalls() []*Report {
	return kr.Filter(APISyscall)
}

func (kr *KernelReport) Drivers() []*Report {
	return kr.Filter(APIDriver)
}

// Next returns the report following cur, wrapping around at the end.
// With skipEmpty reports without bugs are skipped, unless no report has bugs.
// If cur is not in the corpus, the search starts from the first report.
// Returns nil only for an empty corpus.
func (kr *KernelReport) Next(cur *Report, skipEmpty bool) *Report {
	return kr.step(cur, skipEmpty, 1)
}

// Prev is like Next, but goes backwards.
// If cur is not in the corpus, the search starts from the last report.
func (kr *KernelReport) Prev(cur *Report, skipEmpty bool) *Report {
	return kr.step(cur, skipEmpty, -1)
}

func (kr *KernelReport) step(cur *Report, skipEmpty bool, dir int) *Report {
	n := len(kr.keys)
	if n == 0 {
		return nil
	}
	pos := -1
	if dir < 0 {
		pos = n
	}
	if cur != nil {
		for i, key := range kr.keys {
			if kr.Reports[key] == cur {
				pos = i
				break
			}
		}
	}
	at := func(i int) *Report {
		return kr.Reports[kr.keys[((pos+dir*i)%n+n)%n]]
	}
	for i := 1; i <= n; i++ {
		if rep := at(i); !skipEmpty || rep.NumBugs() > 0 {
			return rep
		}
	}
	return at(1)
}

// Corruptions returns the bugs of all reports grouped by kind.
// Bugs that are Equal are listed once, removed bugs are not listed.
// The result is cached until the next SetStatus or DeleteBug.
func (kr *KernelReport) Corruptions() map[BugKind][]Bug {
	if kr.corruptions != nil {
		return kr.corruptions
	}
	res := make(map[BugKind][]Bug)
	seen := make(map[bugKey]bool)
	for _, rep := range kr.List() {
		for _, bug := range rep.Bugs() {
			key := keyOf(bug)
			if bug.Info().Status == Removed || seen[key] {
				continue
			}
			seen[key] = true
			res[bug.Kind()] = append(res[bug.Kind()], bug)
		}
	}
	kr.corruptions = res
	return res
}

// NumCorruptions returns the number of distinct bugs of the kind, or of all kinds for AllKinds.
func (kr *KernelReport) NumCorruptions(kind BugKind) int {
	return kr.countCorruptions(kind, func(Bug) bool { return true })
}

// NumPositive is like NumCorruptions, but counts only bugs confirmed by triage.
func (kr *KernelReport) NumPositive(kind BugKind) int {
	return kr.countCorruptions(kind, func(bug Bug) bool {
		return bug.Info().Status == Positive
	})
}

func (kr *KernelReport) countCorruptions(kind BugKind, pred func(Bug) bool) int {
	n := 0
	for k, bugs := range kr.Corruptions() {
		if kind != AllKinds && k != kind {
			continue
		}
		for _, bug := range bugs {
			if pred(bug) {
				n++
			}
		}
	}
	return n
}

// Bug returns the bug with the given ID and the report it belongs to,
// or nils if there is no such bug.
func (kr *KernelReport) Bug(id uint64) (Bug, *Report) {
	for _, rep := range kr.List() {
		for _, bug := range rep.Bugs() {
			if bug.Info().ID == id {
				return bug, rep
			}
		}
	}
	return nil, nil
}

// SetStatus updates the triage status of the bug with the given ID.
// It returns false if there is no such bug.
func (kr *KernelReport) SetStatus(id uint64, status Status) bool {
	bug, _ := kr.Bug(id)
	if bug == nil {
		return false
	}
	bug.Info().Status = status
	kr.corruptions = nil
	return true
}

// DeleteBug marks the bug as Removed, which excludes it from Corruptions.
// The bug stays in its report.
func (kr *KernelReport) DeleteBug(id uint64) bool {
	return kr.SetStatus(id, Removed)
}

// Search returns the reports that match the query, see Report.Matches.
func (kr *KernelReport) Search(query string) []*Report {
	var res []*Report
	for _, rep := range kr.List() {
		if rep.Matches(query) {
			res = append(res, rep)
		}
	}
	return res
}

// AverageDuration returns the mean total analysis time of the reports in seconds.
func (kr *KernelReport) AverageDuration() float64 {
	if len(kr.Reports) == 0 {
		return 0
	}
	total := 0.0
	for _, key := range kr.keys {
		total += kr.Reports[key].TotalDuration
	}
	return total / float64(len(kr.Reports))
}
