// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/kminer/kminer-reports/pkg/config"
	"github.com/kminer/kminer-reports/pkg/hash"
	"github.com/kminer/kminer-reports/pkg/report"
)

// TriageEntry is one reviewer decision. The triage file is a YAML list of entries:
//
//	- signature: 5f0c...
//	  status: Positive
//	  note: confirmed on v4.14
type TriageEntry struct {
	Signature string `yaml:"signature"`
	Status    string `yaml:"status"`
	Note      string `yaml:"note,omitempty"`
}

// loadTriage reads the triage file into a signature -> status map.
func loadTriage(file string) (map[string]report.Status, error) {
	var entries []TriageEntry
	if err := config.LoadFile(file, &entries); err != nil {
		return nil, err
	}
	return parseTriage(entries)
}

func parseTriage(entries []TriageEntry) (map[string]report.Status, error) {
	res := make(map[string]report.Status)
	for i, ent := range entries {
		if _, err := hash.FromString(ent.Signature); err != nil {
			return nil, fmt.Errorf("triage entry #%v: %w", i, err)
		}
		status, err := report.ParseStatus(ent.Status)
		if err != nil {
			return nil, fmt.Errorf("triage entry #%v: %w", i, err)
		}
		if prev, ok := res[ent.Signature]; ok && prev != status {
			return nil, fmt.Errorf("triage entry #%v: bug %v is both %v and %v",
				i, ent.Signature, prev, status)
		}
		res[ent.Signature] = status
	}
	return res, nil
}

// applyTriage sets statuses of all bugs with known signatures, including
// duplicates of the same bug in other reports. Returns the number of updated bugs.
func applyTriage(kernels []*report.KernelReport, triage map[string]report.Status) int {
	updated := 0
	for _, kr := range kernels {
		for _, rep := range kr.List() {
			for _, bug := range rep.Bugs() {
				status, ok := triage[report.Signature(bug)]
				if !ok || bug.Info().Status == status {
					continue
				}
				kr.SetStatus(bug.Info().ID, status)
				updated++
			}
		}
	}
	return updated
}

// collectTriage returns one entry per distinct signature over all kernels.
// Bugs that were never looked at are skipped.
func collectTriage(kernels []*report.KernelReport) []TriageEntry {
	seen := make(map[string]bool)
	var entries []TriageEntry
	for _, kr := range kernels {
		for _, rep := range kr.List() {
			for _, bug := range rep.Bugs() {
				sig := report.Signature(bug)
				if bug.Info().Status == report.NotChecked || seen[sig] {
					continue
				}
				seen[sig] = true
				entries = append(entries, TriageEntry{
					Signature: sig,
					Status:    string(bug.Info().Status),
					Note:      fmt.Sprintf("%v %v: %v", kr.Version, rep.Key(), bug.Object()),
				})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Signature < entries[j].Signature
	})
	return entries
}

// saveTriage writes the triage state in the loadTriage format.
// The file is always YAML, whatever its extension.
func saveTriage(file string, kernels []*report.KernelReport) error {
	if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("triage file %v must have .yaml extension", file)
	}
	return config.SaveFile(file, collectTriage(kernels))
}
