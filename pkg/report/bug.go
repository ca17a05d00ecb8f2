// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"slices"

	"github.com/kminer/kminer-reports/pkg/hash"
)

// Bug is one defect found by a checker.
// Two bugs are the same defect iff they have the same kind and the same role-bound
// variables (see Equal); paths and durations are not part of bug identity.
type Bug interface {
	Kind() BugKind
	Info() *BugInfo
	// Object is the variable the defect is reported against
	// (dangling pointer, leaked pointer or lock variable).
	Object() Var
	// Vars returns the role-bound variables in record order.
	Vars() []Var
	// Paths returns the call paths in record order.
	Paths() [][]PathStep
}

// BugInfo holds the data shared by all bug kinds.
type BugInfo struct {
	ID        uint64
	Status    Status
	Locations LocationMap
	// Duration of the per-bug analysis in seconds.
	Duration float64
	// TimedOut is set if the analyzer gave up on the bug, Duration is 0 then.
	TimedOut bool
}

func (info *BugInfo) Info() *BugInfo {
	return info
}

type UAFBug struct {
	BugInfo
	DanglingPtr Var
	Free        Var
	Use         Var
	APIPath     []PathStep
	FreePath    []PathStep
	UsePath     []PathStep
}

func (bug *UAFBug) Kind() BugKind       { return UseAfterFree }
func (bug *UAFBug) Object() Var         { return bug.DanglingPtr }
func (bug *UAFBug) Vars() []Var         { return []Var{bug.DanglingPtr, bug.Free, bug.Use} }
func (bug *UAFBug) Paths() [][]PathStep { return [][]PathStep{bug.APIPath, bug.FreePath, bug.UsePath} }

type UARBug struct {
	BugInfo
	DanglingPtr     Var
	LocalVar        Var
	APIPath         []PathStep
	LocalVarPath    []PathStep
	DanglingPtrPath []PathStep
}

func (bug *UARBug) Kind() BugKind { return UseAfterReturn }
func (bug *UARBug) Object() Var   { return bug.DanglingPtr }
func (bug *UARBug) Vars() []Var   { return []Var{bug.DanglingPtr, bug.LocalVar} }
func (bug *UARBug) Paths() [][]PathStep {
	return [][]PathStep{bug.APIPath, bug.LocalVarPath, bug.DanglingPtrPath}
}

type DoubleFreeBug struct {
	BugInfo
	DanglingPtr Var
	Free1       Var
	Free2       Var
	APIPath     []PathStep
	Free1Path   []PathStep
	Free2Path   []PathStep
}

func (bug *DoubleFreeBug) Kind() BugKind { return DoubleFree }
func (bug *DoubleFreeBug) Object() Var   { return bug.DanglingPtr }
func (bug *DoubleFreeBug) Vars() []Var   { return []Var{bug.DanglingPtr, bug.Free1, bug.Free2} }
func (bug *DoubleFreeBug) Paths() [][]PathStep {
	return [][]PathStep{bug.APIPath, bug.Free1Path, bug.Free2Path}
}

type MemLeakBug struct {
	BugInfo
	LeakPtr Var
	// NeverFree distinguishes memory that is never freed from memory
	// that is freed only on some paths.
	NeverFree bool
	APIPath   []PathStep
}

func (bug *MemLeakBug) Kind() BugKind       { return MemoryLeak }
func (bug *MemLeakBug) Object() Var         { return bug.LeakPtr }
func (bug *MemLeakBug) Vars() []Var         { return []Var{bug.LeakPtr} }
func (bug *MemLeakBug) Paths() [][]PathStep { return [][]PathStep{bug.APIPath} }

type DoubleLockBug struct {
	BugInfo
	Lock      Var
	Lock1     Var
	Lock2     Var
	APIPath   []PathStep
	Lock1Path []PathStep
	Lock2Path []PathStep
}

func (bug *DoubleLockBug) Kind() BugKind { return DoubleLock }
func (bug *DoubleLockBug) Object() Var   { return bug.Lock }
func (bug *DoubleLockBug) Vars() []Var   { return []Var{bug.Lock, bug.Lock1, bug.Lock2} }
func (bug *DoubleLockBug) Paths() [][]PathStep {
	return [][]PathStep{bug.APIPath, bug.Lock1Path, bug.Lock2Path}
}

// Equal says if a and b describe the same defect.
func Equal(a, b Bug) bool {
	return a.Kind() == b.Kind() && slices.Equal(a.Vars(), b.Vars())
}

// bugKey is a comparable form of bug identity usable as a map key.
type bugKey struct {
	kind BugKind
	vars [3]Var
}

func keyOf(bug Bug) bugKey {
	key := bugKey{kind: bug.Kind()}
	copy(key.vars[:], bug.Vars())
	return key
}

// Signature returns a stable identifier of the defect.
// Unlike BugInfo.ID it does not depend on parsing order, so it can be used
// to correlate the same defect across kernel versions and runs.
func Signature(bug Bug) string {
	pieces := []string{string(bug.Kind())}
	for _, v := range bug.Vars() {
		pieces = append(pieces, v.Name, v.Loc.Function, v.Loc.File, fmt.Sprint(v.Loc.Line))
	}
	return hash.String(pieces...)
}
