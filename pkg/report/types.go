// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"sync/atomic"
)

// APIKind is the kind of kernel entry point an API report was produced for.
type APIKind int

const (
	APIUnknown APIKind = iota
	APISyscall
	APIDriver
)

func (kind APIKind) String() string {
	switch kind {
	case APISyscall:
		return "SYSCALL"
	case APIDriver:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// Location anchors a variable or a function to kernel source.
type Location struct {
	Function string
	File     string
	Line     uint32
}

func (loc Location) String() string {
	return fmt.Sprintf("%v in %v (ln:%v)", loc.Function, loc.File, loc.Line)
}

type Var struct {
	Name string
	Loc  Location
}

func (v Var) String() string {
	return fmt.Sprintf("%v at %v", v.Name, v.Loc)
}

// LocationMap maps names of functions visited by an analysis to their source locations.
type LocationMap map[string]Location

// EdgeKind tags how a path step is connected to the previous one.
// Renderers pick their own glyphs for the kinds.
type EdgeKind int

const (
	// EdgeNone is the first function of a path.
	EdgeNone EdgeKind = iota
	// EdgeCall is a plain call on the API path ("->").
	EdgeCall
	// EdgeDirectCall is a strong call-graph edge ("===>").
	EdgeDirectCall
	// EdgeIndirectCall is a weak (function pointer) call-graph edge ("--->").
	EdgeIndirectCall
	// EdgeDirectReturn returns over a strong edge ("<===").
	EdgeDirectReturn
	// EdgeIndirectReturn returns over a weak edge ("<---").
	EdgeIndirectReturn
	// EdgeFlowForward is a forward data-flow step, typically an assignment ("++>").
	EdgeFlowForward
	// EdgeFlowBackward is a backward data-flow step ("<++").
	EdgeFlowBackward
)

var edgeNames = [...]string{
	EdgeNone:           "none",
	EdgeCall:           "call",
	EdgeDirectCall:     "direct-call",
	EdgeIndirectCall:   "indirect-call",
	EdgeDirectReturn:   "direct-return",
	EdgeIndirectReturn: "indirect-return",
	EdgeFlowForward:    "flow-forward",
	EdgeFlowBackward:   "flow-backward",
}

func (kind EdgeKind) String() string {
	if kind < 0 || int(kind) >= len(edgeNames) {
		return fmt.Sprintf("edge(%d)", int(kind))
	}
	return edgeNames[kind]
}

// PathStep is one line of a call path.
type PathStep struct {
	// Depth is the call nesting level of the step.
	Depth int
	Edge  EdgeKind
	// Text is the function name, or the description of a data-flow step.
	Text string
}

// BugKind identifies the checker that found a bug.
type BugKind string

const (
	UseAfterFree   = BugKind("UAF")
	UseAfterReturn = BugKind("UAR")
	DoubleFree     = BugKind("DFREE")
	MemoryLeak     = BugKind("LEAK")
	DoubleLock     = BugKind("DLOCK")
	// AllKinds is accepted by the counting queries to sum over all kinds.
	AllKinds = BugKind("TOTAL")
)

// BugKinds lists the checkers in the order their sections appear in a report.
var BugKinds = []BugKind{UseAfterReturn, MemoryLeak, UseAfterFree, DoubleFree, DoubleLock}

func (kind BugKind) Title() string {
	switch kind {
	case UseAfterFree:
		return "Use-After-Free"
	case UseAfterReturn:
		return "Use-After-Return"
	case DoubleFree:
		return "Double-Free"
	case MemoryLeak:
		return "Memory-Leak"
	case DoubleLock:
		return "Double-Lock"
	}
	return string(kind)
}

// Status is the triage state assigned to a bug by a human reviewer.
type Status string

const (
	NotChecked    = Status("NotChecked")
	FalsePositive = Status("False")
	Positive      = Status("Positive")
	Removed       = Status("Remove")
)

func ParseStatus(s string) (Status, error) {
	switch status := Status(s); status {
	case NotChecked, FalsePositive, Positive, Removed:
		return status, nil
	}
	return "", fmt.Errorf("unknown triage status %q", s)
}

// IDAllocator hands out bug identifiers.
// Share one allocator between the logs of all kernel versions to get identifiers
// that are unique across them. It is safe for concurrent use.
type IDAllocator struct {
	next atomic.Uint64
}

func (a *IDAllocator) Next() uint64 {
	return a.next.Add(1) - 1
}
