// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
)

var (
	ErrSectionNotFound            = errors.New("section not found")
	ErrSectionOrder               = errors.New("unexpected section")
	ErrMalformedLocationEntry     = errors.New("malformed location entry")
	ErrMalformedNumericField      = errors.New("malformed numeric field")
	ErrMalformedDuration          = errors.New("malformed duration")
	ErrIncompleteBugRecord        = errors.New("incomplete bug record")
	ErrBugCountMismatch           = errors.New("bug count mismatch")
	ErrInconsistentModuleIdentity = errors.New("inconsistent module identity")
	ErrInconsistentAPIKind        = errors.New("inconsistent API kind")
	ErrIO                         = errors.New("failed to read report")
)

// ParseError attaches the 1-based line number of the analyzer log to a parsing failure.
type ParseError struct {
	Line int
	Err  error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("line %v: %v", err.Line, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// BlockError describes a report block that was excluded from a KernelReport.
type BlockError struct {
	// Line where the block starts.
	Line int
	Err  error
}

func (err *BlockError) Error() string {
	return fmt.Sprintf("report block at line %v: %v", err.Line, err.Err)
}

func (err *BlockError) Unwrap() error {
	return err.Err
}
