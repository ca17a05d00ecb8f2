// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log provides functionality similar to standard log package with some extensions:
//   - verbosity levels
//   - global verbosity setting that can be used by multiple packages
//   - ability to cache recent output in memory
package log

import (
	"flag"
	"fmt"
	golog "log"
	"strings"
	"sync"
	"time"
)

var (
	flagV       = flag.Int("vv", 0, "verbosity")
	mu          sync.Mutex
	cache       *ring
	prependTime = true // for testing
)

// ring keeps the most recent log lines, up to a number of lines and a number of bytes.
type ring struct {
	entries []string
	pos     int
	mem     int
	maxMem  int
}

func (r *ring) add(entry string) {
	r.mem += len(entry) - len(r.entries[r.pos])
	r.entries[r.pos] = entry
	r.pos = (r.pos + 1) % len(r.entries)
	for i := 0; i < len(r.entries)-1 && r.mem > r.maxMem; i++ {
		pos := (r.pos + i) % len(r.entries)
		r.mem -= len(r.entries[pos])
		r.entries[pos] = ""
	}
	if r.mem < 0 {
		panic("log cache size underflow")
	}
}

func (r *ring) String() string {
	buf := new(strings.Builder)
	for i := range r.entries {
		entry := r.entries[(r.pos+i)%len(r.entries)]
		if entry == "" {
			continue
		}
		buf.WriteString(entry)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// EnableLogCaching enables in memory caching of log output.
// Caches up to maxLines, but no more than maxMem bytes.
// Cached output can later be queried with CachedLogOutput.
func EnableLogCaching(maxLines, maxMem int) {
	mu.Lock()
	defer mu.Unlock()
	if cache != nil {
		Fatalf("log caching is already enabled")
	}
	if maxLines < 1 || maxMem < 1 {
		panic("invalid maxLines/maxMem")
	}
	cache = &ring{
		entries: make([]string, maxLines),
		maxMem:  maxMem,
	}
}

// CachedLogOutput retrieves cached log output.
func CachedLogOutput() string {
	mu.Lock()
	defer mu.Unlock()
	if cache == nil {
		return ""
	}
	return cache.String()
}

// SetVerbosity overrides the -vv flag.
func SetVerbosity(v int) {
	mu.Lock()
	defer mu.Unlock()
	*flagV = v
}

// V says if messages of verbosity v are printed.
func V(v int) bool {
	mu.Lock()
	defer mu.Unlock()
	return v <= *flagV
}

func Logf(v int, msg string, args ...interface{}) {
	writeLog(v, "", msg, args...)
}

// Errorf logs a failure that does not stop the program. It is always printed.
func Errorf(msg string, args ...interface{}) {
	writeLog(0, "ERROR: ", msg, args...)
}

func writeLog(v int, prefix, msg string, args ...interface{}) {
	mu.Lock()
	doLog := v <= *flagV
	if cache != nil && v <= 1 {
		timeStr := ""
		if prependTime {
			timeStr = time.Now().Format("2006/01/02 15:04:05 ")
		}
		cache.add(timeStr + prefix + fmt.Sprintf(msg, args...))
	}
	mu.Unlock()

	if doLog {
		golog.Printf(prefix+msg, args...)
	}
}

func Fatalf(msg string, args ...interface{}) {
	golog.Fatalf(msg, args...)
}
