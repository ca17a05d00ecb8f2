// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"flag"
	"fmt"
	"os"
)

func Failf(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}

// Init parses command line flags and prints usage with the tool description on errors.
// It returns the positional arguments.
func Init(desc string) []string {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%v\n\nusage: %v [flags] [files...]\n",
			desc, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return flag.Args()
}
