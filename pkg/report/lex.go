// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// splitLines splits raw log output into whitespace-trimmed lines.
func splitLines(data []byte) []string {
	data = bytes.TrimSuffix(data, []byte{'\n'})
	if len(data) == 0 {
		return nil
	}
	raw := bytes.Split(data, []byte{'\n'})
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(string(line))
	}
	return lines
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func lastWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// isSeparator says if the line is a table rule like "_____", "-----", "=====" or "#####".
func isSeparator(line string) bool {
	if line == "" || !strings.ContainsRune("_-=#", rune(line[0])) {
		return false
	}
	return strings.Count(line, line[:1]) == len(line)
}

// isFiller says if the line carries no data.
func isFiller(line string) bool {
	return line == "" || isSeparator(line)
}

func parseUint(c *cursor, field, token string) (uint64, error) {
	v, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, c.failAtf(ErrMalformedNumericField, "%v: %q is not an unsigned integer", field, token)
	}
	return v, nil
}

func parseFloat(c *cursor, field, token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, c.failAtf(ErrMalformedNumericField, "%v: %q is not a number", field, token)
	}
	return v, nil
}
