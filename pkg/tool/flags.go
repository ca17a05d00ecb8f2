// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"errors"
	"fmt"
	"strings"
)

// ListFlag allows passing a comma-separated list of values to a flag.
// Empty elements are dropped.
type ListFlag []string

func (list *ListFlag) String() string {
	return strings.Join(*list, ",")
}

// Set is used by flag.Parse. The flag may be given only once.
func (list *ListFlag) Set(value string) error {
	if len(*list) > 0 {
		return errors.New("list flag was already set")
	}
	for _, elem := range strings.Split(value, ",") {
		if elem = strings.TrimSpace(elem); elem != "" {
			*list = append(*list, elem)
		}
	}
	if len(*list) == 0 {
		return fmt.Errorf("empty list %q", value)
	}
	return nil
}
