// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a reviewer note attached to a report.
// Comments are stored elsewhere and attached with Report.AddComment.
type Comment struct {
	// ID has the form "<kernel version>:<API name>:<local id>".
	ID   string
	Text string
	Date time.Time
}

func NewComment(version, api string, localID int, text string, date time.Time) *Comment {
	return &Comment{
		ID:   fmt.Sprintf("%v:%v:%v", version, api, localID),
		Text: text,
		Date: date,
	}
}

func (c *Comment) KernelVersion() string {
	return c.idPart(0)
}

func (c *Comment) API() string {
	return c.idPart(1)
}

func (c *Comment) LocalID() string {
	return c.idPart(2)
}

func (c *Comment) idPart(i int) string {
	parts := strings.SplitN(c.ID, ":", 3)
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}
