// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	assert.Equal(t, String("UAF", "p"), String("UAF", "p"))
	assert.NotEqual(t, String("ab", "c"), String("a", "bc"))
	assert.NotEqual(t, String("UAF", "p"), String("DFREE", "p"))
	assert.Len(t, String(), 40)
}

func TestFromString(t *testing.T) {
	sig := Hash("LEAK", "buf:fn:file.c:10")
	got, err := FromString(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	_, err = FromString("xyz")
	assert.Error(t, err)
	_, err = FromString("abcd")
	assert.ErrorContains(t, err, "bad len")
}
