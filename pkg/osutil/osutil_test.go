// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("General Info:\nModule vmlinux-v4.10.bc\n")

	plain := filepath.Join(dir, "kminer.log")
	require.NoError(t, WriteFile(plain, data))
	got, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	buf := new(bytes.Buffer)
	w, err := xz.NewWriter(buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	compressed := filepath.Join(dir, "kminer.log.xz")
	require.NoError(t, WriteFile(compressed, buf.Bytes()))
	got, err = ReadFile(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	broken := filepath.Join(dir, "broken.log.xz")
	require.NoError(t, WriteFile(broken, data))
	_, err = ReadFile(broken)
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing.log"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.log", "a.log.xz", "c.txt"} {
		require.NoError(t, WriteFile(filepath.Join(dir, name), nil))
	}
	require.NoError(t, MkdirAll(filepath.Join(dir, "sub.log")))

	names, err := ListDir(dir, ".log", ".xz")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log.xz", "b.log"}, names)

	names, err = ListDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log.xz", "b.log", "c.txt"}, names)

	assert.True(t, IsExist(filepath.Join(dir, "c.txt")))
	assert.NoError(t, IsAccessible(filepath.Join(dir, "c.txt")))
	assert.Error(t, IsAccessible(filepath.Join(dir, "d.txt")))
}
