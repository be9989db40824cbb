// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"os"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	files := []struct {
		name   string
		method uint16
		body   string
	}{
		{"materials/Doc1.vmt", zip.Store, "this is the first doc 2. version\r\n"},
		{"testdir\\doc4.txt", zip.Deflate, "this is the fourth doc 2. version"},
		{"models/prop.mdl", zstd.ZipMethodWinZip, "zstd compressed model"},
	}
	for _, f := range files {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.name, Method: f.method})
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPak(t *testing.T) {
	p := New(buildZip(t), 0)

	b1, err := p.Get("materials/doc1.vmt")
	require.NoError(t, err)
	assert.Equal(t, "this is the first doc 2. version\r\n", string(b1))

	b5, err := p.Get("TESTDIR/doc4.txt")
	require.NoError(t, err)
	assert.Equal(t, "this is the fourth doc 2. version", string(b5))

	b6, err := p.Get("models\\prop.mdl")
	require.NoError(t, err)
	assert.Equal(t, "zstd compressed model", string(b6))

	_, err = p.Get("doc4.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	ok, err := p.Has("testdir/doc4.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Has("missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := p.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"materials/doc1.vmt", "models/prop.mdl", "testdir/doc4.txt"}, names)
}

func TestPakLimit(t *testing.T) {
	p := New(buildZip(t), 4)
	_, err := p.Get("materials/doc1.vmt")
	assert.Error(t, err)
}

func TestPakEmpty(t *testing.T) {
	p := New(nil, 0)
	ok, err := p.Has("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPakBroken(t *testing.T) {
	p := New([]byte("not a zip archive at all"), 0)
	_, err := p.Get("a")
	require.Error(t, err)
	_, err = p.Has("a")
	assert.Error(t, err, "error is sticky")
}
