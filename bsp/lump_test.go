// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	data := newWorld(t).bytes(t)
	f, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, 20, f.Version())
	assert.Equal(t, int32(7), f.Header().MapRevision)
	v, err := f.LumpVersion(LumpLeaves)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, "leafs", LumpLeaves.String())
	assert.Equal(t, "lump(99)", LumpType(99).String())
}

func TestHeaderSignature(t *testing.T) {
	data := newWorld(t).bytes(t)
	copy(data, "IBSP")
	_, err := Read(data)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = Read([]byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = Read([]byte("VBSP"))
	assert.Error(t, err)
}

func TestHeaderVersion(t *testing.T) {
	for _, v := range []int32{19, 20, 21} {
		m := newWorld(t)
		m.version = v
		_, err := Read(m.bytes(t))
		assert.NoError(t, err, "version %d", v)
	}
	for _, v := range []int32{17, 22} {
		m := newWorld(t)
		m.version = v
		_, err := Read(m.bytes(t))
		assert.ErrorIs(t, err, ErrUnsupportedVersion, "version %d", v)
	}
}

func TestLumpOutOfBounds(t *testing.T) {
	data := newWorld(t).bytes(t)
	setEntry(t, data, LumpOcclusion, LumpEntry{Offset: int32(len(data) - 4), Length: 64})
	f, err := Open(data)
	require.NoError(t, err)

	_, err = f.Lump(LumpOcclusion)
	var oob *LumpOutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, LumpOcclusion, oob.Lump)
	assert.Equal(t, int64(len(data)-4), oob.Offset)
	assert.Equal(t, int64(64), oob.Length)
	assert.Equal(t, len(data), oob.FileSize)

	planes, err := f.Lump(LumpPlanes)
	require.NoError(t, err)
	assert.Len(t, planes, 40)
	// the broken lump is not decoded, so the map still loads
	_, err = Decode(f)
	assert.NoError(t, err)
}

func TestLumpOutOfBoundsDecoded(t *testing.T) {
	data := newWorld(t).bytes(t)
	setEntry(t, data, LumpPlanes, LumpEntry{Offset: -4, Length: 8})
	_, err := Read(data)
	var oob *LumpOutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, LumpPlanes, oob.Lump)
}

func TestInvalidLumpSize(t *testing.T) {
	m := newWorld(t)
	m.lumps[LumpPlanes] = append(m.lumps[LumpPlanes], 0)
	_, err := Read(m.bytes(t))
	var size *InvalidLumpSizeError
	require.ErrorAs(t, err, &size)
	assert.Equal(t, LumpPlanes, size.Lump)
	assert.Equal(t, 20, size.ElementSize)
	assert.Equal(t, 41, size.LumpSize)
}

func TestRecordSizes(t *testing.T) {
	assert.Equal(t, 20, recordSize[Plane]())
	assert.Equal(t, 56, recordSize[Face]())
	assert.Equal(t, 32, recordSize[Node]())
	assert.Equal(t, 56, recordSize[leafV0]())
	assert.Equal(t, 32, recordSize[leafV1]())
	assert.Equal(t, 72, recordSize[TextureInfo]())
	assert.Equal(t, 32, recordSize[TextureData]())
	assert.Equal(t, 48, recordSize[Model]())
	assert.Equal(t, 8, recordSize[BrushSide]())
	assert.Equal(t, dispInfoSize, recordSize[rawDisplacementInfo]())
	assert.Equal(t, 20, recordSize[DisplacementVertex]())
	assert.Equal(t, 56, recordSize[staticPropV4]())
	assert.Equal(t, 60, recordSize[staticPropV5]())
	assert.Equal(t, 64, recordSize[staticPropV6]())
	assert.Equal(t, 68, recordSize[staticPropV7]())
	assert.Equal(t, 72, recordSize[staticPropV10]())
	assert.Equal(t, gameLumpEntrySize, recordSize[GameLumpEntry]())
	assert.Equal(t, HeaderSize, recordSize[Header]())
}

func TestCompressedLump(t *testing.T) {
	plain := newWorld(t)
	want, err := Read(plain.bytes(t))
	require.NoError(t, err)

	m := newWorld(t)
	m.compress(t, LumpPlanes)
	m.compress(t, LumpLeaves)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	got, err := ReadWithOptions(m.bytes(t), opts)
	require.NoError(t, err)

	assert.Equal(t, want.Planes, got.Planes)
	assert.Equal(t, want.Leaves, got.Leaves)
	assert.True(t, got.Header.Lumps[LumpPlanes].Compressed())
	assert.Equal(t, 40, got.Header.Lumps[LumpPlanes].UncompressedSize())
	assert.Contains(t, buf.String(), "lump decompressed")

	// served from the cache the second time
	a, err := got.File().Lump(LumpPlanes)
	require.NoError(t, err)
	b, err := got.File().Lump(LumpPlanes)
	require.NoError(t, err)
	assert.Same(t, &a[0], &b[0])
}

func TestCompressedLumpSizeMismatch(t *testing.T) {
	m := newWorld(t)
	planes := m.lumps[LumpPlanes]
	m.lumps[LumpPlanes] = lzmaLump(t, planes, len(planes)+20)
	m.ident[LumpPlanes] = [4]byte{60}
	_, err := Read(m.bytes(t))
	var de *DecompressError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "planes", de.Lump)
}

func TestCompressedLumpLimit(t *testing.T) {
	m := newWorld(t)
	m.compress(t, LumpPlanes)
	opts := DefaultOptions()
	opts.MaxLumpSize = 16
	_, err := ReadWithOptions(m.bytes(t), opts)
	var de *DecompressError
	require.ErrorAs(t, err, &de)
}

func TestCompressedLumpBadID(t *testing.T) {
	m := newWorld(t)
	m.compress(t, LumpPlanes)
	copy(m.lumps[LumpPlanes], "LZMB")
	_, err := Read(m.bytes(t))
	var de *DecompressError
	require.ErrorAs(t, err, &de)
	assert.Error(t, errors.Unwrap(de))
}

func TestLumpEntryString(t *testing.T) {
	e := LumpEntry{Offset: 1036, Length: 2048, Version: 1}
	assert.Equal(t, "v1 2.0 kB @ 1036", e.String())
	e.Ident = [4]byte{0x00, 0x10}
	assert.Equal(t, "v1 2.0 kB @ 1036 (lzma, 4.1 kB)", e.String())
}
