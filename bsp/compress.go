// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz/lzma"
)

var lzmaID = [4]byte{'L', 'Z', 'M', 'A'}

// lzmaHeader prefixes every compressed lump. Properties holds the classic
// lzma properties byte followed by the little endian dictionary size.
type lzmaHeader struct {
	ID         [4]byte
	ActualSize uint32
	LZMASize   uint32
	Properties [5]byte
}

const lzmaHeaderSize = 17

// gameLumpPadding is appended to every decompressed game lump. Some
// compilers wrote compressed game lumps that decode a few bytes short; the
// engine reads past them into zeroed memory.
const gameLumpPadding = 8

func readLZMAHeader(name string, data []byte, limit int) (lzmaHeader, []byte, error) {
	var h lzmaHeader
	if len(data) < lzmaHeaderSize {
		return h, nil, &DecompressError{Lump: name, Err: errors.Errorf("%d bytes is too short for a lzma header", len(data))}
	}
	if err := binary.Read(bytes.NewReader(data[:lzmaHeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, nil, &DecompressError{Lump: name, Err: err}
	}
	if h.ID != lzmaID {
		return h, nil, &DecompressError{Lump: name, Err: errors.Errorf("bad lzma id %q", h.ID[:])}
	}
	if int64(h.ActualSize) > int64(limit) {
		return h, nil, &DecompressError{Lump: name, Err: errors.Errorf("decompressed size %d exceeds limit %d", h.ActualSize, limit)}
	}
	stream := data[lzmaHeaderSize:]
	if int64(h.LZMASize) > int64(len(stream)) {
		return h, nil, &DecompressError{Lump: name, Err: errors.Errorf("compressed size %d exceeds remaining %d bytes", h.LZMASize, len(stream))}
	}
	return h, stream[:h.LZMASize], nil
}

// newLZMAReader rebuilds the 13 byte header of the classic lzma format, which
// differs from the lump header only in layout, and hands the stream over.
func newLZMAReader(h lzmaHeader, stream []byte) (io.Reader, error) {
	var classic [13]byte
	copy(classic[:5], h.Properties[:])
	binary.LittleEndian.PutUint64(classic[5:], uint64(h.ActualSize))
	return lzma.NewReader(io.MultiReader(bytes.NewReader(classic[:]), bytes.NewReader(stream)))
}

// decompress inflates a compressed lump. The output has to match the
// announced size exactly.
func decompress(name string, data []byte, limit int) ([]byte, error) {
	h, stream, err := readLZMAHeader(name, data, limit)
	if err != nil {
		return nil, err
	}
	r, err := newLZMAReader(h, stream)
	if err != nil {
		return nil, &DecompressError{Lump: name, Err: err}
	}
	out := make([]byte, h.ActualSize)
	n, err := io.ReadFull(r, out)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, &DecompressError{Lump: name, Expected: int(h.ActualSize), Got: n}
		}
		return nil, &DecompressError{Lump: name, Expected: int(h.ActualSize), Got: n, Err: err}
	}
	return out, nil
}

// decompressGameLump is the lenient variant used for game lumps: short output
// is kept and gameLumpPadding zero bytes are appended.
func decompressGameLump(name string, data []byte, limit int, log *slog.Logger) ([]byte, error) {
	h, stream, err := readLZMAHeader(name, data, limit)
	if err != nil {
		return nil, err
	}
	r, err := newLZMAReader(h, stream)
	if err != nil {
		return nil, &DecompressError{Lump: name, Err: err}
	}
	out := make([]byte, int(h.ActualSize)+gameLumpPadding)
	n, err := io.ReadFull(r, out[:h.ActualSize])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &DecompressError{Lump: name, Expected: int(h.ActualSize), Got: n, Err: err}
	}
	if n < int(h.ActualSize) {
		log.Debug("short game lump", "lump", name, "expected", h.ActualSize, "got", n)
	}
	return out[:n+gameLumpPadding], nil
}
