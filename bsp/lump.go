// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// File is a bsp buffer together with its parsed header. Directory entries are
// only checked when their lump is requested, so a broken entry does not hide
// the valid ones.
type File struct {
	data   []byte
	header Header
	opts   Options
	// decompressed lumps, raw lumps are returned as sub slices of data
	cache *lru.Cache[LumpType, []byte]
}

// Open parses the header of data. data is referenced, not copied, and must
// not be modified while the File or anything decoded from it is in use.
func Open(data []byte) (*File, error) {
	return OpenWithOptions(data, DefaultOptions())
}

func OpenWithOptions(data []byte, opts Options) (*File, error) {
	opts = opts.withDefaults()
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	c, err := lru.New[LumpType, []byte](opts.LumpCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create lump cache")
	}
	return &File{
		data:   data,
		header: h,
		opts:   opts,
		cache:  c,
	}, nil
}

func (f *File) Header() Header {
	return f.header
}

// Version is the bsp format version from the header.
func (f *File) Version() int {
	return int(f.header.Version)
}

// Data returns the complete underlying buffer.
func (f *File) Data() []byte {
	return f.data
}

func (f *File) Entry(t LumpType) (LumpEntry, error) {
	if t < 0 || int(t) >= LumpCount {
		return LumpEntry{}, errors.Errorf("invalid lump type %d", int(t))
	}
	return f.header.Lumps[t], nil
}

// LumpVersion returns the version stored in the directory entry of t.
func (f *File) LumpVersion(t LumpType) (int, error) {
	e, err := f.Entry(t)
	if err != nil {
		return 0, err
	}
	return int(e.Version), nil
}

// Raw returns the on-disk bytes of t without decompressing them.
func (f *File) Raw(t LumpType) ([]byte, error) {
	e, err := f.Entry(t)
	if err != nil {
		return nil, err
	}
	return f.section(t, int64(e.Offset), int64(e.Length))
}

func (f *File) section(t LumpType, offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(f.data)) {
		return nil, &LumpOutOfBoundsError{
			Lump:     t,
			Offset:   offset,
			Length:   length,
			FileSize: len(f.data),
		}
	}
	return f.data[offset : offset+length], nil
}

// Lump returns the contents of t. Uncompressed lumps are sub slices of the
// file buffer, compressed ones are inflated once and cached.
func (f *File) Lump(t LumpType) ([]byte, error) {
	e, err := f.Entry(t)
	if err != nil {
		return nil, err
	}
	raw, err := f.section(t, int64(e.Offset), int64(e.Length))
	if err != nil {
		return nil, err
	}
	if !e.Compressed() || len(raw) == 0 {
		return raw, nil
	}
	if b, ok := f.cache.Get(t); ok {
		return b, nil
	}
	b, err := decompress(t.String(), raw, f.opts.MaxLumpSize)
	if err != nil {
		return nil, err
	}
	f.opts.Logger.Debug("lump decompressed",
		"lump", t,
		"compressed", humanize.Bytes(uint64(len(raw))),
		"size", humanize.Bytes(uint64(len(b))))
	f.cache.Add(t, b)
	return b, nil
}
