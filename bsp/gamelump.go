// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// GameLumpID is the four character tag of a game lump, stored as a little
// endian int so 'sprp' reads as "prps" on disk.
type GameLumpID uint32

func NewGameLumpID(tag string) GameLumpID {
	var id GameLumpID
	for i := 0; i < 4 && i < len(tag); i++ {
		id = id<<8 | GameLumpID(tag[i])
	}
	return id
}

var (
	GameLumpStaticProps        = NewGameLumpID("sprp")
	GameLumpDetailProps        = NewGameLumpID("dprp")
	GameLumpDetailPropLighting = NewGameLumpID("dplt")
)

func (id GameLumpID) String() string {
	b := [4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%#08x", uint32(id))
		}
	}
	return string(b[:])
}

const gameLumpFlagCompressed = 0x0001

// dgamelump_t. Offset is relative to the start of the file.
type GameLumpEntry struct {
	ID      GameLumpID
	Flags   uint16
	Version uint16
	Offset  int32
	Length  int32
}

const gameLumpEntrySize = 16

func (e GameLumpEntry) Compressed() bool {
	return e.Flags&gameLumpFlagCompressed != 0
}

type GameLumpHeader struct {
	Lumps []GameLumpEntry
}

func decodeGameLumpHeader(data []byte) (GameLumpHeader, error) {
	var h GameLumpHeader
	if len(data) == 0 {
		return h, nil
	}
	if len(data) < 4 {
		return h, &InvalidLumpSizeError{Lump: LumpGame, ElementSize: 4, LumpSize: len(data)}
	}
	n := int(int32(binary.LittleEndian.Uint32(data)))
	if n < 0 || n > (len(data)-4)/gameLumpEntrySize {
		return h, &InvalidLumpSizeError{Lump: LumpGame, ElementSize: gameLumpEntrySize, LumpSize: len(data) - 4}
	}
	lumps, err := readSlice[GameLumpEntry](LumpGame, data[4:4+n*gameLumpEntrySize])
	if err != nil {
		return h, err
	}
	h.Lumps = lumps
	return h, nil
}

func (h *GameLumpHeader) index(id GameLumpID) int {
	for i, l := range h.Lumps {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether the directory lists id.
func (h *GameLumpHeader) Has(id GameLumpID) bool {
	return h.index(id) >= 0
}

// data returns the (decompressed) bytes of game lump i. A compressed game
// lump has no usable length, its size is the distance to the next entry.
func (h *GameLumpHeader) data(f *File, i int) ([]byte, error) {
	e := h.Lumps[i]
	offset := int64(e.Offset)
	length := int64(e.Length)
	if e.Compressed() {
		if i+1 >= len(h.Lumps) {
			return nil, &GameLumpOutOfBoundsError{ID: e.ID, Offset: offset, Length: -1}
		}
		length = int64(h.Lumps[i+1].Offset) - offset
	}
	if offset < 0 || length < 0 || offset+length > int64(len(f.data)) {
		return nil, &GameLumpOutOfBoundsError{ID: e.ID, Offset: offset, Length: length}
	}
	raw := f.data[offset : offset+length]
	if !e.Compressed() {
		return raw, nil
	}
	return decompressGameLump(e.ID.String(), raw, f.opts.MaxLumpSize, f.opts.Logger)
}

// FindGameLump looks up id in the game lump directory of f and decodes it
// with decode, which receives the version from the directory. A missing game
// lump yields an error wrapping ErrNotFound.
func FindGameLump[T any](f *File, h *GameLumpHeader, id GameLumpID, decode func(data []byte, version uint16) (T, error)) (T, error) {
	var zero T
	i := h.index(id)
	if i < 0 {
		return zero, errors.Wrapf(ErrNotFound, "game lump %s", id)
	}
	data, err := h.data(f, i)
	if err != nil {
		return zero, err
	}
	v, err := decode(data, h.Lumps[i].Version)
	if err != nil {
		return zero, errors.Wrapf(err, "decode game lump %s", id)
	}
	return v, nil
}
