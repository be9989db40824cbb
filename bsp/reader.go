// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
)

func recordSize[T any]() int {
	var zero T
	return binary.Size(zero)
}

// readSlice decodes data as a packed little endian array of T.
func readSlice[T any](t LumpType, data []byte) ([]T, error) {
	size := recordSize[T]()
	if size <= 0 {
		return nil, errors.Errorf("%T has no fixed size", *new(T))
	}
	if len(data)%size != 0 {
		return nil, &InvalidLumpSizeError{Lump: t, ElementSize: size, LumpSize: len(data)}
	}
	out := make([]T, len(data)/size)
	if len(out) == 0 {
		return out, nil
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, out); err != nil {
		return nil, errors.Wrapf(err, "read %s", t)
	}
	return out, nil
}

// cursor reads length prefixed arrays from a lump that has more than one
// section.
type cursor struct {
	data []byte
	pos  int
}

// count reads an int32 element count and checks that that many elements of
// size bytes follow.
func (c *cursor) count(size int) (int, error) {
	if c.pos+4 > len(c.data) {
		return 0, errors.Errorf("count at %d past end of %d bytes", c.pos, len(c.data))
	}
	n := int(int32(binary.LittleEndian.Uint32(c.data[c.pos:])))
	c.pos += 4
	if n < 0 || n > (len(c.data)-c.pos)/size {
		return 0, errors.Errorf("count %d of %d byte elements at %d exceeds %d remaining bytes",
			n, size, c.pos-4, len(c.data)-c.pos)
	}
	return n, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errors.Errorf("%d bytes at %d past end of %d bytes", n, c.pos, len(c.data))
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// cString returns the NUL terminated string at the start of b. pos is only
// used for error reporting.
func cString(b []byte, pos int) (string, error) {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		return "", &StringError{Offset: pos, Reason: "missing NUL terminator"}
	}
	if !utf8.Valid(b[:n]) {
		return "", &StringError{Offset: pos, Reason: "not valid UTF-8"}
	}
	return string(b[:n]), nil
}
