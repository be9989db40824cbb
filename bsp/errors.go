// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSignature   = errors.New("not a VBSP file")
	ErrUnsupportedVersion = errors.New("unsupported bsp version")
	// ErrNoCluster is returned for leaves outside of any visibility cluster.
	ErrNoCluster = errors.New("leaf has no visibility cluster")
	ErrNotFound  = errors.New("not found")
)

type LumpOutOfBoundsError struct {
	Lump     LumpType
	Offset   int64
	Length   int64
	FileSize int
}

func (e *LumpOutOfBoundsError) Error() string {
	return fmt.Sprintf("lump %s out of bounds: offset %d length %d file size %d",
		e.Lump, e.Offset, e.Length, e.FileSize)
}

type InvalidLumpSizeError struct {
	Lump        LumpType
	ElementSize int
	LumpSize    int
}

func (e *InvalidLumpSizeError) Error() string {
	return fmt.Sprintf("lump %s has size %d which is not a multiple of %d",
		e.Lump, e.LumpSize, e.ElementSize)
}

// UnsupportedLumpVersionError is returned when a decoder does not know the
// on-disk version of its lump. Lump is a lump or game lump name.
type UnsupportedLumpVersionError struct {
	Lump    string
	Version int
}

func (e *UnsupportedLumpVersionError) Error() string {
	return fmt.Sprintf("unsupported version %d for lump %s", e.Version, e.Lump)
}

// InvalidEnumError reports a discriminant outside its known range together with
// the byte position it was read from (relative to the start of its lump).
type InvalidEnumError struct {
	Field    string
	Value    int
	Position int
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s value %d at position %d", e.Field, e.Value, e.Position)
}

// InvalidIndexError reports a cross reference from one lump into another that
// points past the end of its target.
type InvalidIndexError struct {
	From  string
	To    string
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("%s references %s %d, only %d present", e.From, e.To, e.Index, e.Len)
}

type StringError struct {
	Offset int
	Reason string
}

func (e *StringError) Error() string {
	return fmt.Sprintf("invalid string at %d: %s", e.Offset, e.Reason)
}

type DecompressError struct {
	Lump     string
	Expected int
	Got      int
	Err      error
}

func (e *DecompressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decompress %s: %v", e.Lump, e.Err)
	}
	return fmt.Sprintf("decompress %s: expected %d bytes, got %d", e.Lump, e.Expected, e.Got)
}

func (e *DecompressError) Unwrap() error {
	return e.Err
}

type GameLumpOutOfBoundsError struct {
	ID     GameLumpID
	Offset int64
	Length int64
}

func (e *GameLumpOutOfBoundsError) Error() string {
	return fmt.Sprintf("game lump %s out of bounds: offset %d length %d", e.ID, e.Offset, e.Length)
}

// VisDataError reports a run-length stream that ends before every cluster
// got a value.
type VisDataError struct {
	Cluster int
	Offset  int
}

func (e *VisDataError) Error() string {
	return fmt.Sprintf("truncated visibility data for cluster %d at offset %d", e.Cluster, e.Offset)
}

// FaceVertexCountError reports a face whose winding can not be used for the
// requested geometry.
type FaceVertexCountError struct {
	Face  int
	Count int
	Want  string
}

func (e *FaceVertexCountError) Error() string {
	return fmt.Sprintf("face %d has %d vertices, need %s", e.Face, e.Count, e.Want)
}
