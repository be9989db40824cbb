// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"govbsp/math/vec"
)

// NoNeighbour marks an unused neighbour slot.
const NoNeighbour = 0xffff

const (
	MinDisplacementPower = 2
	MaxDisplacementPower = 4
)

type NeighbourOrientation uint8

const (
	OrientationCCW0 NeighbourOrientation = iota
	OrientationCCW90
	OrientationCCW180
	OrientationCCW270
)

type NeighbourSpan uint8

const (
	SpanCornerToCorner NeighbourSpan = iota
	SpanCornerToMidpoint
	SpanMidpointToCorner
)

// CDispSubNeighbor
type rawDispSubNeighbour struct {
	Neighbour     uint16
	Orientation   uint8
	Span          uint8
	NeighbourSpan uint8
	_             uint8
}

// CDispNeighbor
type rawDispNeighbour struct {
	SubNeighbours [2]rawDispSubNeighbour
}

// CDispCornerNeighbors
type rawDispCornerNeighbours struct {
	Neighbours [4]uint16
	Count      uint8
	_          uint8
}

// ddispinfo_t
type rawDisplacementInfo struct {
	StartPosition               vec.Vec3
	VertexStart                 int32
	TriangleStart               int32
	Power                       int32
	MinTesselation              int32
	SmoothingAngle              float32
	Contents                    ContentFlags
	MapFace                     uint16
	_                           uint16
	LightmapAlphaStart          int32
	LightmapSamplePositionStart int32
	EdgeNeighbours              [4]rawDispNeighbour
	CornerNeighbours            [4]rawDispCornerNeighbours
	AllowedVerts                [10]uint32
}

// byte offsets inside rawDisplacementInfo, used for error positions
const (
	dispInfoSize           = 176
	dispEdgeNeighbourStart = 48
	dispEdgeNeighbourSize  = 12
	dispSubNeighbourSize   = 6
	dispPowerOffset        = 20
)

// DisplacementSubNeighbour is one half of an edge neighbour. Orientation and
// spans are only meaningful when Present reports true.
type DisplacementSubNeighbour struct {
	Neighbour     uint16
	Orientation   NeighbourOrientation
	Span          NeighbourSpan
	NeighbourSpan NeighbourSpan
}

func (s DisplacementSubNeighbour) Present() bool {
	return s.Neighbour != NoNeighbour
}

type DisplacementNeighbour struct {
	SubNeighbours [2]DisplacementSubNeighbour
}

type DisplacementCornerNeighbours struct {
	Neighbours [4]uint16
	Count      uint8
}

// Ids returns the used neighbour ids of the corner.
func (c DisplacementCornerNeighbours) Ids() []uint16 {
	n := min(int(c.Count), len(c.Neighbours))
	ids := make([]uint16, 0, n)
	for _, id := range c.Neighbours[:n] {
		if id != NoNeighbour {
			ids = append(ids, id)
		}
	}
	return ids
}

type DisplacementInfo struct {
	StartPosition               vec.Vec3
	VertexStart                 int32
	TriangleStart               int32
	Power                       int32
	MinTesselation              int32
	SmoothingAngle              float32
	Contents                    ContentFlags
	MapFace                     uint16
	LightmapAlphaStart          int32
	LightmapSamplePositionStart int32
	EdgeNeighbours              [4]DisplacementNeighbour
	CornerNeighbours            [4]DisplacementCornerNeighbours
	AllowedVerts                [10]uint32
}

// VertexCount is (2^power+1)^2.
func (d *DisplacementInfo) VertexCount() int {
	side := (1 << d.Power) + 1
	return side * side
}

// TriangleCount is 2*(2^power)^2.
func (d *DisplacementInfo) TriangleCount() int {
	cells := 1 << d.Power
	return 2 * cells * cells
}

func (s rawDispSubNeighbour) upgrade(pos int) (DisplacementSubNeighbour, error) {
	out := DisplacementSubNeighbour{Neighbour: s.Neighbour}
	if s.Neighbour == NoNeighbour {
		return out, nil
	}
	if s.Orientation > uint8(OrientationCCW270) {
		return out, &InvalidEnumError{Field: "neighbour orientation", Value: int(s.Orientation), Position: pos + 2}
	}
	if s.Span > uint8(SpanMidpointToCorner) {
		return out, &InvalidEnumError{Field: "neighbour span", Value: int(s.Span), Position: pos + 3}
	}
	if s.NeighbourSpan > uint8(SpanMidpointToCorner) {
		return out, &InvalidEnumError{Field: "neighbour span", Value: int(s.NeighbourSpan), Position: pos + 4}
	}
	out.Orientation = NeighbourOrientation(s.Orientation)
	out.Span = NeighbourSpan(s.Span)
	out.NeighbourSpan = NeighbourSpan(s.NeighbourSpan)
	return out, nil
}

// upgrade validates the enums of a raw record. pos is the offset of the
// record inside its lump.
func (r *rawDisplacementInfo) upgrade(pos int) (DisplacementInfo, error) {
	d := DisplacementInfo{
		StartPosition:               r.StartPosition,
		VertexStart:                 r.VertexStart,
		TriangleStart:               r.TriangleStart,
		Power:                       r.Power,
		MinTesselation:              r.MinTesselation,
		SmoothingAngle:              r.SmoothingAngle,
		Contents:                    r.Contents,
		MapFace:                     r.MapFace,
		LightmapAlphaStart:          r.LightmapAlphaStart,
		LightmapSamplePositionStart: r.LightmapSamplePositionStart,
		AllowedVerts:                r.AllowedVerts,
	}
	if r.Power < MinDisplacementPower || r.Power > MaxDisplacementPower {
		return d, &InvalidEnumError{Field: "displacement power", Value: int(r.Power), Position: pos + dispPowerOffset}
	}
	for e, n := range r.EdgeNeighbours {
		for s, sub := range n.SubNeighbours {
			p := pos + dispEdgeNeighbourStart + e*dispEdgeNeighbourSize + s*dispSubNeighbourSize
			u, err := sub.upgrade(p)
			if err != nil {
				return d, err
			}
			d.EdgeNeighbours[e].SubNeighbours[s] = u
		}
	}
	for c, n := range r.CornerNeighbours {
		d.CornerNeighbours[c] = DisplacementCornerNeighbours{
			Neighbours: n.Neighbours,
			Count:      n.Count,
		}
	}
	return d, nil
}
