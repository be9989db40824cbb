// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"iter"

	"govbsp/math/vec"
)

// Face returns the face the displacement is applied to.
func (d DisplacementHandle) Face() (FaceHandle, error) {
	h, err := lookup(d.bsp, d.bsp.Faces, int(d.data.MapFace), "displacement", "face")
	return FaceHandle{h}, err
}

func (d DisplacementHandle) Power() int {
	return int(d.data.Power)
}

// Vertices yields the per vertex displacements in row major order.
func (d DisplacementHandle) Vertices() iter.Seq[DisplacementVertex] {
	return func(yield func(DisplacementVertex) bool) {
		first := int(d.data.VertexStart)
		for _, v := range d.bsp.DisplacementVertices[first : first+d.data.VertexCount()] {
			if !yield(v) {
				return
			}
		}
	}
}

// TriangleTags yields the tags of the displacement triangles. It is empty if
// the map has no displacement triangle lump.
func (d DisplacementHandle) TriangleTags() iter.Seq[DisplacementTriangleFlags] {
	return func(yield func(DisplacementTriangleFlags) bool) {
		if len(d.bsp.DisplacementTriangles) == 0 {
			return
		}
		first := int(d.data.TriangleStart)
		for _, t := range d.bsp.DisplacementTriangles[first : first+d.data.TriangleCount()] {
			if !yield(t) {
				return
			}
		}
	}
}

// EdgeNeighbour is a displacement sharing (part of) an edge.
type EdgeNeighbour struct {
	// 0-3, the edge of this displacement
	Edge int
	// 0 or 1, the half of the edge for split edges
	Sub           int
	Displacement  DisplacementHandle
	Orientation   NeighbourOrientation
	Span          NeighbourSpan
	NeighbourSpan NeighbourSpan
}

// CornerNeighbour is a displacement touching one of the corners.
type CornerNeighbour struct {
	Corner       int
	Displacement DisplacementHandle
}

// EdgeNeighbours yields the present edge neighbours. Absent slots are
// skipped.
func (d DisplacementHandle) EdgeNeighbours() iter.Seq[EdgeNeighbour] {
	return func(yield func(EdgeNeighbour) bool) {
		for e, n := range d.data.EdgeNeighbours {
			for s, sub := range n.SubNeighbours {
				if !sub.Present() {
					continue
				}
				if !yield(EdgeNeighbour{
					Edge:          e,
					Sub:           s,
					Displacement:  DisplacementHandle{newHandle(d.bsp, d.bsp.DisplacementInfo, int(sub.Neighbour))},
					Orientation:   sub.Orientation,
					Span:          sub.Span,
					NeighbourSpan: sub.NeighbourSpan,
				}) {
					return
				}
			}
		}
	}
}

func (d DisplacementHandle) CornerNeighbours() iter.Seq[CornerNeighbour] {
	return func(yield func(CornerNeighbour) bool) {
		for c, n := range d.data.CornerNeighbours {
			for _, id := range n.Ids() {
				if !yield(CornerNeighbour{
					Corner:       c,
					Displacement: DisplacementHandle{newHandle(d.bsp, d.bsp.DisplacementInfo, int(id))},
				}) {
					return
				}
			}
		}
	}
}

// Positions returns the displaced vertex grid of (2^power+1)^2 positions in
// row major order. Row y runs from the corner nearest to the start position
// along the first edge of the face.
func (d DisplacementHandle) Positions() ([]vec.Vec3, error) {
	f, err := d.Face()
	if err != nil {
		return nil, err
	}
	c, err := f.corners()
	if err != nil {
		return nil, err
	}
	c = alignCorners(c, d.data.StartPosition)

	steps := 1 << d.data.Power
	side := steps + 1
	out := make([]vec.Vec3, 0, side*side)
	verts := d.bsp.DisplacementVertices[d.data.VertexStart:]
	for y := 0; y < side; y++ {
		fy := float32(y) / float32(steps)
		a := vec.Lerp(c[0], c[1], fy)
		b := vec.Lerp(c[3], c[2], fy)
		for x := 0; x < side; x++ {
			base := vec.Lerp(a, b, float32(x)/float32(steps))
			out = append(out, vec.Add(base, verts[len(out)].Displacement()))
		}
	}
	return out, nil
}

// alignCorners rotates c so that the corner closest to start comes first.
// On ties the earlier corner wins.
func alignCorners(c [4]vec.Vec3, start vec.Vec3) [4]vec.Vec3 {
	best := 0
	bestDist := vec.DistanceSquared(c[0], start)
	for i := 1; i < 4; i++ {
		if d := vec.DistanceSquared(c[i], start); d < bestDist {
			best, bestDist = i, d
		}
	}
	var r [4]vec.Vec3
	for i := range r {
		r[i] = c[(best+i)%4]
	}
	return r
}

// TriangulatedVertices returns the 2*(2^power)^2 triangles of the displaced
// grid.
func (d DisplacementHandle) TriangulatedVertices() (iter.Seq[[3]vec.Vec3], error) {
	p, err := d.Positions()
	if err != nil {
		return nil, err
	}
	steps := 1 << d.data.Power
	side := steps + 1
	return func(yield func([3]vec.Vec3) bool) {
		at := func(x, y int) vec.Vec3 { return p[y*side+x] }
		for y := 0; y < steps; y++ {
			for x := 0; x < steps; x++ {
				if !yield([3]vec.Vec3{at(x, y), at(x+1, y), at(x, y+1)}) {
					return
				}
				if !yield([3]vec.Vec3{at(x+1, y), at(x+1, y+1), at(x, y+1)}) {
					return
				}
			}
		}
	}, nil
}
