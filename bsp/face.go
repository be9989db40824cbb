// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"iter"

	"github.com/pkg/errors"

	"govbsp/math/vec"
)

func (f FaceHandle) Plane() (Handle[Plane], error) {
	return lookup(f.bsp, f.bsp.Planes, int(f.data.PlaneNum), "face", "plane")
}

func (f FaceHandle) TextureInfo() (TextureInfoHandle, error) {
	h, err := lookup(f.bsp, f.bsp.TextureInfo, int(f.data.TextureInfo), "face", "texture info")
	return TextureInfoHandle{h}, err
}

func (f FaceHandle) TextureData() (TextureDataHandle, error) {
	ti, err := f.TextureInfo()
	if err != nil {
		return TextureDataHandle{}, err
	}
	return ti.TextureData()
}

// TextureName returns the material name of the face.
func (f FaceHandle) TextureName() (string, error) {
	td, err := f.TextureData()
	if err != nil {
		return "", err
	}
	return td.Name()
}

func (f FaceHandle) NumVertices() int {
	return int(f.data.NumEdges)
}

// VertexIndexes yields the index of every vertex of the winding.
func (f FaceHandle) VertexIndexes() iter.Seq[int] {
	return func(yield func(int) bool) {
		first := int(f.data.FirstEdge)
		for _, se := range f.bsp.SurfaceEdges[first : first+int(f.data.NumEdges)] {
			e := f.bsp.Edges[se.EdgeIndex()]
			v := e.Vertices[0]
			if se.Reversed() {
				v = e.Vertices[1]
			}
			if !yield(int(v)) {
				return
			}
		}
	}
}

func (f FaceHandle) Vertices() iter.Seq[vec.Vec3] {
	return func(yield func(vec.Vec3) bool) {
		for i := range f.VertexIndexes() {
			if !yield(f.bsp.Vertices[i].Position) {
				return
			}
		}
	}
}

func (f FaceHandle) IsDisplaced() bool {
	return f.data.DisplacementInfo >= 0
}

// Displacement wraps ErrNotFound for faces without a displacement.
func (f FaceHandle) Displacement() (DisplacementHandle, error) {
	if !f.IsDisplaced() {
		return DisplacementHandle{}, errors.Wrapf(ErrNotFound, "face %d has no displacement", f.index)
	}
	h, err := lookup(f.bsp, f.bsp.DisplacementInfo, int(f.data.DisplacementInfo), "face", "displacement")
	return DisplacementHandle{h}, err
}

// Triangulate returns the triangles covering the face. Plain faces are
// assumed convex and are split as a fan around their first vertex.
// Displaced faces yield the triangles of the displacement grid.
func (f FaceHandle) Triangulate() (iter.Seq[[3]vec.Vec3], error) {
	if f.IsDisplaced() {
		d, err := f.Displacement()
		if err != nil {
			return nil, err
		}
		return d.TriangulatedVertices()
	}
	n := f.NumVertices()
	if n < 3 {
		return nil, &FaceVertexCountError{Face: f.index, Count: n, Want: "at least 3"}
	}
	return func(yield func([3]vec.Vec3) bool) {
		var first, prev vec.Vec3
		i := 0
		for v := range f.Vertices() {
			switch i {
			case 0:
				first = v
			case 1:
			default:
				if !yield([3]vec.Vec3{first, prev, v}) {
					return
				}
			}
			prev = v
			i++
		}
	}, nil
}

func (f FaceHandle) corners() ([4]vec.Vec3, error) {
	var c [4]vec.Vec3
	if n := f.NumVertices(); n != 4 {
		return c, &FaceVertexCountError{Face: f.index, Count: n, Want: "exactly 4"}
	}
	i := 0
	for v := range f.Vertices() {
		c[i] = v
		i++
	}
	return c, nil
}
