// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"golang.org/x/exp/constraints"
)

// checkRange reports whether [first, first+count) lies inside a slice of
// length n.
func checkRange[T, U constraints.Integer](from, to string, first T, count U, n int) error {
	f, c := int64(first), int64(count)
	switch {
	case f < 0:
		return &InvalidIndexError{From: from, To: to, Index: int(f), Len: n}
	case c < 0:
		return &InvalidIndexError{From: from, To: to, Index: int(f + c), Len: n}
	case f+c > int64(n):
		return &InvalidIndexError{From: from, To: to, Index: int(f + c - 1), Len: n}
	}
	return nil
}

func checkIndex[T constraints.Integer](from, to string, i T, n int) error {
	if int64(i) < 0 || int64(i) >= int64(n) {
		return &InvalidIndexError{From: from, To: to, Index: int(i), Len: n}
	}
	return nil
}

// validate checks every index range that the iterators of the handles walk,
// so that iteration itself can not fail. Single element lookups are checked
// when they happen.
func (b *Bsp) validate() error {
	for _, f := range b.Faces {
		if err := checkRange("face", "surface edge", f.FirstEdge, f.NumEdges, len(b.SurfaceEdges)); err != nil {
			return err
		}
	}
	for _, s := range b.SurfaceEdges {
		if err := checkIndex("surface edge", "edge", s.EdgeIndex(), len(b.Edges)); err != nil {
			return err
		}
	}
	for _, e := range b.Edges {
		for _, v := range e.Vertices {
			if err := checkIndex("edge", "vertex", v, len(b.Vertices)); err != nil {
				return err
			}
		}
	}
	for _, l := range b.Leaves {
		if err := checkRange("leaf", "leaf face", l.FirstLeafFace, l.NumLeafFaces, len(b.LeafFaces)); err != nil {
			return err
		}
		if err := checkRange("leaf", "leaf brush", l.FirstLeafBrush, l.NumLeafBrushes, len(b.LeafBrushes)); err != nil {
			return err
		}
	}
	for _, f := range b.LeafFaces {
		if err := checkIndex("leaf face", "face", f, len(b.Faces)); err != nil {
			return err
		}
	}
	for _, br := range b.LeafBrushes {
		if err := checkIndex("leaf brush", "brush", br, len(b.Brushes)); err != nil {
			return err
		}
	}
	for _, n := range b.Nodes {
		if err := checkRange("node", "face", n.FirstFace, n.NumFaces, len(b.Faces)); err != nil {
			return err
		}
	}
	for _, m := range b.Models {
		if err := checkRange("model", "face", m.FirstFace, m.NumFaces, len(b.Faces)); err != nil {
			return err
		}
	}
	for _, br := range b.Brushes {
		if err := checkRange("brush", "brush side", br.FirstSide, br.NumSides, len(b.BrushSides)); err != nil {
			return err
		}
	}
	for i := range b.DisplacementInfo {
		d := &b.DisplacementInfo[i]
		if err := checkRange("displacement", "displacement vertex", d.VertexStart, d.VertexCount(), len(b.DisplacementVertices)); err != nil {
			return err
		}
		if len(b.DisplacementTriangles) > 0 {
			if err := checkRange("displacement", "displacement triangle", d.TriangleStart, d.TriangleCount(), len(b.DisplacementTriangles)); err != nil {
				return err
			}
		}
		for _, n := range d.EdgeNeighbours {
			for _, s := range n.SubNeighbours {
				if s.Present() {
					if err := checkIndex("displacement edge neighbour", "displacement", s.Neighbour, len(b.DisplacementInfo)); err != nil {
						return err
					}
				}
			}
		}
		for _, c := range d.CornerNeighbours {
			for _, id := range c.Ids() {
				if err := checkIndex("displacement corner neighbour", "displacement", id, len(b.DisplacementInfo)); err != nil {
					return err
				}
			}
		}
	}
	for _, p := range b.StaticProps.Props {
		if err := checkRange("static prop", "static prop leaf", p.FirstLeaf, p.LeafCount, len(b.StaticProps.LeafIndices)); err != nil {
			return err
		}
	}
	for _, l := range b.StaticProps.LeafIndices {
		if err := checkIndex("static prop leaf", "leaf", l, len(b.Leaves)); err != nil {
			return err
		}
	}
	return nil
}
