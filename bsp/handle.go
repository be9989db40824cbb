// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"iter"
)

// Handle is a read-only view of one element of a Bsp. It must not outlive
// the Bsp and never changes it, so any number of handles may refer to the
// same element.
type Handle[T any] struct {
	bsp   *Bsp
	data  *T
	index int
}

func (h Handle[T]) Bsp() *Bsp {
	return h.bsp
}

// Value returns a copy of the element.
func (h Handle[T]) Value() T {
	return *h.data
}

// Index is the position of the element in its slice of the Bsp.
func (h Handle[T]) Index() int {
	return h.index
}

func newHandle[T any](b *Bsp, s []T, i int) Handle[T] {
	return Handle[T]{bsp: b, data: &s[i], index: i}
}

func lookup[T any](b *Bsp, s []T, i int, from, to string) (Handle[T], error) {
	if err := checkIndex(from, to, i, len(s)); err != nil {
		return Handle[T]{}, err
	}
	return newHandle(b, s, i), nil
}

func all[T any, H any](b *Bsp, s []T, wrap func(Handle[T]) H) iter.Seq[H] {
	return func(yield func(H) bool) {
		for i := range s {
			if !yield(wrap(newHandle(b, s, i))) {
				return
			}
		}
	}
}

type (
	FaceHandle         struct{ Handle[Face] }
	LeafHandle         struct{ Handle[Leaf] }
	NodeHandle         struct{ Handle[Node] }
	ModelHandle        struct{ Handle[Model] }
	BrushHandle        struct{ Handle[Brush] }
	BrushSideHandle    struct{ Handle[BrushSide] }
	TextureInfoHandle  struct{ Handle[TextureInfo] }
	TextureDataHandle  struct{ Handle[TextureData] }
	DisplacementHandle struct{ Handle[DisplacementInfo] }
	StaticPropHandle   struct{ Handle[StaticProp] }
)

func (b *Bsp) Face(i int) (FaceHandle, error) {
	h, err := lookup(b, b.Faces, i, "lookup", "face")
	return FaceHandle{h}, err
}

func (b *Bsp) Leaf(i int) (LeafHandle, error) {
	h, err := lookup(b, b.Leaves, i, "lookup", "leaf")
	return LeafHandle{h}, err
}

func (b *Bsp) Node(i int) (NodeHandle, error) {
	h, err := lookup(b, b.Nodes, i, "lookup", "node")
	return NodeHandle{h}, err
}

func (b *Bsp) Model(i int) (ModelHandle, error) {
	h, err := lookup(b, b.Models, i, "lookup", "model")
	return ModelHandle{h}, err
}

// WorldModel returns model 0, which covers the whole level.
func (b *Bsp) WorldModel() (ModelHandle, error) {
	return b.Model(0)
}

func (b *Bsp) Brush(i int) (BrushHandle, error) {
	h, err := lookup(b, b.Brushes, i, "lookup", "brush")
	return BrushHandle{h}, err
}

func (b *Bsp) Displacement(i int) (DisplacementHandle, error) {
	h, err := lookup(b, b.DisplacementInfo, i, "lookup", "displacement")
	return DisplacementHandle{h}, err
}

func (b *Bsp) StaticProp(i int) (StaticPropHandle, error) {
	h, err := lookup(b, b.StaticProps.Props, i, "lookup", "static prop")
	return StaticPropHandle{h}, err
}

func (b *Bsp) AllFaces() iter.Seq[FaceHandle] {
	return all(b, b.Faces, func(h Handle[Face]) FaceHandle { return FaceHandle{h} })
}

// AllLeaves yields the leaves in cluster order.
func (b *Bsp) AllLeaves() iter.Seq[LeafHandle] {
	return all(b, b.Leaves, func(h Handle[Leaf]) LeafHandle { return LeafHandle{h} })
}

func (b *Bsp) AllModels() iter.Seq[ModelHandle] {
	return all(b, b.Models, func(h Handle[Model]) ModelHandle { return ModelHandle{h} })
}

func (b *Bsp) AllBrushes() iter.Seq[BrushHandle] {
	return all(b, b.Brushes, func(h Handle[Brush]) BrushHandle { return BrushHandle{h} })
}

func (b *Bsp) AllDisplacements() iter.Seq[DisplacementHandle] {
	return all(b, b.DisplacementInfo, func(h Handle[DisplacementInfo]) DisplacementHandle { return DisplacementHandle{h} })
}

func (b *Bsp) AllStaticProps() iter.Seq[StaticPropHandle] {
	return all(b, b.StaticProps.Props, func(h Handle[StaticProp]) StaticPropHandle { return StaticPropHandle{h} })
}

func (t TextureInfoHandle) TextureData() (TextureDataHandle, error) {
	h, err := lookup(t.bsp, t.bsp.TextureData, int(t.data.TextureData), "texture info", "texture data")
	return TextureDataHandle{h}, err
}

func (t TextureInfoHandle) Flags() TextureFlags {
	return t.data.Flags
}

// Name returns the material name from the texture string table.
func (t TextureDataHandle) Name() (string, error) {
	return t.bsp.TextureName(int(t.data.NameStringTableID))
}

func (m ModelHandle) Faces() iter.Seq[FaceHandle] {
	return faceRange(m.bsp, int(m.data.FirstFace), int(m.data.NumFaces))
}

func (m ModelHandle) HeadNode() (NodeHandle, error) {
	h, err := lookup(m.bsp, m.bsp.Nodes, int(m.data.HeadNode), "model", "node")
	return NodeHandle{h}, err
}

func faceRange(b *Bsp, first, count int) iter.Seq[FaceHandle] {
	return func(yield func(FaceHandle) bool) {
		for i := first; i < first+count; i++ {
			if !yield(FaceHandle{newHandle(b, b.Faces, i)}) {
				return
			}
		}
	}
}

func (br BrushHandle) Sides() iter.Seq[BrushSideHandle] {
	return func(yield func(BrushSideHandle) bool) {
		first := int(br.data.FirstSide)
		for i := first; i < first+int(br.data.NumSides); i++ {
			if !yield(BrushSideHandle{newHandle(br.bsp, br.bsp.BrushSides, i)}) {
				return
			}
		}
	}
}

func (br BrushHandle) Contents() ContentFlags {
	return br.data.Contents
}

func (s BrushSideHandle) Plane() (Handle[Plane], error) {
	return lookup(s.bsp, s.bsp.Planes, int(s.data.PlaneNum), "brush side", "plane")
}

// TextureInfo fails for sides without a texture (index -1).
func (s BrushSideHandle) TextureInfo() (TextureInfoHandle, error) {
	h, err := lookup(s.bsp, s.bsp.TextureInfo, int(s.data.TextureInfo), "brush side", "texture info")
	return TextureInfoHandle{h}, err
}

// Model returns the model path from the static prop dictionary.
func (p StaticPropHandle) Model() (string, error) {
	d := p.bsp.StaticProps.Dictionary
	if err := checkIndex("static prop", "model dictionary entry", p.data.PropType, len(d)); err != nil {
		return "", err
	}
	return d[p.data.PropType], nil
}

// Leaves yields the leaves the prop is in.
func (p StaticPropHandle) Leaves() iter.Seq[LeafHandle] {
	return func(yield func(LeafHandle) bool) {
		first := int(p.data.FirstLeaf)
		for _, l := range p.bsp.StaticProps.LeafIndices[first : first+int(p.data.LeafCount)] {
			if !yield(LeafHandle{newHandle(p.bsp, p.bsp.Leaves, p.bsp.leafIndex[l])}) {
				return
			}
		}
	}
}
