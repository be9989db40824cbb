// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"govbsp/math/vec"
)

// dplane_t
type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   int32 // 0-2: axial in X,Y,Z, 3-5: non axial, snapped to the nearest axis
}

type Vertex struct {
	Position vec.Vec3
}

// Edge references two vertices. The first edge of the lump is never used.
type Edge struct {
	Vertices [2]uint16
}

// SurfaceEdge is a signed edge index. Negative values walk the edge
// backwards.
type SurfaceEdge int32

func (s SurfaceEdge) EdgeIndex() int {
	i := int(s)
	if i < 0 {
		return -i
	}
	return i
}

func (s SurfaceEdge) Reversed() bool {
	return s < 0
}

// dface_t
type Face struct {
	PlaneNum                    uint16
	Side                        uint8
	OnNode                      uint8
	FirstEdge                   int32
	NumEdges                    int16
	TextureInfo                 int16
	DisplacementInfo            int16 // -1 if the face is not displaced
	SurfaceFogVolumeID          int16
	Styles                      [4]uint8
	LightOffset                 int32
	Area                        float32
	LightmapTextureMinsInLuxels [2]int32
	LightmapTextureSizeInLuxels [2]int32
	OriginalFace                int32
	NumPrimitives               uint16
	FirstPrimitive              uint16
	SmoothingGroups             uint32
}

// dnode_t
type Node struct {
	PlaneNum int32
	// positive values are node indexes, negative ones -(leaf+1)
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
	Area      int16
	_         int16
}

type ColorRGBExp32 struct {
	R, G, B  uint8
	Exponent int8
}

// CompressedLightCube holds one ambient sample per axis direction
// (+X, -X, +Y, -Y, +Z, -Z).
type CompressedLightCube struct {
	Colors [6]ColorRGBExp32
}

// leafV0 is the original dleaf_t with ambient lighting inline.
type leafV0 struct {
	Contents        ContentFlags
	Cluster         int16
	AreaFlags       uint16 // area:9 flags:7
	Mins            [3]int16
	Maxs            [3]int16
	FirstLeafFace   uint16
	NumLeafFaces    uint16
	FirstLeafBrush  uint16
	NumLeafBrushes  uint16
	LeafWaterDataID int16
	AmbientLighting CompressedLightCube
	_               int16
}

// leafV1 moved the ambient lighting into its own lumps.
type leafV1 struct {
	Contents        ContentFlags
	Cluster         int16
	AreaFlags       uint16
	Mins            [3]int16
	Maxs            [3]int16
	FirstLeafFace   uint16
	NumLeafFaces    uint16
	FirstLeafBrush  uint16
	NumLeafBrushes  uint16
	LeafWaterDataID int16
	_               int16
}

// Leaf is the version independent leaf. Leaves decoded from version 1 carry
// a zero AmbientLighting.
type Leaf struct {
	Contents ContentFlags
	// index into the visibility data, negative if the leaf is in no cluster
	Cluster         int16
	Area            uint16
	Flags           uint8
	Mins            [3]int16
	Maxs            [3]int16
	FirstLeafFace   uint16
	NumLeafFaces    uint16
	FirstLeafBrush  uint16
	NumLeafBrushes  uint16
	LeafWaterDataID int16
	AmbientLighting CompressedLightCube
}

func splitAreaFlags(v uint16) (uint16, uint8) {
	return v & 0x1ff, uint8(v >> 9)
}

func (l leafV0) upgrade() Leaf {
	area, flags := splitAreaFlags(l.AreaFlags)
	return Leaf{
		Contents:        l.Contents,
		Cluster:         l.Cluster,
		Area:            area,
		Flags:           flags,
		Mins:            l.Mins,
		Maxs:            l.Maxs,
		FirstLeafFace:   l.FirstLeafFace,
		NumLeafFaces:    l.NumLeafFaces,
		FirstLeafBrush:  l.FirstLeafBrush,
		NumLeafBrushes:  l.NumLeafBrushes,
		LeafWaterDataID: l.LeafWaterDataID,
		AmbientLighting: l.AmbientLighting,
	}
}

func (l leafV1) upgrade() Leaf {
	return leafV0{
		Contents:        l.Contents,
		Cluster:         l.Cluster,
		AreaFlags:       l.AreaFlags,
		Mins:            l.Mins,
		Maxs:            l.Maxs,
		FirstLeafFace:   l.FirstLeafFace,
		NumLeafFaces:    l.NumLeafFaces,
		FirstLeafBrush:  l.FirstLeafBrush,
		NumLeafBrushes:  l.NumLeafBrushes,
		LeafWaterDataID: l.LeafWaterDataID,
	}.upgrade()
}

// texinfo_t
type TextureInfo struct {
	TextureVecs  [2][4]float32 // [s/t][xyz offset]
	LightmapVecs [2][4]float32
	Flags        TextureFlags
	TextureData  int32
}

// dtexdata_t
type TextureData struct {
	Reflectivity      vec.Vec3
	NameStringTableID int32
	Width             int32
	Height            int32
	ViewWidth         int32
	ViewHeight        int32
}

// dmodel_t, model 0 is the world
type Model struct {
	Mins      vec.Vec3
	Maxs      vec.Vec3
	Origin    vec.Vec3
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

type Brush struct {
	FirstSide int32
	NumSides  int32
	Contents  ContentFlags
}

type BrushSide struct {
	PlaneNum         uint16
	TextureInfo      int16
	DisplacementInfo int16
	Bevel            uint8
	Thin             uint8
}

type DisplacementVertex struct {
	Vector   vec.Vec3 // unit direction
	Distance float32
	Alpha    float32
}

// Displacement returns the offset of the vertex from its base position.
func (v DisplacementVertex) Displacement() vec.Vec3 {
	return v.Vector.Scale(v.Distance)
}
