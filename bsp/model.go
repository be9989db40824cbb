// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"cmp"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"govbsp/pack"
)

// Bsp is a fully decoded map. It is not modified after Read returns and may
// be shared between goroutines.
type Bsp struct {
	Header   Header
	Entities Entities

	Planes       []Plane
	Vertices     []Vertex
	Edges        []Edge
	SurfaceEdges []SurfaceEdge
	Faces        []Face
	Nodes        []Node
	// sorted by Cluster
	Leaves      []Leaf
	LeafFaces   []uint16
	LeafBrushes []uint16
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide

	TextureInfo        []TextureInfo
	TextureData        []TextureData
	TextureStringTable []int32

	DisplacementInfo      []DisplacementInfo
	DisplacementVertices  []DisplacementVertex
	DisplacementTriangles []DisplacementTriangleFlags

	Visibility  VisData
	GameLumps   GameLumpHeader
	StaticProps StaticPropLump

	textureStringData []byte
	// on-disk leaf index -> index into Leaves
	leafIndex []int

	file     *File
	packOnce sync.Once
	pack     *pack.Pack
	packErr  error
}

// Read decodes a complete map from data with default options.
func Read(data []byte) (*Bsp, error) {
	return ReadWithOptions(data, DefaultOptions())
}

func ReadWithOptions(data []byte, opts Options) (*Bsp, error) {
	f, err := OpenWithOptions(data, opts)
	if err != nil {
		return nil, err
	}
	return Decode(f)
}

func decodeLump[T any](f *File, t LumpType) ([]T, error) {
	data, err := f.Lump(t)
	if err != nil {
		return nil, err
	}
	return readSlice[T](t, data)
}

// Decode decodes every lump of f that has a typed representation and checks
// the references between them.
func Decode(f *File) (*Bsp, error) {
	b := &Bsp{
		Header: f.header,
		file:   f,
	}
	var err error
	fail := func(t LumpType, err error) (*Bsp, error) {
		return nil, errors.Wrapf(err, "decode %s", t)
	}

	ents, err := f.Lump(LumpEntities)
	if err != nil {
		return fail(LumpEntities, err)
	}
	b.Entities = newEntities(ents)

	if b.Planes, err = decodeLump[Plane](f, LumpPlanes); err != nil {
		return fail(LumpPlanes, err)
	}
	if b.Vertices, err = decodeLump[Vertex](f, LumpVertices); err != nil {
		return fail(LumpVertices, err)
	}
	if b.Edges, err = decodeLump[Edge](f, LumpEdges); err != nil {
		return fail(LumpEdges, err)
	}
	if b.SurfaceEdges, err = decodeLump[SurfaceEdge](f, LumpSurfaceEdges); err != nil {
		return fail(LumpSurfaceEdges, err)
	}
	if b.Faces, err = decodeLump[Face](f, LumpFaces); err != nil {
		return fail(LumpFaces, err)
	}
	if b.Nodes, err = decodeLump[Node](f, LumpNodes); err != nil {
		return fail(LumpNodes, err)
	}
	if b.Leaves, b.leafIndex, err = decodeLeaves(f); err != nil {
		return fail(LumpLeaves, err)
	}
	if b.LeafFaces, err = decodeLump[uint16](f, LumpLeafFaces); err != nil {
		return fail(LumpLeafFaces, err)
	}
	if b.LeafBrushes, err = decodeLump[uint16](f, LumpLeafBrushes); err != nil {
		return fail(LumpLeafBrushes, err)
	}
	if b.Models, err = decodeLump[Model](f, LumpModels); err != nil {
		return fail(LumpModels, err)
	}
	if b.Brushes, err = decodeLump[Brush](f, LumpBrushes); err != nil {
		return fail(LumpBrushes, err)
	}
	if b.BrushSides, err = decodeLump[BrushSide](f, LumpBrushSides); err != nil {
		return fail(LumpBrushSides, err)
	}
	if b.TextureInfo, err = decodeLump[TextureInfo](f, LumpTextureInfo); err != nil {
		return fail(LumpTextureInfo, err)
	}
	if b.TextureData, err = decodeLump[TextureData](f, LumpTextureData); err != nil {
		return fail(LumpTextureData, err)
	}
	if b.TextureStringTable, err = decodeLump[int32](f, LumpTextureDataStringTable); err != nil {
		return fail(LumpTextureDataStringTable, err)
	}
	if b.textureStringData, err = f.Lump(LumpTextureDataStringData); err != nil {
		return fail(LumpTextureDataStringData, err)
	}
	if b.DisplacementInfo, err = decodeDisplacementInfo(f); err != nil {
		return fail(LumpDisplacementInfo, err)
	}
	if b.DisplacementVertices, err = decodeLump[DisplacementVertex](f, LumpDisplacementVertices); err != nil {
		return fail(LumpDisplacementVertices, err)
	}
	if b.DisplacementTriangles, err = decodeLump[DisplacementTriangleFlags](f, LumpDisplacementTriangles); err != nil {
		return fail(LumpDisplacementTriangles, err)
	}

	vis, err := f.Lump(LumpVisibility)
	if err != nil {
		return fail(LumpVisibility, err)
	}
	if b.Visibility, err = decodeVisData(vis, f.opts.MaxClusters); err != nil {
		return fail(LumpVisibility, err)
	}

	game, err := f.Lump(LumpGame)
	if err != nil {
		return fail(LumpGame, err)
	}
	if b.GameLumps, err = decodeGameLumpHeader(game); err != nil {
		return fail(LumpGame, err)
	}
	if b.GameLumps.Has(GameLumpStaticProps) {
		if b.StaticProps, err = FindGameLump(f, &b.GameLumps, GameLumpStaticProps, DecodeStaticProps); err != nil {
			return fail(LumpGame, err)
		}
	}

	if err := b.validate(); err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	return b, nil
}

func decodeDisplacementInfo(f *File) ([]DisplacementInfo, error) {
	raw, err := decodeLump[rawDisplacementInfo](f, LumpDisplacementInfo)
	if err != nil {
		return nil, err
	}
	out := make([]DisplacementInfo, len(raw))
	for i := range raw {
		if out[i], err = raw[i].upgrade(i * dispInfoSize); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeLeaves upgrades the leaves to Leaf and sorts them by cluster. The
// returned index maps the on-disk position of every leaf to its position in
// the sorted slice.
func decodeLeaves(f *File) ([]Leaf, []int, error) {
	version, err := f.LumpVersion(LumpLeaves)
	if err != nil {
		return nil, nil, err
	}
	var leaves []Leaf
	switch version {
	case 0:
		raw, err := decodeLump[leafV0](f, LumpLeaves)
		if err != nil {
			return nil, nil, err
		}
		leaves = make([]Leaf, len(raw))
		for i, l := range raw {
			leaves[i] = l.upgrade()
		}
	case 1:
		raw, err := decodeLump[leafV1](f, LumpLeaves)
		if err != nil {
			return nil, nil, err
		}
		leaves = make([]Leaf, len(raw))
		for i, l := range raw {
			leaves[i] = l.upgrade()
		}
	default:
		return nil, nil, &UnsupportedLumpVersionError{Lump: LumpLeaves.String(), Version: version}
	}

	order := make([]int, len(leaves))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(leaves[a].Cluster, leaves[b].Cluster)
	})
	sorted := make([]Leaf, len(leaves))
	index := make([]int, len(leaves))
	for to, from := range order {
		sorted[to] = leaves[from]
		index[from] = to
	}
	f.opts.Logger.Debug("leaves sorted by cluster", "leaves", len(sorted))
	return sorted, index, nil
}

// File returns the opened file the map was decoded from.
func (b *Bsp) File() *File {
	return b.file
}

// Pack opens the embedded pak file lump on first use.
func (b *Bsp) Pack() (*pack.Pack, error) {
	b.packOnce.Do(func() {
		data, err := b.file.Lump(LumpPakFile)
		if err != nil {
			b.packErr = err
			return
		}
		b.pack = pack.New(data, int64(b.file.opts.MaxLumpSize))
	})
	return b.pack, b.packErr
}

// TextureName resolves an index into the texture string table.
func (b *Bsp) TextureName(id int) (string, error) {
	if err := checkIndex("texture data", "texture string", id, len(b.TextureStringTable)); err != nil {
		return "", err
	}
	off := int(b.TextureStringTable[id])
	if err := checkIndex("texture string", "texture string byte", off, len(b.textureStringData)); err != nil {
		return "", err
	}
	return cString(b.textureStringData[off:], off)
}
