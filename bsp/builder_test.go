// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"

	"govbsp/math/vec"
)

type testGameLump struct {
	id      GameLumpID
	version uint16
	flags   uint16
	data    []byte
}

// testMap writes a bsp file from raw lumps.
type testMap struct {
	version     int32
	lumps       [LumpCount][]byte
	lumpVersion [LumpCount]int32
	ident       [LumpCount][4]byte
	gameLumps   []testGameLump
}

func newTestMap() *testMap {
	m := &testMap{version: 20}
	m.lumpVersion[LumpLeaves] = 1
	return m
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	return buf.Bytes()
}

func (m *testMap) set(t *testing.T, l LumpType, v any) {
	t.Helper()
	m.lumps[l] = encode(t, v)
}

// compress stores lump l lzma compressed.
func (m *testMap) compress(t *testing.T, l LumpType) {
	t.Helper()
	size := len(m.lumps[l])
	m.lumps[l] = lzmaLump(t, m.lumps[l], size)
	binary.LittleEndian.PutUint32(m.ident[l][:], uint32(size))
}

// lzmaLump compresses data and prefixes it with the lump header announcing
// actualSize bytes.
func lzmaLump(t *testing.T, data []byte, actualSize int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := lzma.WriterConfig{SizeInHeader: true, Size: int64(len(data))}.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	classic := buf.Bytes()
	stream := classic[13:]

	var out bytes.Buffer
	out.Write(lzmaID[:])
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(actualSize)))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(len(stream))))
	out.Write(classic[:5])
	out.Write(stream)
	return out.Bytes()
}

func (m *testMap) bytes(t *testing.T) []byte {
	t.Helper()
	body := make([]byte, HeaderSize)
	h := Header{
		Signature:   signature,
		Version:     m.version,
		MapRevision: 7,
	}
	place := func(l LumpType, data []byte) {
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
		h.Lumps[l] = LumpEntry{
			Offset:  int32(len(body)),
			Length:  int32(len(data)),
			Version: m.lumpVersion[l],
			Ident:   m.ident[l],
		}
		body = append(body, data...)
	}
	for l := LumpType(0); int(l) < LumpCount; l++ {
		if l == LumpGame || len(m.lumps[l]) == 0 {
			h.Lumps[l].Version = m.lumpVersion[l]
			continue
		}
		place(l, m.lumps[l])
	}
	if len(m.gameLumps) > 0 {
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
		start := len(body)
		dataStart := start + 4 + gameLumpEntrySize*len(m.gameLumps)
		var dir bytes.Buffer
		require.NoError(t, binary.Write(&dir, binary.LittleEndian, int32(len(m.gameLumps))))
		var data []byte
		for _, g := range m.gameLumps {
			require.NoError(t, binary.Write(&dir, binary.LittleEndian, GameLumpEntry{
				ID:      g.id,
				Flags:   g.flags,
				Version: g.version,
				Offset:  int32(dataStart + len(data)),
				Length:  int32(len(g.data)),
			}))
			data = append(data, g.data...)
		}
		place(LumpGame, append(dir.Bytes(), data...))
	}
	copy(body, encode(t, h))
	return body
}

// setEntry overwrites the directory entry of l in an encoded file.
func setEntry(t *testing.T, data []byte, l LumpType, e LumpEntry) {
	t.Helper()
	copy(data[8+16*int(l):], encode(t, e))
}

const (
	testLeafSolid    = 0 // on disk
	testLeafFront    = 1
	testWorldTexture = "brick/wall01"
)

var testVertices = []Vertex{
	{vec.Vec3{X: 0, Y: 0, Z: 0}},
	{vec.Vec3{X: 64, Y: 0, Z: 0}},
	{vec.Vec3{X: 64, Y: 64, Z: 0}},
	{vec.Vec3{X: 0, Y: 64, Z: 0}},
}

func noNeighbours() ([4]rawDispNeighbour, [4]rawDispCornerNeighbours) {
	var e [4]rawDispNeighbour
	var c [4]rawDispCornerNeighbours
	for i := range e {
		for s := range e[i].SubNeighbours {
			e[i].SubNeighbours[s].Neighbour = NoNeighbour
		}
		c[i].Neighbours = [4]uint16{NoNeighbour, NoNeighbour, NoNeighbour, NoNeighbour}
	}
	return e, c
}

func testDispInfo() rawDisplacementInfo {
	e, c := noNeighbours()
	e[0].SubNeighbours[0] = rawDispSubNeighbour{Neighbour: 0, Orientation: 1, Span: 0, NeighbourSpan: 2}
	c[0] = rawDispCornerNeighbours{Neighbours: [4]uint16{0, NoNeighbour, 0, 0}, Count: 2}
	c[1].Count = 4
	return rawDisplacementInfo{
		StartPosition:    vec.Vec3{X: 64, Y: 64, Z: 0},
		Power:            2,
		MapFace:          1,
		EdgeNeighbours:   e,
		CornerNeighbours: c,
	}
}

func testStaticProps(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	var name [staticPropNameLength]byte
	copy(name[:], "models/props/crate.mdl")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(1)))
	buf.Write(name[:])
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(2)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []uint16{testLeafFront, 3}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(1)))
	p := staticPropV10{FlagsEx: uint32(StaticPropNoPerTexelLighting), LightmapResX: 32, LightmapResY: 16}
	p.Origin = vec.Vec3{X: 16, Y: 16, Z: 8}
	p.LeafCount = 2
	p.Solid = uint8(SolidVPhysics)
	p.Flags = uint8(StaticPropFades)
	p.MinDXLevel = 80
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, p))
	return buf.Bytes()
}

func testPak(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("materials/brick/wall01.vmt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`"LightmappedGeneric" {}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const testEntities = "{\n\"classname\" \"worldspawn\"\n\"mapversion\" \"17\"\n}\n" +
	"{\n\"origin\" \"0 0 64\"\n\"classname\" \"info_player_start\"\n\"message\" \"a {brace}\"\n}\n\x00"

// newWorld builds a small map: one node splitting space at z=0 into a solid
// leaf below and an empty leaf above, four faces, one displacement, two
// visibility clusters and a static prop.
func newWorld(t *testing.T) *testMap {
	t.Helper()
	m := newTestMap()
	m.lumps[LumpEntities] = []byte(testEntities)
	m.set(t, LumpPlanes, []Plane{
		{Normal: vec.Vec3{Z: 1}, Dist: 0, Type: 2},
		{Normal: vec.Vec3{X: 1}, Dist: 0, Type: 0},
	})
	m.set(t, LumpVertices, testVertices)
	m.set(t, LumpEdges, []Edge{{}, {[2]uint16{0, 1}}, {[2]uint16{1, 2}}, {[2]uint16{2, 3}}, {[2]uint16{3, 0}}})
	m.set(t, LumpSurfaceEdges, []SurfaceEdge{1, 2, 3, 4, -4, -3, -2, -1})
	m.set(t, LumpFaces, []Face{
		{
			PlaneNum: 0, FirstEdge: 0, NumEdges: 4, TextureInfo: 0, DisplacementInfo: -1,
			Styles: [4]uint8{0, noStyle, noStyle, noStyle}, LightOffset: 0,
			LightmapTextureSizeInLuxels: [2]int32{1, 1},
		},
		{
			PlaneNum: 0, FirstEdge: 0, NumEdges: 4, TextureInfo: 0, DisplacementInfo: 0,
			Styles: [4]uint8{noStyle, noStyle, noStyle, noStyle}, LightOffset: -1,
		},
		{
			PlaneNum: 0, FirstEdge: 4, NumEdges: 4, TextureInfo: 1, DisplacementInfo: -1,
			Styles: [4]uint8{noStyle, noStyle, noStyle, noStyle}, LightOffset: -1,
		},
		{
			PlaneNum: 1, FirstEdge: 0, NumEdges: 2, TextureInfo: 1, DisplacementInfo: -1,
			Styles: [4]uint8{noStyle, noStyle, noStyle, noStyle}, LightOffset: -1,
		},
	})
	m.set(t, LumpNodes, []Node{{
		PlaneNum:  0,
		Children:  [2]int32{-(testLeafFront + 1), -(testLeafSolid + 1)},
		Mins:      [3]int16{-128, -128, -128},
		Maxs:      [3]int16{128, 128, 128},
		FirstFace: 0,
		NumFaces:  1,
	}})
	m.set(t, LumpLeaves, []leafV1{
		{Contents: ContentsSolid, Cluster: -1, NumLeafBrushes: 1},
		{Contents: ContentsEmpty, Cluster: 1, AreaFlags: 3 | 5<<9, NumLeafFaces: 1},
		{Contents: ContentsWater, Cluster: 0},
		{Contents: ContentsEmpty, Cluster: 1},
	})
	m.set(t, LumpLeafFaces, []uint16{0})
	m.set(t, LumpLeafBrushes, []uint16{0})
	m.set(t, LumpModels, []Model{{
		Mins:     vec.Vec3{X: -128, Y: -128, Z: -128},
		Maxs:     vec.Vec3{X: 128, Y: 128, Z: 128},
		HeadNode: 0, FirstFace: 0, NumFaces: 4,
	}})
	m.set(t, LumpBrushes, []Brush{{FirstSide: 0, NumSides: 1, Contents: ContentsSolid}})
	m.set(t, LumpBrushSides, []BrushSide{{PlaneNum: 0, TextureInfo: 0, DisplacementInfo: -1}})
	m.set(t, LumpTextureInfo, []TextureInfo{
		{
			LightmapVecs: [2][4]float32{{1.0 / 64, 0, 0, 0}, {0, 1.0 / 64, 0, 0}},
			TextureData:  1,
		},
		{Flags: SurfaceNoDraw | SurfaceNoLight, TextureData: 0},
	})
	m.set(t, LumpTextureData, []TextureData{
		{NameStringTableID: 0, Width: 64, Height: 64},
		{NameStringTableID: 1, Width: 512, Height: 512},
	})
	m.lumps[LumpTextureDataStringData] = []byte("TOOLS/NODRAW\x00" + testWorldTexture + "\x00")
	m.set(t, LumpTextureDataStringTable, []int32{0, 13})
	m.set(t, LumpDisplacementInfo, []rawDisplacementInfo{testDispInfo()})
	verts := make([]DisplacementVertex, 25)
	for i := range verts {
		verts[i] = DisplacementVertex{Vector: vec.Vec3{Z: 1}, Distance: float32(i), Alpha: 255}
	}
	m.set(t, LumpDisplacementVertices, verts)
	tris := make([]DisplacementTriangleFlags, 32)
	for i := range tris {
		tris[i] = DisplacementTriangleSurface | DisplacementTriangleWalkable
	}
	tris[3] |= 0x8000
	m.set(t, LumpDisplacementTriangles, tris)
	// cluster 0 sees cluster 1, cluster 1 sees nothing else
	vis := encode(t, []int32{2, 20, 20, 21, 21})
	vis = append(vis, 0x02, 0x00, 0x01)
	m.lumps[LumpVisibility] = vis
	m.lumps[LumpLighting] = bytes.Repeat([]byte{128, 64, 32, 1}, 4)
	m.lumps[LumpPakFile] = testPak(t)
	m.gameLumps = []testGameLump{{id: GameLumpStaticProps, version: 10, data: testStaticProps(t)}}
	return m
}

func readWorld(t *testing.T) *Bsp {
	t.Helper()
	b, err := Read(newWorld(t).bytes(t))
	require.NoError(t, err)
	return b
}
