// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// LumpType identifies one of the 64 directory slots.
type LumpType int

const (
	LumpEntities LumpType = iota
	LumpPlanes
	LumpTextureData
	LumpVertices
	LumpVisibility
	LumpNodes
	LumpTextureInfo
	LumpFaces
	LumpLighting
	LumpOcclusion
	LumpLeaves
	LumpFaceIDs
	LumpEdges
	LumpSurfaceEdges
	LumpModels
	LumpWorldLights
	LumpLeafFaces
	LumpLeafBrushes
	LumpBrushes
	LumpBrushSides
	LumpAreas
	LumpAreaPortals
	LumpPortals
	LumpClusters
	LumpPortalVerts
	LumpClusterPortals
	LumpDisplacementInfo
	LumpOriginalFaces
	LumpPhysDisplacement
	LumpPhysCollide
	LumpVertNormals
	LumpVertNormalIndices
	LumpDisplacementLightmapAlphas
	LumpDisplacementVertices
	LumpDisplacementLightmapSamplePositions
	LumpGame
	LumpLeafWaterData
	LumpPrimitives
	LumpPrimVerts
	LumpPrimIndices
	LumpPakFile
	LumpClipPortalVerts
	LumpCubemaps
	LumpTextureDataStringData
	LumpTextureDataStringTable
	LumpOverlays
	LumpLeafMinDistToWater
	LumpFaceMacroTextureInfo
	LumpDisplacementTriangles
	LumpPhysCollideSurface
	LumpWaterOverlays
	LumpLeafAmbientIndexHDR
	LumpLeafAmbientIndex
	LumpLightingHDR
	LumpWorldLightsHDR
	LumpLeafAmbientLightingHDR
	LumpLeafAmbientLighting
	LumpXZipPakFile
	LumpFacesHDR
	LumpMapFlags
	LumpOverlayFades
	LumpUnused61
	LumpUnused62
	LumpUnused63
)

// LumpCount is the number of directory entries in every header.
const LumpCount = 64

var lumpNames = [LumpCount]string{
	"entities", "planes", "texdata", "vertexes", "visibility", "nodes", "texinfo",
	"faces", "lighting", "occlusion", "leafs", "faceids", "edges", "surfedges",
	"models", "worldlights", "leaffaces", "leafbrushes", "brushes", "brushsides",
	"areas", "areaportals", "portals", "clusters", "portalverts", "clusterportals",
	"dispinfo", "originalfaces", "physdisp", "physcollide", "vertnormals",
	"vertnormalindices", "disp_lightmap_alphas", "disp_verts",
	"disp_lightmap_sample_positions", "game_lump", "leafwaterdata", "primitives",
	"primverts", "primindices", "pakfile", "clipportalverts", "cubemaps",
	"texdata_string_data", "texdata_string_table", "overlays", "leafmindisttowater",
	"face_macro_texture_info", "disp_tris", "physcollidesurface", "wateroverlays",
	"leaf_ambient_index_hdr", "leaf_ambient_index", "lighting_hdr", "worldlights_hdr",
	"leaf_ambient_lighting_hdr", "leaf_ambient_lighting", "xzippakfile", "faces_hdr",
	"map_flags", "overlay_fades", "unused61", "unused62", "unused63",
}

func (t LumpType) String() string {
	if t < 0 || int(t) >= LumpCount {
		return fmt.Sprintf("lump(%d)", int(t))
	}
	return lumpNames[t]
}

var signature = [4]byte{'V', 'B', 'S', 'P'}

// HeaderSize is the size of the on-disk header including the directory.
const HeaderSize = 4 + 4 + LumpCount*16 + 4

// LumpEntry is one directory slot. A non-zero Ident marks the lump as LZMA
// compressed, the engine stores the uncompressed size there.
type LumpEntry struct {
	Offset  int32
	Length  int32
	Version int32
	Ident   [4]byte
}

func (e LumpEntry) Compressed() bool {
	return e.Ident != [4]byte{}
}

// UncompressedSize is the size announced by Ident, only meaningful for
// compressed lumps.
func (e LumpEntry) UncompressedSize() int {
	return int(binary.LittleEndian.Uint32(e.Ident[:]))
}

func (e LumpEntry) String() string {
	s := fmt.Sprintf("v%d %s @ %d", e.Version, humanize.Bytes(uint64(max(e.Length, 0))), e.Offset)
	if e.Compressed() {
		s += fmt.Sprintf(" (lzma, %s)", humanize.Bytes(uint64(e.UncompressedSize())))
	}
	return s
}

type Header struct {
	Signature   [4]byte
	Version     int32
	Lumps       [LumpCount]LumpEntry
	MapRevision int32
}

func (h *Header) Entry(t LumpType) LumpEntry {
	return h.Lumps[t]
}

func supportedVersion(v int32) bool {
	return v >= 19 && v <= 21
}

func readHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		if len(data) >= 4 && !bytes.Equal(data[:4], signature[:]) {
			return h, errors.Wrapf(ErrInvalidSignature, "got %q", data[:4])
		}
		return h, errors.Errorf("file too small for header: %d bytes", len(data))
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, errors.Wrap(err, "read header")
	}
	if h.Signature != signature {
		return h, errors.Wrapf(ErrInvalidSignature, "got %q", h.Signature[:])
	}
	if !supportedVersion(h.Version) {
		return h, errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
	}
	return h, nil
}
