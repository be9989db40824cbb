// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// Flag sets keep every bit they were decoded with, including ones without a
// name here. Membership is tested with Has.

type TextureFlags uint32

const (
	SurfaceLight     TextureFlags = 1 << iota // value will hold the light strength
	SurfaceSky2D                              // 0x0002
	SurfaceSky                                // 0x0004
	SurfaceWarp                               // 0x0008
	SurfaceTrans                              // 0x0010
	SurfaceNoPortal                           // 0x0020
	SurfaceTrigger                            // 0x0040
	SurfaceNoDraw                             // 0x0080
	SurfaceHint                               // 0x0100
	SurfaceSkip                               // 0x0200
	SurfaceNoLight                            // 0x0400
	SurfaceBumpLight                          // 0x0800
	SurfaceNoShadows                          // 0x1000
	SurfaceNoDecals                           // 0x2000
	SurfaceNoChop                             // 0x4000
	SurfaceHitbox                             // 0x8000
)

// Has reports whether any bit of f is set.
func (t TextureFlags) Has(f TextureFlags) bool {
	return t&f != 0
}

type ContentFlags uint32

const ContentsEmpty ContentFlags = 0

const (
	ContentsSolid                ContentFlags = 1 << iota
	ContentsWindow                            // 0x00000002
	ContentsAux                               // 0x00000004
	ContentsGrate                             // 0x00000008
	ContentsSlime                             // 0x00000010
	ContentsWater                             // 0x00000020
	ContentsMist                              // 0x00000040
	ContentsOpaque                            // 0x00000080
	ContentsTestFogVolume                     // 0x00000100
	ContentsUnused                            // 0x00000200
	ContentsUnused6                           // 0x00000400
	ContentsTeam1                             // 0x00000800
	ContentsTeam2                             // 0x00001000
	ContentsIgnoreNoDrawOpaque                // 0x00002000
	ContentsMoveable                          // 0x00004000
	ContentsAreaPortal                        // 0x00008000
	ContentsPlayerClip                        // 0x00010000
	ContentsMonsterClip                       // 0x00020000
	ContentsCurrent0                          // 0x00040000
	ContentsCurrent90                         // 0x00080000
	ContentsCurrent180                        // 0x00100000
	ContentsCurrent270                        // 0x00200000
	ContentsCurrentUp                         // 0x00400000
	ContentsCurrentDown                       // 0x00800000
	ContentsOrigin                            // 0x01000000
	ContentsMonster                           // 0x02000000
	ContentsDebris                            // 0x04000000
	ContentsDetail                            // 0x08000000
	ContentsTranslucent                       // 0x10000000
	ContentsLadder                            // 0x20000000
	ContentsHitbox                            // 0x40000000
)

func (c ContentFlags) Has(f ContentFlags) bool {
	return c&f != 0
}

type DisplacementTriangleFlags uint16

const (
	DisplacementTriangleSurface   DisplacementTriangleFlags = 1 << iota
	DisplacementTriangleWalkable                            // 0x02
	DisplacementTriangleBuildable                           // 0x04
	DisplacementTriangleSurfProp1                           // 0x08
	DisplacementTriangleSurfProp2                           // 0x10
)

func (d DisplacementTriangleFlags) Has(f DisplacementTriangleFlags) bool {
	return d&f != 0
}

type StaticPropFlags uint32

const (
	StaticPropFades               StaticPropFlags = 1 << iota
	StaticPropUseLightingOrigin                   // 0x0002
	StaticPropNoDraw                              // 0x0004
	StaticPropIgnoreNormals                       // 0x0008
	StaticPropNoShadow                            // 0x0010
	StaticPropScreenSpaceFade                     // 0x0020
	StaticPropNoPerVertexLighting                 // 0x0040
	StaticPropNoSelfShadowing                     // 0x0080
	StaticPropNoPerTexelLighting                  // 0x0100
)

func (s StaticPropFlags) Has(f StaticPropFlags) bool {
	return s&f != 0
}
