// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"govbsp/math"
	"govbsp/math/vec"
)

type Angles struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

// Normalized maps every angle into [0, 360).
func (a Angles) Normalized() Angles {
	return Angles{
		Pitch: math.AngleMod(a.Pitch),
		Yaw:   math.AngleMod(a.Yaw),
		Roll:  math.AngleMod(a.Roll),
	}
}

// Forward is the unit vector the angles point to. Roll has no influence.
func (a Angles) Forward() vec.Vec3 {
	p, y := math.Radians(a.Pitch), math.Radians(a.Yaw)
	cp := math32.Cos(p)
	return vec.Vec3{
		X: cp * math32.Cos(y),
		Y: cp * math32.Sin(y),
		Z: -math32.Sin(p),
	}
}

type StaticPropSolidity uint8

const (
	SolidNone StaticPropSolidity = iota
	SolidBSP
	SolidBBox
	SolidOBB
	SolidOBBYaw
	SolidCustom
	SolidVPhysics
)

const staticPropSolidOffset = 30

const staticPropNameLength = 128

type staticPropV4 struct {
	Origin         vec.Vec3
	Angles         Angles
	PropType       uint16
	FirstLeaf      uint16
	LeafCount      uint16
	Solid          uint8
	Flags          uint8
	Skin           int32
	FadeMinDist    float32
	FadeMaxDist    float32
	LightingOrigin vec.Vec3
}

type staticPropV5 struct {
	staticPropV4
	ForcedFadeScale float32
}

type staticPropV6 struct {
	staticPropV5
	MinDXLevel uint16
	MaxDXLevel uint16
}

type staticPropV7 struct {
	staticPropV6
	DiffuseModulation [4]uint8
}

type staticPropV10 struct {
	staticPropV6
	FlagsEx      uint32
	LightmapResX uint16
	LightmapResY uint16
}

// StaticProp is the version independent static prop. Fields introduced after
// the on-disk version stay zero.
type StaticProp struct {
	Origin vec.Vec3
	Angles Angles
	// index into the model dictionary
	PropType          uint16
	FirstLeaf         uint16
	LeafCount         uint16
	Solid             StaticPropSolidity
	Flags             StaticPropFlags
	Skin              int32
	FadeMinDist       float32
	FadeMaxDist       float32
	LightingOrigin    vec.Vec3
	ForcedFadeScale   float32
	MinDXLevel        uint16
	MaxDXLevel        uint16
	DiffuseModulation [4]uint8
	LightmapResX      uint16
	LightmapResY      uint16
}

func (p staticPropV4) upgrade() StaticProp {
	return StaticProp{
		Origin:         p.Origin,
		Angles:         p.Angles,
		PropType:       p.PropType,
		FirstLeaf:      p.FirstLeaf,
		LeafCount:      p.LeafCount,
		Solid:          StaticPropSolidity(p.Solid),
		Flags:          StaticPropFlags(p.Flags),
		Skin:           p.Skin,
		FadeMinDist:    p.FadeMinDist,
		FadeMaxDist:    p.FadeMaxDist,
		LightingOrigin: p.LightingOrigin,
	}
}

func (p staticPropV5) upgrade() StaticProp {
	s := p.staticPropV4.upgrade()
	s.ForcedFadeScale = p.ForcedFadeScale
	return s
}

func (p staticPropV6) upgrade() StaticProp {
	s := p.staticPropV5.upgrade()
	s.MinDXLevel = p.MinDXLevel
	s.MaxDXLevel = p.MaxDXLevel
	return s
}

func (p staticPropV7) upgrade() StaticProp {
	s := p.staticPropV6.upgrade()
	s.DiffuseModulation = p.DiffuseModulation
	return s
}

func (p staticPropV10) upgrade() StaticProp {
	s := p.staticPropV6.upgrade()
	// the legacy byte and the wide field may both carry bits
	s.Flags |= StaticPropFlags(p.FlagsEx)
	s.LightmapResX = p.LightmapResX
	s.LightmapResY = p.LightmapResY
	return s
}

// StaticPropLump is the decoded 'sprp' game lump.
type StaticPropLump struct {
	Version    uint16
	Dictionary []string
	// leaf indexes referenced by FirstLeaf/LeafCount of the props
	LeafIndices []uint16
	Props       []StaticProp
}

type staticPropRecord interface {
	staticPropV4 | staticPropV5 | staticPropV6 | staticPropV7 | staticPropV10
	upgrade() StaticProp
}

func decodeProps[T staticPropRecord](c *cursor, base int) ([]StaticProp, error) {
	n, err := c.count(recordSize[T]())
	if err != nil {
		return nil, errors.Wrap(err, "static props")
	}
	size := recordSize[T]()
	start := c.pos
	raw, err := readSlice[T](LumpGame, c.data[start:start+n*size])
	if err != nil {
		return nil, err
	}
	c.pos += n * size
	props := make([]StaticProp, n)
	for i, r := range raw {
		props[i] = r.upgrade()
		if props[i].Solid > SolidVPhysics {
			return nil, &InvalidEnumError{
				Field:    "static prop solidity",
				Value:    int(props[i].Solid),
				Position: base + start + i*size + staticPropSolidOffset,
			}
		}
	}
	return props, nil
}

// DecodeStaticProps decodes a static prop game lump of the given version.
// Versions 4 to 7 and 10 are understood.
func DecodeStaticProps(data []byte, version uint16) (StaticPropLump, error) {
	l := StaticPropLump{Version: version}
	var decode func(*cursor, int) ([]StaticProp, error)
	switch version {
	case 4:
		decode = decodeProps[staticPropV4]
	case 5:
		decode = decodeProps[staticPropV5]
	case 6:
		decode = decodeProps[staticPropV6]
	case 7:
		decode = decodeProps[staticPropV7]
	case 10:
		decode = decodeProps[staticPropV10]
	default:
		return l, &UnsupportedLumpVersionError{Lump: GameLumpStaticProps.String(), Version: int(version)}
	}

	c := &cursor{data: data}
	n, err := c.count(staticPropNameLength)
	if err != nil {
		return l, errors.Wrap(err, "static prop dictionary")
	}
	l.Dictionary = make([]string, n)
	for i := range l.Dictionary {
		pos := c.pos
		b, err := c.bytes(staticPropNameLength)
		if err != nil {
			return l, errors.Wrap(err, "static prop dictionary")
		}
		s, err := cString(b, pos)
		if err != nil {
			return l, err
		}
		l.Dictionary[i] = s
	}

	n, err = c.count(2)
	if err != nil {
		return l, errors.Wrap(err, "static prop leaves")
	}
	leaves, err := readSlice[uint16](LumpGame, c.data[c.pos:c.pos+2*n])
	if err != nil {
		return l, err
	}
	c.pos += 2 * n
	l.LeafIndices = leaves

	props, err := decode(c, 0)
	if err != nil {
		return l, err
	}
	l.Props = props
	return l, nil
}
