// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"govbsp/math/vec"
)

const MaxLightStyles = 64

// LightStyles scales the lightmap of each style, 1 is the compiled
// brightness.
type LightStyles [MaxLightStyles]float32

// DefaultLightStyles has every style at full strength.
func DefaultLightStyles() *LightStyles {
	var s LightStyles
	for i := range s {
		s[i] = 1
	}
	return &s
}

// noStyle marks unused entries of Face.Styles.
const noStyle = 255

// Linear returns the color as linear floats, channel * 2^exponent / 255.
func (c ColorRGBExp32) Linear() vec.Vec3 {
	scale := math32.Pow(2, float32(c.Exponent)) / 255
	return vec.Vec3{
		X: float32(c.R) * scale,
		Y: float32(c.G) * scale,
		Z: float32(c.B) * scale,
	}
}

func decodeColor(b []byte) ColorRGBExp32 {
	return ColorRGBExp32{R: b[0], G: b[1], B: b[2], Exponent: int8(b[3])}
}

type lightTrace struct {
	b      *Bsp
	light  []byte
	styles *LightStyles
	depth  int
}

// recursiveLight follows the segment start-end through the tree and samples
// the lightmap of the first face it hits.
func (l *lightTrace) recursiveLight(child int32, start, end vec.Vec3, c *vec.Vec3) (bool, error) {
	l.depth++
	if l.depth > 2*len(l.b.Nodes)+2 {
		return false, errors.New("node tree contains a cycle")
	}
	nextChild := func(f float32) int {
		if f < 0 {
			return 1
		}
		return 0
	}
	var n NodeHandle
	var front, back float32
	for steps := 0; ; steps++ {
		if child < 0 || steps > len(l.b.Nodes) {
			return false, nil
		}
		h, err := l.b.Node(int(child))
		if err != nil {
			return false, err
		}
		n = h
		p, err := n.Plane()
		if err != nil {
			return false, err
		}
		front = p.data.PointDistance(start)
		back = p.data.PointDistance(end)
		if (back < 0) != (front < 0) {
			break
		}
		child = n.data.Children[nextChild(front)]
	}
	frac := front / (front - back)
	mid := vec.Lerp(start, end, frac)

	// front side
	if hit, err := l.recursiveLight(n.data.Children[nextChild(front)], start, mid, c); hit || err != nil {
		return hit, err
	}

	for f := range n.Faces() {
		hit, err := l.sampleFace(f, mid, c)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	// back side
	return l.recursiveLight(n.data.Children[nextChild(-front)], mid, end, c)
}

func (l *lightTrace) sampleFace(f FaceHandle, p vec.Vec3, c *vec.Vec3) (bool, error) {
	face := f.data
	if face.LightOffset < 0 {
		return false, nil
	}
	ti, err := f.TextureInfo()
	if err != nil {
		return false, err
	}
	if ti.Flags().Has(SurfaceNoLight | SurfaceSky | SurfaceSky2D) {
		return false, nil
	}
	lv := ti.data.LightmapVecs
	ds := lv[0][0]*p.X + lv[0][1]*p.Y + lv[0][2]*p.Z + lv[0][3] - float32(face.LightmapTextureMinsInLuxels[0])
	dt := lv[1][0]*p.X + lv[1][1]*p.Y + lv[1][2]*p.Z + lv[1][3] - float32(face.LightmapTextureMinsInLuxels[1])
	maxS := face.LightmapTextureSizeInLuxels[0]
	maxT := face.LightmapTextureSizeInLuxels[1]
	if ds < 0 || dt < 0 || ds > float32(maxS) || dt > float32(maxT) {
		return false, nil
	}
	width := int(maxS) + 1
	height := int(maxT) + 1
	// bump mapped faces store three more maps per style after the flat one
	perStyle := width * height
	if ti.Flags().Has(SurfaceBumpLight) {
		perStyle *= 4
	}
	s0, t0 := int(ds), int(dt)
	s1, t1 := min(s0+1, int(maxS)), min(t0+1, int(maxT))
	sfrac := ds - float32(s0)
	tfrac := dt - float32(t0)

	sample := func(base, s, t int) (vec.Vec3, error) {
		off := int(face.LightOffset) + 4*(base+t*width+s)
		if off < 0 || off+4 > len(l.light) {
			return vec.Vec3{}, &InvalidIndexError{From: "face", To: "lighting byte", Index: off, Len: len(l.light)}
		}
		return decodeColor(l.light[off : off+4]).Linear(), nil
	}
	for maps := 0; maps < len(face.Styles) && face.Styles[maps] != noStyle; maps++ {
		style := int(face.Styles[maps])
		if style >= MaxLightStyles {
			continue
		}
		scale := l.styles[style]
		base := maps * perStyle
		c00, err := sample(base, s0, t0)
		if err != nil {
			return false, err
		}
		c01, err := sample(base, s1, t0)
		if err != nil {
			return false, err
		}
		c10, err := sample(base, s0, t1)
		if err != nil {
			return false, err
		}
		c11, err := sample(base, s1, t1)
		if err != nil {
			return false, err
		}
		top := vec.Lerp(c00, c01, sfrac)
		bottom := vec.Lerp(c10, c11, sfrac)
		*c = vec.Add(*c, vec.Lerp(top, bottom, tfrac).Scale(scale))
	}
	return true, nil
}

// LightAt returns the linear light color at p, sampled from the lightmap of
// the first lit surface below p and scaled by the style values in s. A nil s
// uses DefaultLightStyles. Maps without lighting are fully bright.
func (b *Bsp) LightAt(p vec.Vec3, s *LightStyles) (vec.Vec3, error) {
	if s == nil {
		s = DefaultLightStyles()
	}
	light, err := b.lighting()
	if err != nil {
		return vec.Vec3{}, err
	}
	if len(light) == 0 {
		return vec.Vec3{X: 1, Y: 1, Z: 1}, nil
	}
	if len(b.Models) == 0 {
		return vec.Vec3{}, errors.Wrap(ErrNotFound, "no world model")
	}

	end := p
	end.Z -= 8192

	var color vec.Vec3
	t := &lightTrace{b: b, light: light, styles: s}
	if _, err := t.recursiveLight(b.Models[0].HeadNode, p, end, &color); err != nil {
		return vec.Vec3{}, err
	}
	return color, nil
}

// lighting returns the LDR lightmap lump, or the HDR one for maps compiled
// with HDR lighting only.
func (b *Bsp) lighting() ([]byte, error) {
	light, err := b.file.Lump(LumpLighting)
	if err != nil || len(light) > 0 {
		return light, err
	}
	return b.file.Lump(LumpLightingHDR)
}

// LightmapSample returns the raw lightmap sample i of a face, read from the
// same lighting lump LightAt uses.
func (f FaceHandle) LightmapSample(i int) (ColorRGBExp32, error) {
	light, err := f.bsp.lighting()
	if err != nil {
		return ColorRGBExp32{}, err
	}
	off := int(f.data.LightOffset) + 4*i
	if f.data.LightOffset < 0 || i < 0 || off+4 > len(light) {
		return ColorRGBExp32{}, &InvalidIndexError{From: "face", To: "lighting byte", Index: off, Len: len(light)}
	}
	return decodeColor(light[off : off+4]), nil
}
