// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"govbsp/math/vec"
)

// PlaneSide is the result of BoxOnPlaneSide.
type PlaneSide int

const (
	SideFront PlaneSide = 1
	SideBack  PlaneSide = 2
	// the box is split by the plane
	SideBoth = SideFront | SideBack
)

// PointDistance is the signed distance of p to the plane, positive in front.
func (p *Plane) PointDistance(v vec.Vec3) float32 {
	if p.Type < 3 {
		return v.Idx(int(p.Type)) - p.Dist
	}
	return vec.Dot(v, p.Normal) - p.Dist
}

func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) PlaneSide {
	if p.Type < 3 {
		if p.Dist <= mins.Idx(int(p.Type)) {
			return SideFront
		}
		if p.Dist >= maxs.Idx(int(p.Type)) {
			return SideBack
		}
		return SideBoth
	}
	// d1 uses the corner furthest along the normal, d2 the nearest one
	var near, far vec.Vec3
	n := p.Normal
	pick := func(c, lo, hi float32) (float32, float32) {
		if c < 0 {
			return hi, lo
		}
		return lo, hi
	}
	near.X, far.X = pick(n.X, mins.X, maxs.X)
	near.Y, far.Y = pick(n.Y, mins.Y, maxs.Y)
	near.Z, far.Z = pick(n.Z, mins.Z, maxs.Z)
	d1 := vec.Dot(n, far)
	d2 := vec.Dot(n, near)

	var sides PlaneSide
	if d1 >= p.Dist {
		sides = SideFront
	}
	if d2 < p.Dist {
		sides |= SideBack
	}
	return sides
}
