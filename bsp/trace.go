// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"govbsp/math"
	"govbsp/math/vec"
)

type TracePlane struct {
	Normal   vec.Vec3
	Distance float32
}

// Trace is the result of TraceLine.
type Trace struct {
	AllSolid   bool
	StartSolid bool
	InOpen     bool
	InWater    bool
	// 1 if nothing was hit
	Fraction float32
	EndPos   vec.Vec3
	// the plane that was hit, facing the start point
	Plane TracePlane
}

// keeps the impact point on the near side of the plane
const traceEpsilon = 0.03125

type tracer struct {
	b     *Bsp
	mask  ContentFlags
	trace *Trace
	steps int
	err   error
}

func (t *tracer) solid(c ContentFlags) bool {
	return c.Has(t.mask)
}

// pointContents walks from child to the leaf containing p.
func (b *Bsp) pointContents(child int32, p vec.Vec3) (ContentFlags, error) {
	for steps := 0; steps <= len(b.Nodes); steps++ {
		tn, err := b.treeNode(child)
		if err != nil {
			return 0, err
		}
		if l, ok := tn.(LeafHandle); ok {
			return l.data.Contents, nil
		}
		n := tn.(NodeHandle)
		plane, err := n.Plane()
		if err != nil {
			return 0, err
		}
		if plane.data.PointDistance(p) < 0 {
			child = n.data.Children[1]
		} else {
			child = n.data.Children[0]
		}
	}
	return 0, errors.New("node tree contains a cycle")
}

// PointContents returns the contents of the world leaf containing p.
func (b *Bsp) PointContents(p vec.Vec3) (ContentFlags, error) {
	if len(b.Models) == 0 {
		return 0, errors.Wrap(ErrNotFound, "no world model")
	}
	return b.pointContents(b.Models[0].HeadNode, p)
}

func (t *tracer) recursiveCheck(child int32, p1f, p2f float32, p1, p2 vec.Vec3) bool {
	if t.err != nil {
		return false
	}
	t.steps++
	if t.steps > 4*len(t.b.Nodes)+4 {
		t.err = errors.New("node tree contains a cycle")
		return false
	}
	tn, err := t.b.treeNode(child)
	if err != nil {
		t.err = err
		return false
	}
	if l, ok := tn.(LeafHandle); ok {
		c := l.data.Contents
		if !t.solid(c) {
			t.trace.AllSolid = false
			if c.Has(ContentsWater | ContentsSlime) {
				t.trace.InWater = true
			} else {
				t.trace.InOpen = true
			}
		} else {
			t.trace.StartSolid = true
		}
		return true
	}
	node := tn.(NodeHandle)
	ph, err := node.Plane()
	if err != nil {
		t.err = err
		return false
	}
	plane := ph.data
	t1 := plane.PointDistance(p1)
	t2 := plane.PointDistance(p2)
	if t1 >= 0 && t2 >= 0 {
		return t.recursiveCheck(node.data.Children[0], p1f, p2f, p1, p2)
	}
	if t1 < 0 && t2 < 0 {
		return t.recursiveCheck(node.data.Children[1], p1f, p2f, p1, p2)
	}

	// put the crosspoint epsilon units on the near side
	d := t1 - t2
	frac := (t1 - traceEpsilon) / d
	if t1 < 0 {
		frac = (t1 + traceEpsilon) / d
	}
	frac = math.Clamp(0, frac, 1)
	midf := p1f + (p2f-p1f)*frac
	mid := vec.Lerp(p1, p2, frac)
	side := 0
	if t1 < 0 {
		side = 1
	}
	// move up to the node
	if !t.recursiveCheck(node.data.Children[side], p1f, midf, p1, mid) {
		return false
	}
	c, err := t.b.pointContents(node.data.Children[side^1], mid)
	if err != nil {
		t.err = err
		return false
	}
	if !t.solid(c) {
		return t.recursiveCheck(node.data.Children[side^1], midf, p2f, mid, p2)
	}
	if t.trace.AllSolid {
		return false // never got out of the solid area
	}
	// the other side of the node is solid, this is the impact point
	if side == 0 {
		t.trace.Plane = TracePlane{Normal: plane.Normal, Distance: plane.Dist}
	} else {
		t.trace.Plane = TracePlane{Normal: plane.Normal.Scale(-1), Distance: -plane.Dist}
	}
	for {
		c, err := t.b.pointContents(t.b.Models[0].HeadNode, mid)
		if err != nil {
			t.err = err
			return false
		}
		if !t.solid(c) {
			break
		}
		frac -= 0.1
		if frac < 0 {
			break
		}
		midf = p1f + (p2f-p1f)*frac
		mid = vec.Lerp(p1, p2, frac)
	}
	t.trace.Fraction = midf
	t.trace.EndPos = mid
	return false
}

// TraceLine moves a point from start to end through the world model and
// stops at the first leaf whose contents intersect mask.
func (b *Bsp) TraceLine(start, end vec.Vec3, mask ContentFlags) (Trace, error) {
	if len(b.Models) == 0 {
		return Trace{}, errors.Wrap(ErrNotFound, "no world model")
	}
	tr := Trace{
		AllSolid: true,
		Fraction: 1,
		EndPos:   end,
	}
	t := &tracer{b: b, mask: mask, trace: &tr}
	t.recursiveCheck(b.Models[0].HeadNode, 0, 1, start, end)
	if t.err != nil {
		return Trace{}, t.err
	}
	return tr, nil
}
