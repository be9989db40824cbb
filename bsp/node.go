// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"iter"

	"github.com/pkg/errors"

	"govbsp/math/vec"
)

// TreeNode is either a NodeHandle or a LeafHandle.
type TreeNode interface {
	IsLeaf() bool
	Index() int
}

func (n NodeHandle) IsLeaf() bool {
	return false
}

func (n NodeHandle) Plane() (Handle[Plane], error) {
	return lookup(n.bsp, n.bsp.Planes, int(n.data.PlaneNum), "node", "plane")
}

func (n NodeHandle) Faces() iter.Seq[FaceHandle] {
	return faceRange(n.bsp, int(n.data.FirstFace), int(n.data.NumFaces))
}

// Child returns the front (0) or back (1) child.
func (n NodeHandle) Child(side int) (TreeNode, error) {
	if side != 0 && side != 1 {
		return nil, errors.Errorf("invalid node side %d", side)
	}
	return n.bsp.treeNode(n.data.Children[side])
}

func (b *Bsp) treeNode(child int32) (TreeNode, error) {
	if child >= 0 {
		h, err := lookup(b, b.Nodes, int(child), "node", "node")
		if err != nil {
			return nil, err
		}
		return NodeHandle{h}, nil
	}
	leaf := int(-(child + 1))
	if err := checkIndex("node", "leaf", leaf, len(b.leafIndex)); err != nil {
		return nil, err
	}
	return LeafHandle{newHandle(b, b.Leaves, b.leafIndex[leaf])}, nil
}

// walk descends from the head node of the world model. Every step must
// go through a valid node, a cyclic tree ends in an error.
func (b *Bsp) walk(start int32, side func(p *Plane) int) (LeafHandle, error) {
	child := start
	for steps := 0; steps <= len(b.Nodes); steps++ {
		t, err := b.treeNode(child)
		if err != nil {
			return LeafHandle{}, err
		}
		if l, ok := t.(LeafHandle); ok {
			return l, nil
		}
		n := t.(NodeHandle)
		p, err := n.Plane()
		if err != nil {
			return LeafHandle{}, err
		}
		child = n.data.Children[side(p.data)]
	}
	return LeafHandle{}, errors.New("node tree contains a cycle")
}

// LeafAt returns the leaf of the world model containing p. Points on a plane
// belong to its front side.
func (b *Bsp) LeafAt(p vec.Vec3) (LeafHandle, error) {
	if len(b.Models) == 0 {
		return LeafHandle{}, errors.Wrap(ErrNotFound, "no world model")
	}
	return b.walk(b.Models[0].HeadNode, func(pl *Plane) int {
		if pl.PointDistance(p) < 0 {
			return 1
		}
		return 0
	})
}

// LeavesTouchingBox yields the leaves of the world model that intersect the
// box given by mins and maxs. Leaves reachable by more than one path are
// yielded once.
func (b *Bsp) LeavesTouchingBox(mins, maxs vec.Vec3) ([]LeafHandle, error) {
	if len(b.Models) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no world model")
	}
	var out []LeafHandle
	seen := make(map[int]bool)
	visited := make(map[int32]bool)
	stack := []int32{b.Models[0].HeadNode}
	for len(stack) > 0 {
		child := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, err := b.treeNode(child)
		if err != nil {
			return nil, err
		}
		if l, ok := t.(LeafHandle); ok {
			if !seen[l.index] {
				seen[l.index] = true
				out = append(out, l)
			}
			continue
		}
		if visited[child] {
			continue
		}
		visited[child] = true
		n := t.(NodeHandle)
		p, err := n.Plane()
		if err != nil {
			return nil, err
		}
		s := p.data.BoxOnPlaneSide(mins, maxs)
		if s&SideBack != 0 {
			stack = append(stack, n.data.Children[1])
		}
		if s&SideFront != 0 {
			stack = append(stack, n.data.Children[0])
		}
	}
	return out, nil
}
