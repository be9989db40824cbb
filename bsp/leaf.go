// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"iter"
	"sort"
)

func (l LeafHandle) IsLeaf() bool {
	return true
}

func (l LeafHandle) Cluster() int {
	return int(l.data.Cluster)
}

func (l LeafHandle) Contents() ContentFlags {
	return l.data.Contents
}

// Faces yields the faces marked as inside the leaf.
func (l LeafHandle) Faces() iter.Seq[FaceHandle] {
	return func(yield func(FaceHandle) bool) {
		first := int(l.data.FirstLeafFace)
		for _, f := range l.bsp.LeafFaces[first : first+int(l.data.NumLeafFaces)] {
			if !yield(FaceHandle{newHandle(l.bsp, l.bsp.Faces, int(f))}) {
				return
			}
		}
	}
}

func (l LeafHandle) Brushes() iter.Seq[BrushHandle] {
	return func(yield func(BrushHandle) bool) {
		first := int(l.data.FirstLeafBrush)
		for _, b := range l.bsp.LeafBrushes[first : first+int(l.data.NumLeafBrushes)] {
			if !yield(BrushHandle{newHandle(l.bsp, l.bsp.Brushes, int(b))}) {
				return
			}
		}
	}
}

// VisibleSet decodes the potentially visible clusters of the leaf. It wraps
// ErrNoCluster if the leaf is in no cluster.
func (l LeafHandle) VisibleSet() (ClusterSet, error) {
	return l.bsp.Visibility.VisibleClusters(l.Cluster())
}

// VisibleLeaves yields every leaf that is in the cluster of l or in a
// cluster visible from it. It wraps ErrNoCluster if l is in no cluster.
func (l LeafHandle) VisibleLeaves() (iter.Seq[LeafHandle], error) {
	set, err := l.VisibleSet()
	if err != nil {
		return nil, err
	}
	own := l.Cluster()
	return func(yield func(LeafHandle) bool) {
		for h := range l.bsp.AllLeaves() {
			c := h.Cluster()
			if c != own && !set.Has(c) {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}, nil
}

// Cluster is a run of leaves sharing one cluster id.
type Cluster struct {
	ID     int
	bsp    *Bsp
	first  int
	length int
}

func (c Cluster) Len() int {
	return c.length
}

func (c Cluster) Leaves() iter.Seq[LeafHandle] {
	return func(yield func(LeafHandle) bool) {
		for i := c.first; i < c.first+c.length; i++ {
			if !yield(LeafHandle{newHandle(c.bsp, c.bsp.Leaves, i)}) {
				return
			}
		}
	}
}

// Clusters yields the runs of leaves with equal cluster in ascending order.
// Leaves outside of any cluster form runs with a negative ID.
func (b *Bsp) Clusters() iter.Seq[Cluster] {
	return func(yield func(Cluster) bool) {
		for i := 0; i < len(b.Leaves); {
			id := b.Leaves[i].Cluster
			j := i + 1
			for j < len(b.Leaves) && b.Leaves[j].Cluster == id {
				j++
			}
			if !yield(Cluster{ID: int(id), bsp: b, first: i, length: j - i}) {
				return
			}
			i = j
		}
	}
}

// ClusterLeaves yields the leaves of one cluster.
func (b *Bsp) ClusterLeaves(cluster int) iter.Seq[LeafHandle] {
	lo := sort.Search(len(b.Leaves), func(i int) bool { return int(b.Leaves[i].Cluster) >= cluster })
	hi := sort.Search(len(b.Leaves), func(i int) bool { return int(b.Leaves[i].Cluster) > cluster })
	return Cluster{ID: cluster, bsp: b, first: lo, length: hi - lo}.Leaves()
}
