// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"iter"

	"github.com/pkg/errors"
)

// VisData is the decoded visibility lump. Every cluster has an offset into
// the lump for its potentially visible set and one for its potentially
// audible set, both run-length compressed.
type VisData struct {
	ClusterCount int
	PVSOffsets   []int32
	PASOffsets   []int32
	data         []byte
}

func decodeVisData(data []byte, maxClusters int) (VisData, error) {
	var v VisData
	if len(data) == 0 {
		return v, nil
	}
	if len(data) < 4 {
		return v, &InvalidLumpSizeError{Lump: LumpVisibility, ElementSize: 4, LumpSize: len(data)}
	}
	n := int(int32(binary.LittleEndian.Uint32(data)))
	if n < 0 || n > maxClusters {
		return v, errors.Errorf("visibility cluster count %d out of range [0,%d]", n, maxClusters)
	}
	if 4+8*n > len(data) {
		return v, &InvalidLumpSizeError{Lump: LumpVisibility, ElementSize: 8, LumpSize: len(data)}
	}
	v.ClusterCount = n
	v.PVSOffsets = make([]int32, n)
	v.PASOffsets = make([]int32, n)
	for i := 0; i < n; i++ {
		p := 4 + 8*i
		v.PVSOffsets[i] = int32(binary.LittleEndian.Uint32(data[p:]))
		v.PASOffsets[i] = int32(binary.LittleEndian.Uint32(data[p+4:]))
		for _, o := range []int32{v.PVSOffsets[i], v.PASOffsets[i]} {
			if o < 0 || int(o) > len(data) {
				return v, &InvalidIndexError{From: "visibility cluster", To: "vis byte", Index: int(o), Len: len(data)}
			}
		}
	}
	v.data = data
	return v, nil
}

// ClusterSet is a dense bit set over all clusters, least significant bit
// first.
type ClusterSet struct {
	bits []byte
	n    int
}

func newClusterSet(n int) ClusterSet {
	return ClusterSet{bits: make([]byte, (n+7)/8), n: n}
}

func (s ClusterSet) Len() int {
	return s.n
}

func (s ClusterSet) Has(cluster int) bool {
	if cluster < 0 || cluster >= s.n {
		return false
	}
	return s.bits[cluster>>3]&(1<<(cluster&7)) != 0
}

func (s ClusterSet) set(cluster int) {
	s.bits[cluster>>3] |= 1 << (cluster & 7)
}

// Bytes returns the packed representation. Bits past Len are zero.
func (s ClusterSet) Bytes() []byte {
	return s.bits
}

// Clusters yields the members in ascending order.
func (s ClusterSet) Clusters() iter.Seq[int] {
	return func(yield func(int) bool) {
		for c := 0; c < s.n; c++ {
			if s.Has(c) && !yield(c) {
				return
			}
		}
	}
}

// VisibleClusters decompresses the potentially visible set of cluster.
func (v *VisData) VisibleClusters(cluster int) (ClusterSet, error) {
	if cluster < 0 || cluster >= v.ClusterCount {
		return ClusterSet{}, errors.Wrapf(ErrNoCluster, "cluster %d of %d", cluster, v.ClusterCount)
	}
	return v.decompress(cluster, int(v.PVSOffsets[cluster]))
}

// AudibleClusters decompresses the potentially audible set of cluster.
func (v *VisData) AudibleClusters(cluster int) (ClusterSet, error) {
	if cluster < 0 || cluster >= v.ClusterCount {
		return ClusterSet{}, errors.Wrapf(ErrNoCluster, "cluster %d of %d", cluster, v.ClusterCount)
	}
	return v.decompress(cluster, int(v.PASOffsets[cluster]))
}

// decompress expands the run-length stream at offset:
//
//	a non zero byte is a bit mask for the next 8 clusters
//	a zero byte is followed by the number of all zero mask bytes it replaces
//
// so
//
//	07 00 05 05 00 03 01 01
//
// expands to the masks
//
//	07 00 00 00 00 00 05 00 00 00 01 01
func (v *VisData) decompress(cluster, offset int) (ClusterSet, error) {
	n := v.ClusterCount
	set := newClusterSet(n)
	in := v.data[offset:]
	i := 0
	for c := 0; c < n; {
		if i >= len(in) {
			return ClusterSet{}, &VisDataError{Cluster: cluster, Offset: offset + i}
		}
		b := in[i]
		if b != 0 {
			for bit := 0; bit < 8 && c+bit < n; bit++ {
				if b&(1<<bit) != 0 {
					set.set(c + bit)
				}
			}
			c += 8
			i++
			continue
		}
		if i+1 >= len(in) {
			return ClusterSet{}, &VisDataError{Cluster: cluster, Offset: offset + i}
		}
		c += 8 * int(in[i+1])
		i += 2
	}
	return set, nil
}
