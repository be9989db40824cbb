// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestLengthSquared(t *testing.T) {
	if NULL.LengthSquared() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.LengthSquared() != 9 {
			t.Errorf("%v LengthSquared is not 9", v)
		}
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Add(NULL, v); got != v {
		t.Errorf("Adding a null vector changed the vector")
	}
	got := Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Sub(v, v); got != NULL {
		t.Errorf("Sub(%v,%v) = %v want %v", v, v, got, NULL)
	}
	v2 := Vec3{9, 7, 5}
	got := Sub(v2, v)
	want := Vec3{8, 5, 2}
	if got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestScale(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := v.Scale(2)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("%v.Scale(2) = %v want %v", v, got, want)
	}
}

func TestDistanceSquared(t *testing.T) {
	a := Vec3{1, 1, 1}
	b := Vec3{3, 3, 2}
	if got := DistanceSquared(a, b); got != 9 {
		t.Errorf("DistanceSquared(%v,%v) = %v want 9", a, b, got)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{16, 8, -4}
	tests := []struct {
		frac float32
		want Vec3
	}{
		{0, a},
		{1, b},
		{0.5, Vec3{8, 4, -2}},
		{0.25, Vec3{4, 2, -1}},
	}
	for _, tc := range tests {
		if got := Lerp(a, b, tc.frac); got != tc.want {
			t.Errorf("Lerp(%v,%v,%v) = %v want %v", a, b, tc.frac, got, tc.want)
		}
	}
}

func TestIdx(t *testing.T) {
	v := Vec3{1, 2, 3}
	for i, want := range []float32{1, 2, 3} {
		if got := v.Idx(i); got != want {
			t.Errorf("Idx(%d) = %v want %v", i, got, want)
		}
	}
}
