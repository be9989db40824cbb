// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"golang.org/x/exp/constraints"
)

// Clamp limits val to [lo, hi].
func Clamp[K constraints.Ordered](lo, val, hi K) K {
	if lo > val {
		return lo
	} else if hi < val {
		return hi
	}
	return val
}
