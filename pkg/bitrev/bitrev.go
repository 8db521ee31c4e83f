package bitrev

import (
	"github.com/matzehuels/butterfly/pkg/errors"
)

// MaxBits is the largest table width Permutation accepts. A 20-bit table
// already holds a million entries.
const MaxBits = 20

// Permutation returns the table mapping each index n in [0, 2^bits) to its
// bit-reversal over bits bits.
//
// A width of 0 yields the single-entry table [0]. Negative widths and widths
// above MaxBits return an INVALID_ARGUMENT error.
func Permutation(bits int) ([]int, error) {
	if err := errors.ValidateLogN(bits, MaxBits); err != nil {
		return nil, err
	}
	if bits == 0 {
		return []int{0}, nil
	}

	half := 1 << (bits - 1)
	table := make([]int, 1<<bits)
	table[0] = 0
	table[1] = half
	for n := 1; n < half; n++ {
		idx := n << 1
		table[idx] = table[n] >> 1
		table[idx+1] = table[idx] + half
	}
	return table, nil
}

// Reverse reverses the low bits bits of x, one bit at a time.
// Bits of x above the width are ignored.
func Reverse(x, bits int) int {
	r := 0
	for range bits {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}

// IsPermutation reports whether table holds every value of [0, len(table))
// exactly once.
func IsPermutation(table []int) bool {
	seen := make([]bool, len(table))
	for _, v := range table {
		if v < 0 || v >= len(table) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
