// Package bitrev computes bit-reversal permutations for radix-2 transforms.
//
// A decimation-in-time FFT consumes its input in bit-reversed order: the
// sample at position n of the first butterfly stage is x(rev(n)), where rev
// reverses the low logN bits of n. [Permutation] builds the whole table in
// O(N) without a per-bit loop by exploiting the recursive structure of the
// reversal:
//
//	rev(2n)   = rev(n) >> 1
//	rev(2n+1) = rev(2n) + N/2
//
// The table is a permutation of [0, N), is its own inverse, and always maps
// 0 to 0 and N-1 to N-1.
//
// # Usage
//
//	table, err := bitrev.Permutation(3)
//	// table == [0 4 2 6 1 5 3 7]
//
// [Reverse] is the direct per-bit reversal of a single index and serves as a
// reference when checking tables.
package bitrev
