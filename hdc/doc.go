// Package hdc implements the hyperdimensional computing (HDC) substrate:
// named hypervectors over a binary or bipolar alphabet, the algebra that
// combines them (bind, bundle, subtract, permute, normalize), the distance
// measures used to compare them, and the Space that owns a consistent
// collection of them.
//
// Hypervectors are plain []int64 element slices rather than bitpacked words:
// unlike a pure XOR/majority scheme, this substrate's Bundle and Subtract
// operators must be able to hold sums and differences that temporarily leave
// the declared alphabet until Normalize is called.
package hdc
