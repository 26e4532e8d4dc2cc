package hdc

import (
	"math/rand"
	"time"
)

// Random generates a deterministic pseudorandom named Vector for the given
// seed: each element is drawn independently uniform over the alphabet
// (binary picks {0,1}; bipolar picks {-1,+1}). The same (dims, alphabet,
// seed) triple always produces bit-identical elements, and vectors from
// different seeds are quasi-orthogonal with overwhelming probability at
// dims>=MinDims.
//
// Random never touches the global math/rand generator: each call
// constructs its own *rand.Rand, so concurrent Fit calls drawing random
// vectors on separate goroutines never interfere with each other's
// sequences.
func Random(name string, dims int, alphabet Alphabet, seed uint64) (Vector, error) {
	v, err := New(name, dims, alphabet)
	if err != nil {
		return Vector{}, err
	}
	s := seed
	v.seed = &s

	r := rand.New(rand.NewSource(int64(seed))) //nolint:gosec
	fillRandom(v.elements, alphabet, r)
	return v, nil
}

// RandomUnseeded behaves like Random but derives its seed from the wall
// clock, for callers that have no caller-chosen seed to pass. The resolved
// seed is still recorded on the returned Vector so later calls to Seed()
// can observe what was used.
func RandomUnseeded(name string, dims int, alphabet Alphabet) (Vector, error) {
	return Random(name, dims, alphabet, uint64(time.Now().UnixNano())) //nolint:gosec
}

func fillRandom(elements []int64, alphabet Alphabet, r *rand.Rand) {
	for i := range elements {
		bit := r.Intn(2)
		if alphabet == AlphabetBipolar {
			if bit == 0 {
				elements[i] = -1
			} else {
				elements[i] = 1
			}
		} else {
			elements[i] = int64(bit)
		}
	}
}
