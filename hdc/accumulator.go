package hdc

import (
	"fmt"
	"sync"
)

// poolRegistry hands out one elementPool per dimension, lazily, shared by
// every Accumulator in the process. Graph node-memory construction and
// classifier sample encoding both build many short-lived sums per Fit
// call, so recycling the backing buffer across Accumulators matters more
// than it would for a one-off Bundle call.
var poolRegistry sync.Map // int -> *elementPool

func poolFor(dims int) *elementPool {
	if p, ok := poolRegistry.Load(dims); ok {
		return p.(*elementPool)
	}
	p := newElementPool(dims)
	actual, _ := poolRegistry.LoadOrStore(dims, p)
	return actual.(*elementPool)
}

// Accumulator incrementally bundles (element-wise sums) vectors of a fixed
// dims/alphabet without allocating an intermediate []Vector slice the way
// a Bundle(vecs...) call requires — used by graph's per-node neighbor
// memory and classify's per-sample feature bundle, both of which fold
// tens to thousands of vectors per Fit call.
//
// An Accumulator is not safe for concurrent use; callers that fan work out
// across goroutines create one Accumulator per goroutine.
type Accumulator struct {
	dims     int
	alphabet Alphabet
	elements []int64
	pool     *elementPool
	done     bool
}

// NewAccumulator starts an empty running sum over dims/alphabet.
func NewAccumulator(dims int, alphabet Alphabet) (*Accumulator, error) {
	if dims < MinDims {
		return nil, fmt.Errorf("%w: dims=%d below minimum %d", ErrContractViolation, dims, MinDims)
	}
	if !alphabet.valid() {
		return nil, fmt.Errorf("%w: alphabet %q not recognised", ErrContractViolation, alphabet)
	}
	p := poolFor(dims)
	return &Accumulator{dims: dims, alphabet: alphabet, elements: p.get(), pool: p}, nil
}

// Add folds v into the running sum. v must share the Accumulator's dims
// and alphabet.
func (a *Accumulator) Add(v Vector) error {
	if a.done {
		return fmt.Errorf("%w: Accumulator already finalized", ErrContractViolation)
	}
	if v.dims != a.dims {
		return fmt.Errorf("%w: dimension mismatch (%d vs %d)", ErrContractViolation, v.dims, a.dims)
	}
	if v.alphabet != a.alphabet {
		return fmt.Errorf("%w: alphabet mismatch (%s vs %s)", ErrContractViolation, v.alphabet, a.alphabet)
	}
	for i, e := range v.elements {
		a.elements[i] += e
	}
	return nil
}

// Finalize returns the accumulated sum as a named Vector (elements may be
// outside the alphabet — call Normalize if alphabet-valid elements are
// required) and releases the Accumulator's backing buffer back to the
// shared pool. Finalize must be called exactly once.
func (a *Accumulator) Finalize(name string) Vector {
	out := Vector{
		name:     name,
		dims:     a.dims,
		alphabet: a.alphabet,
		elements: append([]int64(nil), a.elements...),
	}
	a.pool.put(a.elements)
	a.elements = nil
	a.done = true
	return out
}
