package hdc

import (
	"sync"
	"testing"
)

func TestElementPool_GetIsZeroed(t *testing.T) {
	p := newElementPool(MinDims)
	buf := p.get()
	for i, e := range buf {
		if e != 0 {
			t.Fatalf("get returned non-zero element at index %d: %d", i, e)
		}
	}
	for i := range buf {
		buf[i] = 7
	}
	p.put(buf)

	buf2 := p.get()
	for i, e := range buf2 {
		if e != 0 {
			t.Fatalf("recycled get returned non-zero element at index %d: %d", i, e)
		}
	}
}

func TestElementPool_CorrectLength(t *testing.T) {
	p := newElementPool(MinDims)
	buf := p.get()
	if len(buf) != MinDims {
		t.Fatalf("get: len=%d, want %d", len(buf), MinDims)
	}
}

func TestPoolFor_SameDimsSharesPool(t *testing.T) {
	a := poolFor(MinDims)
	b := poolFor(MinDims)
	if a != b {
		t.Fatal("poolFor must return the same *elementPool for a repeated dims value")
	}
}

func TestPoolFor_DifferentDimsDistinctPools(t *testing.T) {
	a := poolFor(MinDims)
	b := poolFor(MinDims + 1)
	if a == b {
		t.Fatal("poolFor must return distinct pools for distinct dims values")
	}
}

func TestAccumulator_MatchesBundle(t *testing.T) {
	vecs := make([]Vector, 5)
	for i := range vecs {
		vecs[i] = mustAccumTestVector(t, uint64(i+1))
	}
	expected, err := Bundle(vecs...)
	if err != nil {
		t.Fatal(err)
	}

	acc, err := NewAccumulator(MinDims, AlphabetBipolar)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vecs {
		if err := acc.Add(v); err != nil {
			t.Fatal(err)
		}
	}
	got := acc.Finalize("sum")

	d, err := Distance(got, expected, DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatal("Accumulator sum must match Bundle")
	}
}

func TestAccumulator_RejectsIncompatible(t *testing.T) {
	acc, err := NewAccumulator(MinDims, AlphabetBipolar)
	if err != nil {
		t.Fatal(err)
	}
	other, _ := New("other", MinDims, AlphabetBinary)
	if err := acc.Add(other); err == nil {
		t.Fatal("expected error adding an alphabet-incompatible vector")
	}
}

func TestAccumulator_ConcurrentUseOfSharedPool(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			acc, err := NewAccumulator(MinDims, AlphabetBipolar)
			if err != nil {
				t.Error(err)
				return
			}
			v := mustAccumTestVector(t, seed)
			if err := acc.Add(v); err != nil {
				t.Error(err)
				return
			}
			sum := acc.Finalize("sum")
			d, err := Distance(sum, v, DistanceHamming)
			if err != nil {
				t.Error(err)
				return
			}
			if d != 0 {
				t.Errorf("goroutine %d: single-vector accumulator must equal that vector", seed)
			}
		}(uint64(g))
	}
	wg.Wait()
}

func mustAccumTestVector(t *testing.T, seed uint64) Vector {
	t.Helper()
	v, err := Random("v", MinDims, AlphabetBipolar, seed)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
