package hdc_test

import (
	"errors"
	"testing"

	"github.com/Amansingh-afk/hdspace/hdc"
)

const dims = hdc.MinDims

func mustRandom(t *testing.T, name string, alphabet hdc.Alphabet, seed uint64) hdc.Vector {
	t.Helper()
	v, err := hdc.Random(name, dims, alphabet, seed)
	if err != nil {
		t.Fatalf("Random(%s): %v", name, err)
	}
	return v
}

func assertNearOne(t *testing.T, label string, d float64) {
	t.Helper()
	if d < 0.9 || d > 1.1 {
		t.Fatalf("%s: expected cosine distance ~1.0 (quasi-orthogonal), got %.4f", label, d)
	}
}

// ── construction ─────────────────────────────────────────────────────────────

func TestNew_RejectsSmallDims(t *testing.T) {
	if _, err := hdc.New("v", 10, hdc.AlphabetBipolar); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

func TestNew_RejectsEmptyName(t *testing.T) {
	if _, err := hdc.New("", dims, hdc.AlphabetBipolar); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

func TestNew_ZeroVector(t *testing.T) {
	v, err := hdc.New("zero", dims, hdc.AlphabetBipolar)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < dims; i++ {
		if v.At(i) != 0 {
			t.Fatalf("New must start all-zero, got %d at %d", v.At(i), i)
		}
	}
}

// ── Clone ────────────────────────────────────────────────────────────────────

func TestClone_Identical(t *testing.T) {
	v := mustRandom(t, "a", hdc.AlphabetBipolar, 42)
	c := v.Clone()
	d, err := hdc.Distance(v, c, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatalf("Clone must be identical to original, hamming distance=%v", d)
	}
}

func TestClone_IndependentTags(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 42)
	c := a.Clone()
	c.AddTag("mutated")
	if a.HasTag("mutated") {
		t.Fatal("mutating the clone's tags must not affect the original")
	}
}

// ── Bind ─────────────────────────────────────────────────────────────────────

func TestBind_SelfInverseBipolar(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 2)
	ab, err := hdc.Bind(a, b)
	if err != nil {
		t.Fatal(err)
	}
	back, err := hdc.Bind(ab, b)
	if err != nil {
		t.Fatal(err)
	}
	d, err := hdc.Distance(a, back, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatalf("Bind(Bind(a,b),b) must equal a in the bipolar alphabet, hamming distance=%v", d)
	}
}

func TestBind_QuasiOrthogonalToInputs(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 2)
	ab, err := hdc.Bind(a, b)
	if err != nil {
		t.Fatal(err)
	}
	da, err := hdc.Distance(a, ab, hdc.DistanceCosine)
	if err != nil {
		t.Fatal(err)
	}
	assertNearOne(t, "Bind result vs a", da)
}

func TestBind_DimensionMismatch(t *testing.T) {
	a, _ := hdc.New("a", dims, hdc.AlphabetBipolar)
	b, _ := hdc.New("b", dims*2, hdc.AlphabetBipolar)
	if _, err := hdc.Bind(a, b); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

// ── Bundle ───────────────────────────────────────────────────────────────────

func TestBundle_SingleIdentity(t *testing.T) {
	v := mustRandom(t, "v", hdc.AlphabetBipolar, 42)
	bundled, err := hdc.Bundle(v)
	if err != nil {
		t.Fatal(err)
	}
	d, err := hdc.Distance(v, bundled, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatal("Bundle of one vector must equal that vector")
	}
}

func TestBundle_RequiresAtLeastOne(t *testing.T) {
	if _, err := hdc.Bundle(); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for empty Bundle, got %v", err)
	}
}

func TestBundle_ElementsMayLeaveAlphabet(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	bundled, err := hdc.Bundle(a, a, a)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < dims; i++ {
		if v := bundled.At(i); v != 3 && v != -3 {
			t.Fatalf("bundling three identical copies must triple each element, got %d", v)
		}
	}
}

func TestBundle_DimensionMismatch(t *testing.T) {
	a, _ := hdc.New("a", dims, hdc.AlphabetBipolar)
	b, _ := hdc.New("b", dims*2, hdc.AlphabetBipolar)
	if _, err := hdc.Bundle(a, b); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

// ── Normalize ────────────────────────────────────────────────────────────────

func TestNormalize_CollapsesToAlphabet(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 2)
	c := mustRandom(t, "c", hdc.AlphabetBipolar, 3)
	bundled, err := hdc.Bundle(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	hdc.Normalize(&bundled)
	for i := 0; i < dims; i++ {
		if v := bundled.At(i); v != 1 && v != -1 {
			t.Fatalf("Normalize must leave only {-1,1} in a bipolar vector, got %d", v)
		}
	}
}

func TestNormalize_BinaryZeroValue(t *testing.T) {
	v, _ := hdc.New("v", dims, hdc.AlphabetBinary)
	hdc.Normalize(&v)
	for i := 0; i < dims; i++ {
		if v.At(i) != 0 {
			t.Fatalf("Normalize of an all-zero binary vector must stay 0, got %d", v.At(i))
		}
	}
}

// ── Permute ──────────────────────────────────────────────────────────────────

func TestPermute_FullCycleRestores(t *testing.T) {
	v := mustRandom(t, "v", hdc.AlphabetBipolar, 5)
	result := hdc.Permute(v, dims)
	d, err := hdc.Distance(v, result, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatal("permuting by a full dims rotation must restore the original vector")
	}
}

func TestPermute_NegativeIsInverse(t *testing.T) {
	v := mustRandom(t, "v", hdc.AlphabetBipolar, 7)
	shifted := hdc.Permute(v, 17)
	back := hdc.Permute(shifted, -17)
	d, err := hdc.Distance(v, back, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatal("Permute(v, -k) must invert Permute(v, k)")
	}
}

// ── Random ───────────────────────────────────────────────────────────────────

func TestRandom_Deterministic(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 42)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 42)
	d, err := hdc.Distance(a, b, hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatal("Random with the same seed must produce identical elements")
	}
}

func TestRandom_DifferentSeedsQuasiOrthogonal(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 1000)
	d, err := hdc.Distance(a, b, hdc.DistanceCosine)
	if err != nil {
		t.Fatal(err)
	}
	assertNearOne(t, "different-seed randoms", d)
}

func TestRandom_RecordsSeed(t *testing.T) {
	v := mustRandom(t, "v", hdc.AlphabetBipolar, 99)
	seed, ok := v.Seed()
	if !ok || seed != 99 {
		t.Fatalf("Seed() = (%d, %v), want (99, true)", seed, ok)
	}
	bound, err := hdc.Bind(v, v)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bound.Seed(); ok {
		t.Fatal("operator results must not carry a seed")
	}
}

// ── Space ────────────────────────────────────────────────────────────────────

func TestSpace_InsertRejectsReservedName(t *testing.T) {
	s, err := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := hdc.New("__graph__", dims, hdc.AlphabetBipolar)
	if err := s.Insert(v); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for reserved name, got %v", err)
	}
}

func TestSpace_InsertInternalAllowsReservedName(t *testing.T) {
	s, err := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := hdc.New("__graph__", dims, hdc.AlphabetBipolar)
	if err := s.InsertInternal(v); err != nil {
		t.Fatalf("InsertInternal must allow reserved names, got %v", err)
	}
}

func TestSpace_InsertRejectsDuplicateName(t *testing.T) {
	s, _ := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	v, _ := hdc.New("dup", dims, hdc.AlphabetBipolar)
	if err := s.Insert(v); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(v); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for duplicate insert, got %v", err)
	}
}

func TestSpace_InsertRejectsDimsMismatch(t *testing.T) {
	s, _ := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	v, _ := hdc.New("v", dims*2, hdc.AlphabetBipolar)
	if err := s.Insert(v); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for dims mismatch, got %v", err)
	}
}

func TestSpace_MustGetMissing(t *testing.T) {
	s, _ := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	if _, err := s.MustGet("nope"); !errors.Is(err, hdc.ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
}

func TestSpace_IterateIsInsertionOrder(t *testing.T) {
	s, _ := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	names := []string{"c", "a", "b"}
	for _, n := range names {
		v, _ := hdc.New(n, dims, hdc.AlphabetBipolar)
		if err := s.Insert(v); err != nil {
			t.Fatal(err)
		}
	}
	got := s.Names()
	for i, n := range names {
		if got[i] != n {
			t.Fatalf("Names()[%d] = %q, want %q (insertion order)", i, got[i], n)
		}
	}
}

func TestSpace_RemoveThenMustGetFails(t *testing.T) {
	s, _ := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	v, _ := hdc.New("v", dims, hdc.AlphabetBipolar)
	if err := s.Insert(v); err != nil {
		t.Fatal(err)
	}
	s.Remove("v")
	if _, err := s.MustGet("v"); !errors.Is(err, hdc.ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite after Remove, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after removing sole member, want 0", s.Len())
	}
}

func TestIsReservedName(t *testing.T) {
	cases := map[string]bool{
		"__graph__":   true,
		"__weight__x": true,
		"level_0":     true,
		"level_9":     true,
		"point_3":     true,
		"class_1":     true,
		"level_":      false,
		"mypoint":     false,
		"level_abc":   false,
	}
	for name, want := range cases {
		if got := hdc.IsReservedName(name); got != want {
			t.Errorf("IsReservedName(%q) = %v, want %v", name, got, want)
		}
	}
}

// ── Apply ────────────────────────────────────────────────────────────────────

func TestApply_Halves(t *testing.T) {
	a := mustRandom(t, "a", hdc.AlphabetBipolar, 1)
	b := mustRandom(t, "b", hdc.AlphabetBipolar, 2)
	summed, err := hdc.Bundle(a, b)
	if err != nil {
		t.Fatal(err)
	}
	halved := hdc.Apply(summed, func(e int64) int64 { return e / 2 })
	for i := 0; i < dims; i++ {
		if halved.At(i) != summed.At(i)/2 {
			t.Fatalf("Apply must transform every element, index %d", i)
		}
	}
}

// ── FlipChain ────────────────────────────────────────────────────────────────

func TestFlipChain_MonotoneDivergence(t *testing.T) {
	levels := 10
	flips := make([]int, levels)
	flips[0] = dims / 2
	for i := 1; i < levels; i++ {
		flips[i] = dims / (2 * levels)
	}
	chain, err := hdc.FlipChain(dims, hdc.AlphabetBipolar, 7, flips)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != levels {
		t.Fatalf("FlipChain returned %d vectors, want %d", len(chain), levels)
	}
	dEnds, err := hdc.Distance(chain[0], chain[levels-1], hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	wantEnds := float64(dims) / 2
	if dEnds < wantEnds*0.9 || dEnds > wantEnds*1.1 {
		t.Fatalf("hamming(chain[0], chain[last]) = %v, want ~%v", dEnds, wantEnds)
	}
	dAdj, err := hdc.Distance(chain[1], chain[2], hdc.DistanceHamming)
	if err != nil {
		t.Fatal(err)
	}
	wantAdj := float64(dims) / float64(2*levels)
	if dAdj < wantAdj*0.75 || dAdj > wantAdj*1.25 {
		t.Fatalf("hamming(chain[1], chain[2]) = %v, want ~%v", dAdj, wantAdj)
	}
}

func TestFlipChain_RejectsOverBudget(t *testing.T) {
	if _, err := hdc.FlipChain(dims, hdc.AlphabetBipolar, 1, []int{dims, dims}); !errors.Is(err, hdc.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

// ── benchmarks ───────────────────────────────────────────────────────────────

func mustRandomB(b *testing.B, seed uint64) hdc.Vector {
	b.Helper()
	v, err := hdc.Random("bench", dims, hdc.AlphabetBipolar, seed)
	if err != nil {
		b.Fatal(err)
	}
	return v
}

func BenchmarkBind(b *testing.B) {
	x := mustRandomB(b, 1)
	y := mustRandomB(b, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hdc.Bind(x, y)
	}
}

func BenchmarkBundle10(b *testing.B) {
	vecs := make([]hdc.Vector, 10)
	for i := range vecs {
		vecs[i] = mustRandomB(b, uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hdc.Bundle(vecs...)
	}
}

func BenchmarkDistanceCosine(b *testing.B) {
	x := mustRandomB(b, 1)
	y := mustRandomB(b, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hdc.Distance(x, y, hdc.DistanceCosine)
	}
}
