package graph

import (
	"fmt"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// weightVectorName returns the reserved Space name for bucket index i.
func weightVectorName(i int) string {
	return fmt.Sprintf("__weight__%d", i)
}

// buildWeightChain discretizes [0,1) into g.weightLevels equal buckets and
// installs one hypervector per bucket into the Space under a reserved
// __weight__<i> name, via hdc.FlipChain: every bucket flips
// dims/(2*levels) indices from the previous bucket's snapshot, so
// similarity between buckets is monotone in |Δw|.
func (g *Graph) buildWeightChain() error {
	levels := g.weightLevels
	flips := make([]int, levels)
	perLevel := g.dims / (2 * levels)
	for i := range flips {
		flips[i] = perLevel
	}
	chain, err := hdc.FlipChain(g.dims, hdc.AlphabetBipolar, g.seed^0xD1B54A32D192ED03, flips)
	if err != nil {
		return err
	}
	g.weightChain = make([]hdc.Vector, levels)
	for i, v := range chain {
		named := v.Renamed(weightVectorName(i))
		if err := g.space.InsertInternal(named); err != nil {
			return err
		}
		g.weightChain[i] = named
	}
	return nil
}

// bucketIndex maps a weight in [0,1) to its discretized bucket index.
func (g *Graph) bucketIndex(w float64) int {
	idx := int(w * float64(g.weightLevels))
	if idx < 0 {
		idx = 0
	}
	if idx >= g.weightLevels {
		idx = g.weightLevels - 1
	}
	return idx
}

// weightVector returns the bucket hypervector for weight w.
func (g *Graph) weightVector(w float64) (hdc.Vector, error) {
	if len(g.weightChain) == 0 {
		return hdc.Vector{}, fmt.Errorf("%w: weight codebook not built, call Fit on a weighted graph first", hdc.ErrMissingPrerequisite)
	}
	return g.weightChain[g.bucketIndex(w)], nil
}
