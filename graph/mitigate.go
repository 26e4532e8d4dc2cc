package graph

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// ErrorMitigation iteratively refines node memories to reduce
// error_rate(edges, threshold): every false positive (u,v) has v's
// contribution subtracted from u's memory; every false negative has it
// added back. __graph__ is rebuilt and the error rate recomputed after
// each pass. The loop stops as soon as a pass fails to strictly improve
// the rate — the already-applied update from that pass is kept, not
// rolled back, since non-improvement is an ordinary termination
// condition, not an error.
//
// maxIter bounds the loop so it can never run unboundedly; ctx allows a
// caller to cancel a long-running run between passes.
func (g *Graph) ErrorMitigation(ctx context.Context, edges []Edge, threshold float64, maxIter int) (rate float64, iterations int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rate, _, _, err = g.errorRateLocked(edges, threshold)
	if err != nil {
		return 0, 0, err
	}
	log.Info().Float64("initial_rate", rate).Int("max_iter", maxIter).Msg("error mitigation: start")

	for iterations = 0; iterations < maxIter; iterations++ {
		if err := ctx.Err(); err != nil {
			return rate, iterations, err
		}

		var falsePos, falseNeg []Edge
		for _, e := range edges {
			present, _, err := g.edgeExistsLocked(e.U, e.V, e.Weight, e.HasWeight, threshold)
			if err != nil {
				return rate, iterations, err
			}
			actual := g.hasEdge(e.U, e.V)
			switch {
			case present && !actual:
				falsePos = append(falsePos, e)
			case !present && actual:
				falseNeg = append(falseNeg, e)
			}
		}
		if len(falsePos) == 0 && len(falseNeg) == 0 {
			break
		}

		touched := make(map[string]struct{})
		for _, e := range falsePos {
			if err := g.weakenNodeMemory(e.U, e.V, e.Weight); err != nil {
				return rate, iterations, err
			}
			touched[e.U] = struct{}{}
		}
		for _, e := range falseNeg {
			if err := g.strengthenNodeMemory(e.U, e.V, e.Weight); err != nil {
				return rate, iterations, err
			}
			touched[e.U] = struct{}{}
		}
		_ = touched // memories are already replaced in the space by weaken/strengthen

		if err := g.buildGraphVector(); err != nil {
			return rate, iterations, err
		}

		newRate, fp, fn, err := g.errorRateLocked(edges, threshold)
		if err != nil {
			return rate, iterations, err
		}
		log.Info().Int("iteration", iterations).Float64("rate", newRate).Int("fp", fp).Int("fn", fn).Msg("error mitigation: iteration")

		if newRate < rate {
			rate = newRate
			continue
		}
		rate = newRate
		break
	}

	log.Info().Float64("final_rate", rate).Int("iterations", iterations).Msg("error mitigation: done")
	return rate, iterations, nil
}

// weakenNodeMemory subtracts v's encode-time contribution from u's memory.
func (g *Graph) weakenNodeMemory(u, v string, weight float64) error {
	return g.adjustNodeMemory(u, v, weight, hdc.Subtract)
}

// strengthenNodeMemory adds v's encode-time contribution to u's memory.
func (g *Graph) strengthenNodeMemory(u, v string, weight float64) error {
	return g.adjustNodeMemory(u, v, weight, func(a, b hdc.Vector) (hdc.Vector, error) { return hdc.Bundle(a, b) })
}

func (g *Graph) adjustNodeMemory(u, v string, weight float64, combine func(a, b hdc.Vector) (hdc.Vector, error)) error {
	nodeVec, err := g.space.MustGet(u)
	if err != nil {
		return fmt.Errorf("%w: node %q not found", hdc.ErrMissingPrerequisite, u)
	}
	mem, ok := nodeVec.Memory()
	if !ok {
		mem, err = hdc.New("memory", g.dims, hdc.AlphabetBipolar)
		if err != nil {
			return err
		}
	}
	contrib, err := g.nodeContribution(v, weight)
	if err != nil {
		return err
	}
	updated, err := combine(mem, contrib)
	if err != nil {
		return err
	}
	nodeVec.SetMemory(updated)
	return g.space.Replace(nodeVec)
}
