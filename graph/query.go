package graph

import (
	"fmt"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// EdgeExists answers whether edge (u,v[,weight]) exists: it unbinds u from
// the aggregate __graph__ vector, reconstructing u's memory plus
// cross-talk noise from every other node, then measures cosine distance
// against v's expected contribution. A result below threshold is reported
// as present.
//
// Both u and v must have been seen by a prior Fit; an absent node is
// treated like any other missing-prerequisite condition rather than a
// silent (false, +Inf).
func (g *Graph) EdgeExists(u, v string, weight float64, hasWeight bool, threshold float64) (bool, float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edgeExistsLocked(u, v, weight, hasWeight, threshold)
}

func (g *Graph) edgeExistsLocked(u, v string, weight float64, hasWeight bool, threshold float64) (bool, float64, error) {
	if !g.fitted {
		return false, 0, fmt.Errorf("%w: EdgeExists called before Fit", hdc.ErrMissingPrerequisite)
	}
	graphVec, err := g.space.MustGet("__graph__")
	if err != nil {
		return false, 0, err
	}
	uVec, err := g.space.MustGet(u)
	if err != nil {
		return false, 0, fmt.Errorf("%w: node %q not found", hdc.ErrMissingPrerequisite, u)
	}
	vVec, err := g.space.MustGet(v)
	if err != nil {
		return false, 0, fmt.Errorf("%w: node %q not found", hdc.ErrMissingPrerequisite, v)
	}

	probe, err := hdc.Bind(uVec, graphVec)
	if err != nil {
		return false, 0, err
	}
	if g.directed {
		probe = hdc.Permute(probe, -permuteStep)
	}

	var target hdc.Vector
	if g.weighted {
		if !hasWeight {
			return false, 0, fmt.Errorf("%w: weighted graph requires a query weight", hdc.ErrContractViolation)
		}
		wv, err := g.weightVector(weight)
		if err != nil {
			return false, 0, err
		}
		target, err = hdc.Bind(wv, vVec)
		if err != nil {
			return false, 0, err
		}
	} else {
		target = vVec
	}

	d, err := hdc.Distance(probe, target, hdc.DistanceCosine)
	if err != nil {
		return false, 0, err
	}
	return d < threshold, d, nil
}

// ErrorRate partitions edges into false positives (EdgeExists says yes but
// the fitted adjacency disagrees) and false negatives (the reverse), and
// returns their combined fraction of len(edges), along with the raw FP/FN
// counts.
func (g *Graph) ErrorRate(edges []Edge, threshold float64) (rate float64, falsePos, falseNeg int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errorRateLocked(edges, threshold)
}

func (g *Graph) errorRateLocked(edges []Edge, threshold float64) (float64, int, int, error) {
	if len(edges) == 0 {
		return 0, 0, 0, fmt.Errorf("%w: ErrorRate requires a non-empty edge set", hdc.ErrDataShape)
	}
	var fp, fn int
	for _, e := range edges {
		present, _, err := g.edgeExistsLocked(e.U, e.V, e.Weight, e.HasWeight, threshold)
		if err != nil {
			return 0, 0, 0, err
		}
		actual := g.hasEdge(e.U, e.V)
		switch {
		case present && !actual:
			fp++
		case !present && actual:
			fn++
		}
	}
	return float64(fp+fn) / float64(len(edges)), fp, fn, nil
}
