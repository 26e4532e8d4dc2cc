package graph

import (
	"sort"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// contribution returns a neighbor's encode-time contribution: its vector
// bound to its weight bucket if the Graph is weighted, or the bare
// neighbor vector otherwise. It does not apply the directed permutation
// — buildNodeMemory and the mitigation loop each decide whether that
// applies to the slot they're filling.
func (g *Graph) contribution(neighbor string, weight float64) (hdc.Vector, error) {
	nv, err := g.space.MustGet(neighbor)
	if err != nil {
		return hdc.Vector{}, err
	}
	if !g.weighted {
		return nv, nil
	}
	wv, err := g.weightVector(weight)
	if err != nil {
		return hdc.Vector{}, err
	}
	return hdc.Bind(wv, nv)
}

// nodeContribution is contribution with the directed-encode permutation
// applied, used when folding a neighbor into the owning node's memory.
func (g *Graph) nodeContribution(neighbor string, weight float64) (hdc.Vector, error) {
	c, err := g.contribution(neighbor, weight)
	if err != nil {
		return hdc.Vector{}, err
	}
	if g.directed {
		c = hdc.Permute(c, permuteStep)
	}
	return c, nil
}

// buildNodeMemory computes node.memory = Σ f(m) over every neighbor m of
// node, and attaches it to the node's own Vector via SetMemory — the
// memory sub-vector is never itself inserted into the Space under a name
// of its own.
func (g *Graph) buildNodeMemory(node string) error {
	neighbors := g.adj[node]
	names := make([]string, 0, len(neighbors))
	for n := range neighbors {
		names = append(names, n)
	}
	sort.Strings(names)

	acc, err := hdc.NewAccumulator(g.dims, hdc.AlphabetBipolar)
	if err != nil {
		return err
	}
	for _, n := range names {
		c, err := g.nodeContribution(n, neighbors[n])
		if err != nil {
			return err
		}
		if err := acc.Add(c); err != nil {
			return err
		}
	}
	mem := acc.Finalize("memory")

	nodeVec, err := g.space.MustGet(node)
	if err != nil {
		return err
	}
	nodeVec.SetMemory(mem)
	return g.space.Replace(nodeVec)
}

// buildGraphVector assembles __graph__ = Σ_n bind(n, node_memory(n)),
// halved element-wise in the undirected case (each edge was counted from
// both endpoints) using round-half-away-from-zero rather than truncation,
// so an odd accumulated sum rounds instead of flattening toward zero.
func (g *Graph) buildGraphVector() error {
	acc, err := hdc.NewAccumulator(g.dims, hdc.AlphabetBipolar)
	if err != nil {
		return err
	}
	for _, n := range g.nodes {
		nodeVec, err := g.space.MustGet(n)
		if err != nil {
			return err
		}
		mem, ok := nodeVec.Memory()
		if !ok {
			mem, err = hdc.New("memory", g.dims, hdc.AlphabetBipolar)
			if err != nil {
				return err
			}
		}
		bound, err := hdc.Bind(nodeVec, mem)
		if err != nil {
			return err
		}
		if err := acc.Add(bound); err != nil {
			return err
		}
	}
	sum := acc.Finalize("__graph__")
	if !g.directed {
		sum = hdc.Apply(sum, halveRoundAwayFromZero)
	}

	g.space.Remove("__graph__")
	return g.space.InsertInternal(sum)
}

// halveRoundAwayFromZero divides e by 2, rounding a half-integer result
// away from zero (3 -> 2, -3 -> -2) instead of truncating toward zero.
func halveRoundAwayFromZero(e int64) int64 {
	if e >= 0 {
		return (e + 1) / 2
	}
	return -((-e + 1) / 2)
}
