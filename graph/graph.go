package graph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// permuteStep is the directed-graph encode-side rotation applied to each
// neighbor contribution before it is folded into a node's memory. Decode
// applies the exact inverse, permuteStep negated, to the reconstructed
// probe. This is the one convention graph uses throughout; there is no
// alternate path to keep in sync.
const permuteStep = 1

// defaultWeightLevels is the number of weight buckets every weighted Graph
// discretizes [0,1) into; NewGraph takes no bucket count of its own.
const defaultWeightLevels = 10

// Graph is an associative graph memory: an edge list folded into one
// aggregate hypervector (__graph__), queried by unbind-then-distance.
//
// A Graph owns its hdc.Space exclusively and is safe for concurrent use —
// every exported method acquires mu before touching the space or the
// adjacency bookkeeping.
type Graph struct {
	mu sync.Mutex

	space    *hdc.Space
	dims     int
	directed bool
	weighted bool
	seed     uint64

	weightLevels int
	weightChain  []hdc.Vector // index i = bucket [i/weightLevels, (i+1)/weightLevels)

	nodes      []string // sorted by name once Fit has seeded them in first-seen order
	adj        map[string]map[string]float64
	nodeEdges  int // count of input edges, as given to Fit
	fitted     bool
}

// NewGraph creates an empty Graph over a fresh bipolar hdc.Space of the
// given dimension. Bind's self-inverse property (required by EdgeExists)
// only holds in the bipolar alphabet, so graph never offers a binary
// option — attempting one would silently break every decode.
func NewGraph(dims int, directed, weighted bool, seed uint64) (*Graph, error) {
	space, err := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	if err != nil {
		return nil, err
	}
	return &Graph{
		space:        space,
		dims:         dims,
		directed:     directed,
		weighted:     weighted,
		seed:         seed,
		weightLevels: defaultWeightLevels,
		adj:          make(map[string]map[string]float64),
	}, nil
}

// Fit ingests edges, builds a random node vector for every endpoint seen,
// discretizes weights (if the Graph is weighted), builds each node's
// neighbor-memory hypervector, and assembles the aggregate __graph__
// vector. Calling Fit again replaces all derived state.
func (g *Graph) Fit(edges []Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	log.Info().Int("edges", len(edges)).Bool("directed", g.directed).Bool("weighted", g.weighted).Msg("graph fit: start")

	for _, e := range edges {
		if g.weighted && !e.HasWeight {
			return fmt.Errorf("%w: weighted graph requires every edge to carry a weight, edge %s->%s has none", hdc.ErrContractViolation, e.U, e.V)
		}
		if !g.weighted && e.HasWeight {
			return fmt.Errorf("%w: unweighted graph requires the sentinel weight, edge %s->%s carries %v", hdc.ErrContractViolation, e.U, e.V, e.Weight)
		}
		if e.HasWeight && (e.Weight < 0 || e.Weight >= 1) {
			return fmt.Errorf("%w: edge weight %v out of range [0,1)", hdc.ErrContractViolation, e.Weight)
		}
	}

	space, err := hdc.NewSpace(g.dims, hdc.AlphabetBipolar)
	if err != nil {
		return err
	}
	g.space = space
	g.weightChain = nil
	g.fitted = false
	g.nodes = nil
	g.adj = make(map[string]map[string]float64)
	seen := make(map[string]struct{})

	addNode := func(name string) error {
		if _, ok := seen[name]; ok {
			return nil
		}
		seen[name] = struct{}{}
		g.nodes = append(g.nodes, name)
		idx := uint64(len(g.nodes) - 1)
		v, err := hdc.Random(name, g.dims, hdc.AlphabetBipolar, g.seed^(idx*0x9E3779B97F4A7C15))
		if err != nil {
			return err
		}
		return g.space.Insert(v)
	}

	for _, e := range edges {
		if err := addNode(e.U); err != nil {
			return err
		}
		if err := addNode(e.V); err != nil {
			return err
		}
		g.addAdjacency(e.U, e.V, e.Weight)
		if !g.directed {
			g.addAdjacency(e.V, e.U, e.Weight)
		}
	}
	g.nodeEdges = len(edges)

	if g.weighted {
		if err := g.buildWeightChain(); err != nil {
			return err
		}
	}

	sort.Strings(g.nodes)
	for _, n := range g.nodes {
		if err := g.buildNodeMemory(n); err != nil {
			return err
		}
	}
	if err := g.buildGraphVector(); err != nil {
		return err
	}

	g.fitted = true
	log.Info().Int("nodes", len(g.nodes)).Msg("graph fit: done")
	return nil
}

func (g *Graph) addAdjacency(u, v string, weight float64) {
	if g.adj[u] == nil {
		g.adj[u] = make(map[string]float64)
	}
	g.adj[u][v] = weight
}

// hasEdge reports whether (u,v) is recorded in the fitted adjacency —
// ground truth independent of the lossy hypervector reconstruction.
func (g *Graph) hasEdge(u, v string) bool {
	_, ok := g.adj[u][v]
	return ok
}
