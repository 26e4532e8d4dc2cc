package classify

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

const encodeWorkers = 8

// MLModel is the supervised classifier: a level-vector codebook quantizes
// continuous features, each training row becomes one hypervector, and
// prediction picks the nearest per-class prototype by cosine distance.
//
// MLModel requires a bipolar hdc.Space, for the same reason graph does:
// the algebra above the raw hdc package depends on Bind's self-inverse
// property, which only holds in the bipolar alphabet.
type MLModel struct {
	mu sync.Mutex

	space  *hdc.Space
	dims   int
	levels int
	seed   uint64

	classes []string // first-seen order from training labels

	levelVectors []hdc.Vector
	minVal       float64
	maxVal       float64
	gap          float64

	featureNames []string
	trainX       [][]float64
	trainLabels  []string
	pointNames   []string
	pointClasses map[string]string

	classPrototypes map[string]hdc.Vector

	fitted bool
}

// NewMLModel creates an unfitted classifier over a fresh bipolar Space.
// levels must be >= 2.
func NewMLModel(dims, levels int, seed uint64) (*MLModel, error) {
	if levels < 2 {
		return nil, fmt.Errorf("%w: levels=%d, must be >= 2", hdc.ErrContractViolation, levels)
	}
	space, err := hdc.NewSpace(dims, hdc.AlphabetBipolar)
	if err != nil {
		return nil, err
	}
	return &MLModel{
		space:        space,
		dims:         dims,
		levels:       levels,
		seed:         seed,
		pointClasses: make(map[string]string),
	}, nil
}

// Fit builds the level codebook from X's global min/max, encodes every
// row into a point_<i> hypervector tagged with its class, and remembers
// (X, labels, featureNames) so CrossValPredict/AutoTune/StepwiseSelect can
// later re-derive training/test splits without reloading data.
func (m *MLModel) Fit(X [][]float64, labels []string, featureNames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(X) != len(labels) {
		return fmt.Errorf("%w: %d rows but %d labels", hdc.ErrDataShape, len(X), len(labels))
	}
	if len(X) < 3 {
		return fmt.Errorf("%w: %d training rows, need at least 3", hdc.ErrDataShape, len(X))
	}
	classes := orderedUnique(labels)
	if len(classes) < 2 {
		return fmt.Errorf("%w: %d distinct classes, need at least 2", hdc.ErrDataShape, len(classes))
	}

	space, err := hdc.NewSpace(m.dims, hdc.AlphabetBipolar)
	if err != nil {
		return err
	}
	m.space = space
	m.fitted = false

	log.Info().Int("rows", len(X)).Int("dims", m.dims).Int("levels", m.levels).Msg("classify fit: start")

	minV, maxV := matrixRange(X)
	gap := (maxV - minV) / float64(m.levels)

	flips := make([]int, m.levels)
	flips[0] = m.dims / 2
	perLevel := m.dims / (2 * m.levels)
	for i := 1; i < m.levels; i++ {
		flips[i] = perLevel
	}
	chain, err := hdc.FlipChain(m.dims, hdc.AlphabetBipolar, m.seed, flips)
	if err != nil {
		return err
	}
	levelVectors := make([]hdc.Vector, m.levels)
	for i, v := range chain {
		named := v.Renamed(fmt.Sprintf("level_%d", i))
		if err := m.space.InsertInternal(named); err != nil {
			return err
		}
		levelVectors[i] = named
	}

	m.minVal, m.maxVal, m.gap = minV, maxV, gap
	m.levelVectors = levelVectors
	m.classes = classes
	m.featureNames = append([]string(nil), featureNames...)
	m.trainX = cloneMatrix(X)
	m.trainLabels = append([]string(nil), labels...)
	m.pointClasses = make(map[string]string, len(X))
	m.classPrototypes = nil

	points := make([]hdc.Vector, len(X))
	if err := encodeConcurrently(X, func(i int, row []float64) error {
		v, err := m.encode(row)
		if err != nil {
			return err
		}
		points[i] = v
		return nil
	}); err != nil {
		return err
	}

	names := make([]string, len(X))
	for i, v := range points {
		name := fmt.Sprintf("point_%d", i)
		named := v.Renamed(name)
		named.AddTag(labels[i])
		if err := m.space.InsertInternal(named); err != nil {
			return err
		}
		names[i] = name
		m.pointClasses[name] = labels[i]
	}
	m.pointNames = names
	m.fitted = true

	log.Info().Int("points", len(names)).Strs("classes", classes).Msg("classify fit: done")
	return nil
}

// encode implements the sample-encoding rule: bundle over every
// feature column of the column's level vector, permuted by the column
// index so that two features landing in the same bucket don't cancel.
func (m *MLModel) encode(row []float64) (hdc.Vector, error) {
	acc, err := hdc.NewAccumulator(m.dims, hdc.AlphabetBipolar)
	if err != nil {
		return hdc.Vector{}, err
	}
	for j, x := range row {
		b := m.bucket(x)
		permuted := hdc.Permute(m.levelVectors[b], j)
		if err := acc.Add(permuted); err != nil {
			return hdc.Vector{}, err
		}
	}
	return acc.Finalize("point"), nil
}

// bucket maps a feature value to its discretized level index.
func (m *MLModel) bucket(x float64) int {
	if m.gap == 0 {
		return 0
	}
	if x <= m.minVal {
		return 0
	}
	if x >= m.maxVal {
		return m.levels - 1
	}
	for l := 0; l < m.levels; l++ {
		lower := m.minVal + float64(l-1)*m.gap
		upper := m.minVal + float64(l)*m.gap
		if x >= lower && x < upper {
			return l
		}
	}
	return m.levels - 1
}

func orderedUnique(labels []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func matrixRange(X [][]float64) (min, max float64) {
	min, max = X[0][0], X[0][0]
	for _, row := range X {
		for _, x := range row {
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
	}
	return min, max
}

func cloneMatrix(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// encodeConcurrently runs fn(i, X[i]) for every row over a bounded worker
// pool. The result is bit-identical to a sequential run regardless of
// goroutine scheduling order: each call writes only to its own index, and
// no call depends on another's result (sample encoding needs no shared
// randomness, unlike the level codebook, which is built once up front).
func encodeConcurrently(X [][]float64, fn func(i int, row []float64) error) error {
	type result struct {
		idx int
		err error
	}
	jobs := make(chan int)
	results := make(chan result, len(X))
	var wg sync.WaitGroup

	workers := encodeWorkers
	if workers > len(X) {
		workers = len(X)
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- result{idx: i, err: fn(i, X[i])}
			}
		}()
	}
	go func() {
		for i := range X {
			jobs <- i
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	return firstErr
}
