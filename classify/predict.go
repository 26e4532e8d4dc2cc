package classify

import (
	"fmt"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// Predict encodes each row of X with the fitted level codebook and
// returns the nearest class by cosine distance against the whole
// training set's per-class prototypes (built lazily on first use and
// cached until the next Fit).
func (m *MLModel) Predict(X [][]float64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.fitted {
		return nil, fmt.Errorf("%w: Predict called before Fit", hdc.ErrMissingPrerequisite)
	}
	protos, err := m.prototypesLocked(allIndices(len(m.trainX)))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(X))
	for i, row := range X {
		sample, err := m.encode(row)
		if err != nil {
			return nil, err
		}
		label, _, err := nearestPrototype(sample, m.classes, protos)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// PredictIndices predicts labels for rows of the training set already
// encoded during Fit, identified by their row index, and reports the
// error rate against the known training labels at those indices. Folds
// built by CrossValPredict use this so they never re-run the encode step.
func (m *MLModel) PredictIndices(trainIdx, testIdx []int) (predicted []string, errorRate float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.fitted {
		return nil, 0, fmt.Errorf("%w: PredictIndices called before Fit", hdc.ErrMissingPrerequisite)
	}
	protos, err := m.prototypesFromIndicesLocked(trainIdx)
	if err != nil {
		return nil, 0, err
	}
	predicted = make([]string, len(testIdx))
	wrong := 0
	for i, idx := range testIdx {
		sample, err := m.space.MustGet(m.pointNames[idx])
		if err != nil {
			return nil, 0, err
		}
		label, _, err := nearestPrototype(sample, m.classes, protos)
		if err != nil {
			return nil, 0, err
		}
		predicted[i] = label
		if label != m.trainLabels[idx] {
			wrong++
		}
	}
	if len(testIdx) == 0 {
		return nil, 0, fmt.Errorf("%w: PredictIndices called with an empty test fold", hdc.ErrDataShape)
	}
	return predicted, float64(wrong) / float64(len(testIdx)), nil
}

// prototypesLocked returns the whole-training-set prototypes, building and
// caching them on first call.
func (m *MLModel) prototypesLocked(indices []int) (map[string]hdc.Vector, error) {
	if m.classPrototypes != nil {
		return m.classPrototypes, nil
	}
	protos, err := m.prototypesFromIndicesLocked(indices)
	if err != nil {
		return nil, err
	}
	m.classPrototypes = protos
	return protos, nil
}

// prototypesFromIndicesLocked bundles the points among indices for each
// class, independent of the whole-dataset cache — used by cross-
// validation folds, which must exclude the held-out rows.
func (m *MLModel) prototypesFromIndicesLocked(indices []int) (map[string]hdc.Vector, error) {
	accs := make(map[string]*hdc.Accumulator, len(m.classes))
	counts := make(map[string]int, len(m.classes))
	for _, c := range m.classes {
		acc, err := hdc.NewAccumulator(m.dims, hdc.AlphabetBipolar)
		if err != nil {
			return nil, err
		}
		accs[c] = acc
	}
	for _, idx := range indices {
		label := m.trainLabels[idx]
		v, err := m.space.MustGet(m.pointNames[idx])
		if err != nil {
			return nil, err
		}
		if err := accs[label].Add(v); err != nil {
			return nil, err
		}
		counts[label]++
	}
	out := make(map[string]hdc.Vector, len(m.classes))
	for _, c := range m.classes {
		if counts[c] == 0 {
			return nil, fmt.Errorf("%w: class %q has zero training samples in this split", hdc.ErrDataShape, c)
		}
		out[c] = accs[c].Finalize(fmt.Sprintf("class_%s", c))
	}
	return out, nil
}

// nearestPrototype picks the class whose prototype is closest to sample
// by cosine distance, breaking ties by classes' first-seen order.
func nearestPrototype(sample hdc.Vector, classes []string, protos map[string]hdc.Vector) (string, float64, error) {
	best := ""
	bestDist := 0.0
	for _, c := range classes {
		d, err := hdc.Distance(sample, protos[c], hdc.DistanceCosine)
		if err != nil {
			return "", 0, err
		}
		if best == "" || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, nil
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
