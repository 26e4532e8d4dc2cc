package classify

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// StepwiseForward and StepwiseBackward select the feature-selection
// direction for StepwiseSelect.
const (
	StepwiseForward  = "forward"
	StepwiseBackward = "backward"
)

// StepwiseSelect performs forward or backward stepwise feature selection
// against the data an earlier Fit on the receiver holds, scoring each
// candidate feature set with CrossValPredict at the receiver's own
// (dims, levels, seed). Forward stops as soon as a round fails to
// strictly improve on the current best accuracy; backward keeps
// dropping the least-harmful feature as long as removing it does not
// decrease accuracy, stopping once every remaining removal would.
func (m *MLModel) StepwiseSelect(method string, cvFolds int, cvSeed int64) (selected []string, accuracy float64, err error) {
	m.mu.Lock()
	if !m.fitted {
		m.mu.Unlock()
		return nil, 0, fmt.Errorf("%w: StepwiseSelect called before Fit", hdc.ErrMissingPrerequisite)
	}
	X := cloneMatrix(m.trainX)
	labels := append([]string(nil), m.trainLabels...)
	features := append([]string(nil), m.featureNames...)
	dims, levels, seed := m.dims, m.levels, m.seed
	m.mu.Unlock()

	switch method {
	case StepwiseForward:
		return stepwiseForward(X, labels, features, dims, levels, seed, cvFolds, cvSeed)
	case StepwiseBackward:
		return stepwiseBackward(X, labels, features, dims, levels, seed, cvFolds, cvSeed)
	default:
		return nil, 0, fmt.Errorf("%w: unknown stepwise method %q", hdc.ErrContractViolation, method)
	}
}

func stepwiseForward(X [][]float64, labels, features []string, dims, levels int, seed uint64, cvFolds int, cvSeed int64) ([]string, float64, error) {
	remaining := append([]string(nil), features...)
	var selected []string
	bestScore := -1.0

	log.Info().Strs("features", features).Msg("stepwise forward: start")

	for len(remaining) > 0 {
		candidates := make([]string, len(remaining))
		copy(candidates, remaining)
		scores := make([]float64, len(candidates))
		errs := make([]error, len(candidates))
		var wg sync.WaitGroup
		for i, feat := range candidates {
			wg.Add(1)
			go func(i int, feat string) {
				defer wg.Done()
				trial := append(append([]string(nil), selected...), feat)
				score, err := scoreFeatureSet(X, labels, features, trial, dims, levels, seed, cvFolds, cvSeed)
				if err != nil {
					errs[i] = err
					return
				}
				scores[i] = score
			}(i, feat)
		}
		wg.Wait()
		for _, e := range errs {
			if e != nil {
				return nil, 0, e
			}
		}

		bestIdx, roundBest := argmax(scores)
		if roundBest <= bestScore {
			break
		}
		bestScore = roundBest
		selected = append(selected, candidates[bestIdx])
		remaining = removeAt(remaining, bestIdx)
		log.Info().Strs("selected", selected).Float64("accuracy", bestScore).Msg("stepwise forward: round")
	}

	return selected, bestScore, nil
}

func stepwiseBackward(X [][]float64, labels, features []string, dims, levels int, seed uint64, cvFolds int, cvSeed int64) ([]string, float64, error) {
	selected := append([]string(nil), features...)
	bestScore, err := scoreFeatureSet(X, labels, features, selected, dims, levels, seed, cvFolds, cvSeed)
	if err != nil {
		return nil, 0, err
	}

	log.Info().Strs("features", features).Float64("accuracy", bestScore).Msg("stepwise backward: start")

	for len(selected) > 1 {
		scores := make([]float64, len(selected))
		errs := make([]error, len(selected))
		var wg sync.WaitGroup
		for i := range selected {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				trial := removeAt(selected, i)
				score, err := scoreFeatureSet(X, labels, features, trial, dims, levels, seed, cvFolds, cvSeed)
				if err != nil {
					errs[i] = err
					return
				}
				scores[i] = score
			}(i)
		}
		wg.Wait()
		for _, e := range errs {
			if e != nil {
				return nil, 0, e
			}
		}

		bestIdx, roundBest := argmax(scores)
		if roundBest < bestScore {
			break
		}
		bestScore = roundBest
		selected = removeAt(selected, bestIdx)
		log.Info().Strs("selected", selected).Float64("accuracy", bestScore).Msg("stepwise backward: round")
	}

	return selected, bestScore, nil
}

// scoreFeatureSet fits a fresh model restricted to the columns named in
// subset and returns its cross-validated accuracy.
func scoreFeatureSet(X [][]float64, labels, allFeatures, subset []string, dims, levels int, seed uint64, cvFolds int, cvSeed int64) (float64, error) {
	cols := columnIndices(allFeatures, subset)
	restricted := projectColumns(X, cols)

	model, err := NewMLModel(dims, levels, seed)
	if err != nil {
		return 0, err
	}
	if err := model.Fit(restricted, labels, subset); err != nil {
		return 0, err
	}
	acc, _, err := model.CrossValPredict(context.Background(), cvFolds, cvSeed)
	if err != nil {
		return 0, err
	}
	return acc, nil
}

func columnIndices(allFeatures, subset []string) []int {
	pos := make(map[string]int, len(allFeatures))
	for i, f := range allFeatures {
		pos[f] = i
	}
	out := make([]int, len(subset))
	for i, f := range subset {
		out[i] = pos[f]
	}
	return out
}

func projectColumns(X [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		projected := make([]float64, len(cols))
		for j, c := range cols {
			projected[j] = row[c]
		}
		out[i] = projected
	}
	return out
}

func argmax(scores []float64) (int, float64) {
	best, bestScore := 0, scores[0]
	for i, s := range scores[1:] {
		if s > bestScore {
			best, bestScore = i+1, s
		}
	}
	return best, bestScore
}

func removeAt(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}
