package classify

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// TuneResult is one (size, levels) grid point's cross-validated score.
type TuneResult struct {
	Size     int
	Levels   int
	Accuracy float64
}

// AutoTune grid-searches sizes x levels, refitting a fresh model at every
// grid point against the data an earlier Fit on the receiver already
// holds, and scoring each with CrossValPredict. The receiver itself is
// left untouched; the winner is returned for the caller to act on (build
// a new MLModel at that size/levels, typically). Ties are broken by
// smaller size, then smaller levels.
//
// Grid points are evaluated concurrently: each builds its own MLModel and
// Space, so they share no mutable state beyond the read-only training
// data captured by closure.
func (m *MLModel) AutoTune(sizes, levels []int, cvFolds int, seed uint64, cvSeed int64) (TuneResult, error) {
	m.mu.Lock()
	if !m.fitted {
		m.mu.Unlock()
		return TuneResult{}, fmt.Errorf("%w: AutoTune called before Fit", hdc.ErrMissingPrerequisite)
	}
	X := cloneMatrix(m.trainX)
	labels := append([]string(nil), m.trainLabels...)
	features := append([]string(nil), m.featureNames...)
	m.mu.Unlock()

	if len(sizes) == 0 || len(levels) == 0 {
		return TuneResult{}, fmt.Errorf("%w: AutoTune requires a non-empty grid", hdc.ErrContractViolation)
	}

	type point struct{ size, levels int }
	var grid []point
	for _, s := range sizes {
		for _, l := range levels {
			grid = append(grid, point{s, l})
		}
	}

	log.Info().Int("grid_points", len(grid)).Msg("auto-tune: start")

	results := make([]TuneResult, len(grid))
	errs := make([]error, len(grid))
	var wg sync.WaitGroup
	for i, p := range grid {
		wg.Add(1)
		go func(i int, p point) {
			defer wg.Done()
			candidate, err := NewMLModel(p.size, p.levels, seed)
			if err != nil {
				errs[i] = err
				return
			}
			if err := candidate.Fit(X, labels, features); err != nil {
				errs[i] = err
				return
			}
			acc, _, err := candidate.CrossValPredict(context.Background(), cvFolds, cvSeed)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = TuneResult{Size: p.size, Levels: p.levels, Accuracy: acc}
		}(i, p)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return TuneResult{}, e
		}
	}

	best := results[0]
	for _, r := range results[1:] {
		if better(r, best) {
			best = r
		}
	}

	log.Info().Int("size", best.Size).Int("levels", best.Levels).Float64("accuracy", best.Accuracy).Msg("auto-tune: done")
	return best, nil
}

func better(a, b TuneResult) bool {
	if a.Accuracy != b.Accuracy {
		return a.Accuracy > b.Accuracy
	}
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	return a.Levels < b.Levels
}
