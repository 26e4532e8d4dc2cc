package classify

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// CrossValPredict runs stratified k-fold cross-validation over the
// training set a prior Fit already encoded: each class's row indices are
// shuffled under seed and dealt round-robin into k folds off one running
// counter shared across classes, so every fold keeps roughly the
// training set's class balance and no fold is starved. Folds are
// evaluated concurrently; PredictIndices needs no shared random state,
// so the result does not depend on completion order. The mean error
// rate is weighted by each fold's size, so folds of uneven size (k does
// not evenly divide n) don't bias the average. ctx allows a caller to
// cancel before the fold results are collected.
func (m *MLModel) CrossValPredict(ctx context.Context, k int, seed int64) (meanAccuracy, meanErrorRate float64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	m.mu.Lock()
	if !m.fitted {
		m.mu.Unlock()
		return 0, 0, fmt.Errorf("%w: CrossValPredict called before Fit", hdc.ErrMissingPrerequisite)
	}
	n := len(m.trainLabels)
	m.mu.Unlock()

	if k < 2 || k > n {
		return 0, 0, fmt.Errorf("%w: k=%d must be between 2 and the training set size %d", hdc.ErrContractViolation, k, n)
	}

	folds, err := m.stratifiedFolds(k, seed)
	if err != nil {
		return 0, 0, err
	}

	log.Info().Int("k", k).Int64("seed", seed).Msg("cross-validation: start")

	rates := make([]float64, k)
	weights := make([]int, k)
	var wg sync.WaitGroup
	errCh := make(chan error, k)
	for f := 0; f < k; f++ {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			testIdx := folds[f]
			trainIdx := complement(n, testIdx)
			_, rate, err := m.PredictIndices(trainIdx, testIdx)
			if err != nil {
				errCh <- err
				return
			}
			rates[f] = rate
			weights[f] = len(testIdx)
		}(f)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	close(errCh)
	for e := range errCh {
		if e != nil {
			return 0, 0, e
		}
	}

	var weightedSum float64
	var totalWeight int
	for f, r := range rates {
		weightedSum += r * float64(weights[f])
		totalWeight += weights[f]
	}
	meanErrorRate = weightedSum / float64(totalWeight)
	meanAccuracy = 1 - meanErrorRate

	log.Info().Float64("mean_accuracy", meanAccuracy).Float64("mean_error_rate", meanErrorRate).Msg("cross-validation: done")
	return meanAccuracy, meanErrorRate, nil
}

// stratifiedFolds deals every class's row indices into k folds after
// shuffling each class's indices under a seeded RNG local to this call,
// so two calls with the same seed always produce the same assignment
// regardless of what else is running. Dealing uses one running counter
// shared across all classes (not a fresh i%k per class), so fold sizes
// differ by at most one overall and no fold is left empty for any
// k <= n — a per-class i%k would instead starve the high-numbered folds
// whenever k exceeds a class's own sample count.
func (m *MLModel) stratifiedFolds(k int, seed int64) ([][]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byClass := make(map[string][]int)
	for i, label := range m.trainLabels {
		byClass[label] = append(byClass[label], i)
	}

	r := rand.New(rand.NewSource(seed)) //nolint:gosec
	folds := make([][]int, k)
	next := 0
	for _, c := range m.classes {
		idx := byClass[c]
		r.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, row := range idx {
			folds[next%k] = append(folds[next%k], row)
			next++
		}
	}
	return folds, nil
}

func complement(n int, exclude []int) []int {
	excluded := make(map[int]struct{}, len(exclude))
	for _, i := range exclude {
		excluded[i] = struct{}{}
	}
	out := make([]int, 0, n-len(exclude))
	for i := 0; i < n; i++ {
		if _, ok := excluded[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}
