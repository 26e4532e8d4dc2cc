package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// PercentageSplit picks floor(percentage/100 * count(class)) row indices
// per class, uniformly at random without replacement under a *rand.Rand
// local to this call, and returns their union in ascending order. It is
// the stratified test-set selector the classifier CLI uses to carve a
// held-out split out of one loaded dataset.
func PercentageSplit(labels []string, percentage float64, seed int64) ([]int, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: PercentageSplit requires a non-empty label set", hdc.ErrDataShape)
	}
	if percentage <= 0 || percentage > 100 {
		return nil, fmt.Errorf("%w: percentage=%v must be in (0, 100]", hdc.ErrContractViolation, percentage)
	}

	byClass := make(map[string][]int)
	var classOrder []string
	for i, l := range labels {
		if _, ok := byClass[l]; !ok {
			classOrder = append(classOrder, l)
		}
		byClass[l] = append(byClass[l], i)
	}

	// Classes are visited in first-seen order, not map iteration order:
	// map order is randomized per run, which would make the random draws
	// each class consumes from r depend on that randomization instead of
	// only on seed.
	r := rand.New(rand.NewSource(seed)) //nolint:gosec
	var chosen []int
	for _, c := range classOrder {
		idx := byClass[c]
		k := int(percentage / 100 * float64(len(idx)))
		if k == 0 {
			continue
		}
		shuffled := append([]int(nil), idx...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		chosen = append(chosen, shuffled[:k]...)
	}

	sort.Ints(chosen)
	return chosen, nil
}
