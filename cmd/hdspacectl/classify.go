package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Amansingh-afk/hdspace/classify"
	"github.com/Amansingh-afk/hdspace/dataset"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Fit, predict, cross-validate, tune, and select features for the classifier",
}

func init() {
	fitCmd := &cobra.Command{Use: "fit", Short: "Fit a classifier and report training accuracy", RunE: runClassifyFit}
	addDatasetFlags(fitCmd)

	predictCmd := &cobra.Command{Use: "predict", Short: "Fit on a stratified split and predict the held-out rows", RunE: runClassifyPredict}
	addDatasetFlags(predictCmd)
	predictCmd.Flags().Float64("test-pct", 20, "percentage of each class held out for testing")

	cvCmd := &cobra.Command{Use: "cv", Short: "Run k-fold cross-validation", RunE: runClassifyCV}
	addDatasetFlags(cvCmd)
	cvCmd.Flags().Int("folds", 5, "number of cross-validation folds")

	tuneCmd := &cobra.Command{Use: "tune", Short: "Grid-search (size, levels)", RunE: runClassifyTune}
	addDatasetFlags(tuneCmd)
	tuneCmd.Flags().String("sizes", "10000", "comma-separated dims to try")
	tuneCmd.Flags().String("levels", "10", "comma-separated level counts to try")
	tuneCmd.Flags().Int("cv", 5, "cross-validation folds used to score each grid point")

	stepwiseCmd := &cobra.Command{Use: "stepwise", Short: "Forward/backward stepwise feature selection", RunE: runClassifyStepwise}
	addDatasetFlags(stepwiseCmd)
	stepwiseCmd.Flags().String("method", classify.StepwiseForward, "forward or backward")
	stepwiseCmd.Flags().Int("cv", 5, "cross-validation folds used to score each candidate set")

	classifyCmd.AddCommand(fitCmd, predictCmd, cvCmd, tuneCmd, stepwiseCmd)
}

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "dataset file")
	cmd.Flags().String("sep", ",", "field separator")
	cmd.Flags().Int("dims", 10000, "hypervector dimensionality")
	cmd.Flags().Int("levels", 10, "level codebook size")
	cmd.Flags().Uint64("seed", 1, "random seed")
}

func loadAndFit(v *viper.Viper) (*classify.MLModel, [][]float64, []string, []string, error) {
	sep := []rune(v.GetString("sep"))[0]
	_, features, X, classes, err := dataset.LoadDataset(v.GetString("dataset"), sep)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	m, err := classify.NewMLModel(v.GetInt("dims"), v.GetInt("levels"), v.GetUint64("seed"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := m.Fit(X, classes, features); err != nil {
		return nil, nil, nil, nil, err
	}
	return m, X, classes, features, nil
}

func runClassifyFit(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	m, X, classes, _, err := loadAndFit(v)
	if err != nil {
		return err
	}
	predicted, err := m.Predict(X)
	if err != nil {
		return err
	}
	wrong := 0
	for i, p := range predicted {
		if p != classes[i] {
			wrong++
		}
	}
	fmt.Printf("fitted %d rows; training accuracy=%.4f\n", len(X), 1-float64(wrong)/float64(len(X)))
	return nil
}

func runClassifyPredict(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	m, _, classes, _, err := loadAndFit(v)
	if err != nil {
		return err
	}
	testIdx, err := dataset.PercentageSplit(classes, v.GetFloat64("test-pct"), int64(v.GetUint64("seed")))
	if err != nil {
		return err
	}
	trainIdx := complementOf(len(classes), testIdx)
	predicted, errorRate, err := m.PredictIndices(trainIdx, testIdx)
	if err != nil {
		return err
	}
	fmt.Printf("held out %d rows; error_rate=%.4f\n", len(testIdx), errorRate)
	for i, idx := range testIdx {
		fmt.Printf("  row %d: predicted=%s actual=%s\n", idx, predicted[i], classes[idx])
	}
	return nil
}

func runClassifyCV(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	m, _, _, _, err := loadAndFit(v)
	if err != nil {
		return err
	}
	acc, rate, err := m.CrossValPredict(context.Background(), v.GetInt("folds"), int64(v.GetUint64("seed")))
	if err != nil {
		return err
	}
	fmt.Printf("cross-validation: accuracy=%.4f error_rate=%.4f\n", acc, rate)
	return nil
}

func runClassifyTune(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	m, _, _, _, err := loadAndFit(v)
	if err != nil {
		return err
	}
	sizes, err := parseIntList(v.GetString("sizes"))
	if err != nil {
		return err
	}
	levels, err := parseIntList(v.GetString("levels"))
	if err != nil {
		return err
	}
	best, err := m.AutoTune(sizes, levels, v.GetInt("cv"), v.GetUint64("seed"), int64(v.GetUint64("seed")))
	if err != nil {
		return err
	}
	fmt.Printf("best: size=%d levels=%d accuracy=%.4f\n", best.Size, best.Levels, best.Accuracy)
	return nil
}

func runClassifyStepwise(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	m, _, _, _, err := loadAndFit(v)
	if err != nil {
		return err
	}
	selected, acc, err := m.StepwiseSelect(v.GetString("method"), v.GetInt("cv"), int64(v.GetUint64("seed")))
	if err != nil {
		return err
	}
	fmt.Printf("selected features: %s (accuracy=%.4f)\n", strings.Join(selected, ","), acc)
	return nil
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func complementOf(n int, exclude []int) []int {
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
