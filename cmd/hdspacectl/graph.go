package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Amansingh-afk/hdspace/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Fit, query, and mitigate a graph memory",
}

func init() {
	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a graph memory from an edge-list file",
		RunE:  runGraphFit,
	}
	fitCmd.Flags().String("edges", "", "edge-list file (u,v[,weight] per line)")
	fitCmd.Flags().Bool("directed", false, "treat edges as directed")
	fitCmd.Flags().Bool("weighted", false, "expect a weight column")
	fitCmd.Flags().Int("dims", 10000, "hypervector dimensionality")
	fitCmd.Flags().Uint64("seed", 1, "random seed")
	fitCmd.Flags().Float64("threshold", 0.5, "edge-existence distance threshold")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Ask whether an edge exists in a fitted graph",
		RunE:  runGraphQuery,
	}
	queryCmd.Flags().String("edges", "", "edge-list file used to fit the graph")
	queryCmd.Flags().Bool("directed", false, "treat edges as directed")
	queryCmd.Flags().Bool("weighted", false, "expect a weight column")
	queryCmd.Flags().Int("dims", 10000, "hypervector dimensionality")
	queryCmd.Flags().Uint64("seed", 1, "random seed")
	queryCmd.Flags().String("node-u", "", "source node")
	queryCmd.Flags().String("node-v", "", "destination node")
	queryCmd.Flags().Float64("weight", 0, "query weight (weighted graphs only)")
	queryCmd.Flags().Float64("threshold", 0.5, "edge-existence distance threshold")

	mitigateCmd := &cobra.Command{
		Use:   "mitigate",
		Short: "Run error mitigation over a fitted graph",
		RunE:  runGraphMitigate,
	}
	mitigateCmd.Flags().String("edges", "", "edge-list file used to fit the graph")
	mitigateCmd.Flags().Bool("directed", false, "treat edges as directed")
	mitigateCmd.Flags().Bool("weighted", false, "expect a weight column")
	mitigateCmd.Flags().Int("dims", 10000, "hypervector dimensionality")
	mitigateCmd.Flags().Uint64("seed", 1, "random seed")
	mitigateCmd.Flags().Float64("threshold", 0.5, "edge-existence distance threshold")
	mitigateCmd.Flags().Int("max-iter", 10, "mitigation iteration bound")

	graphCmd.AddCommand(fitCmd, queryCmd, mitigateCmd)
}

func runGraphFit(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	g, edges, err := buildGraph(cmd, v)
	if err != nil {
		return err
	}
	rate, fp, fn, err := g.ErrorRate(edges, v.GetFloat64("threshold"))
	if err != nil {
		return err
	}
	fmt.Printf("fitted %d edges; error_rate=%.4f (fp=%d fn=%d)\n", len(edges), rate, fp, fn)
	return nil
}

func runGraphQuery(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	g, _, err := buildGraph(cmd, v)
	if err != nil {
		return err
	}
	u := v.GetString("node-u")
	node := v.GetString("node-v")
	weighted := v.GetBool("weighted")
	weight := v.GetFloat64("weight")
	threshold := v.GetFloat64("threshold")

	present, dist, err := g.EdgeExists(u, node, weight, weighted, threshold)
	if err != nil {
		return err
	}
	fmt.Printf("edge(%s,%s) present=%v distance=%.4f\n", u, node, present, dist)
	return nil
}

func runGraphMitigate(cmd *cobra.Command, args []string) error {
	v := cmdViper(cmd)
	g, edges, err := buildGraph(cmd, v)
	if err != nil {
		return err
	}
	rate, iterations, err := g.ErrorMitigation(context.Background(), edges, v.GetFloat64("threshold"), v.GetInt("max-iter"))
	if err != nil {
		return err
	}
	fmt.Printf("error_mitigation: rate=%.4f after %d iterations\n", rate, iterations)
	return nil
}

func buildGraph(cmd *cobra.Command, v *viper.Viper) (*graph.Graph, []graph.Edge, error) {
	path := v.GetString("edges")
	directed := v.GetBool("directed")
	weighted := v.GetBool("weighted")
	dims := v.GetInt("dims")
	seed := v.GetUint64("seed")

	edges, err := loadEdges(path, weighted)
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.NewGraph(dims, directed, weighted, seed)
	if err != nil {
		return nil, nil, err
	}
	if err := g.Fit(edges); err != nil {
		return nil, nil, err
	}
	return g, edges, nil
}

// loadEdges reads "u,v" or "u,v,weight" lines (blank and #-prefixed lines
// skipped) into graph.Edge values.
func loadEdges(path string, weighted bool) ([]graph.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge file %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ','
	r.FieldsPerRecord = -1
	r.Comment = '#'

	var edges []graph.Edge
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading edge file %q: %w", path, err)
		}
		e := graph.Edge{U: strings.TrimSpace(row[0]), V: strings.TrimSpace(row[1])}
		if weighted {
			if len(row) < 3 {
				return nil, fmt.Errorf("edge %s-%s: weighted graph requires a weight column", e.U, e.V)
			}
			w, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("edge %s-%s: weight %q is not numeric", e.U, e.V, row[2])
			}
			e.Weight, e.HasWeight = w, true
		}
		edges = append(edges, e)
	}
	return edges, nil
}
