// Command hdspacectl is a thin operational front end over hdc/graph/classify:
// it parses flags and a dataset/edge file, drives the library packages, and
// prints results. None of hdc, graph, or classify import this package back.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hdspacectl",
	Short: "Drive the hyperdimensional-computing graph memory and classifier",
	Long: `hdspacectl is an operational front end for hdspace: it loads edge
lists and dataset files from disk, drives graph.Graph and classify.MLModel,
and prints the results. The library packages (hdc, graph, classify) never
parse flags or format terminal output themselves — hdspacectl is the only
place that does.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML run config (grid ranges, default threshold, default seed)")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(classifyCmd)
}

// cmdViper returns a Viper instance scoped to one command invocation: its
// flags are bound under their own names, and if --config names a YAML
// file, that file supplies the default for any flag the user didn't pass
// explicitly. A fresh instance per command avoids two subcommands that
// happen to share a flag name (both "graph fit" and "classify fit" take
// --seed) fighting over one global registry.
func cmdViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read config %s: %v\n", cfgFile, err)
		}
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	return v
}

func main() {
	Execute()
}
