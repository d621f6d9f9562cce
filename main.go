package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "eecs",
	Short: "Electron elastic cross sections and adaptive energy grids",
	Long: `eecs evaluates closed-form and LXCat electron elastic cross sections and
builds energy grids on which interpolation of a model stays within a
relative error bound.

Examples:
  eecs grid --input carbon.toml
  eecs eval browning1994 -Z 6 1000 10000 100000
  eecs models`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every grid iteration")

	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
