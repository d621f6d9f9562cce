package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/eecs/internal/crosssection"
	"github.com/wildstyl3r/eecs/internal/grid"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List reference models and interpolation methods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Models:        " + strings.Join(crosssection.ModelNames(), ", "))
		fmt.Println("Interpolation: " + strings.Join(grid.InterpolatorNames(), ", "))
		fmt.Println("Scale:         " + grid.ScaleLinear.String() + ", " + grid.ScaleLog10.String())
	},
}
