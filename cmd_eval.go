package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/eecs/internal/config"
	"github.com/wildstyl3r/eecs/internal/utils"
)

var (
	evalAtomicNumber  int
	evalCrossSections string
	evalEnergyUnit    string
	evalAreaUnit      string
)

var evalCmd = &cobra.Command{
	Use:   "eval <model> <energy>...",
	Short: "Evaluate a total cross-section model at the given energies",
	Example: `  eecs eval browning1994 -Z 6 1 10 100 --energy-unit keV --area-unit A2
  eecs eval lxcat --cross-sections Ar.txt 1 10 100`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().IntVarP(&evalAtomicNumber, "atomic-number", "Z", 0, "atomic number of the target element")
	evalCmd.Flags().StringVar(&evalCrossSections, "cross-sections", "", "LXCat file for the lxcat model")
	evalCmd.Flags().StringVar(&evalEnergyUnit, "energy-unit", "eV", "unit of the given energies")
	evalCmd.Flags().StringVar(&evalAreaUnit, "area-unit", "nm2", "unit of the printed cross sections")
}

func runEval(cmd *cobra.Command, args []string) error {
	parameters := config.GridParameters{
		Model:         args[0],
		AtomicNumber:  evalAtomicNumber,
		CrossSections: evalCrossSections,
	}
	reference, err := referenceOf(&parameters)
	if err != nil {
		return err
	}

	energies := make([]float64, 0, len(args)-1)
	sigmas := make([]float64, 0, len(args)-1)
	for _, arg := range args[1:] {
		e, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("energy %q: %w", arg, err)
		}
		eV, err := config.Convert(e, evalEnergyUnit, "eV")
		if err != nil {
			return err
		}
		sigma, err := config.Convert(reference(eV), "nm2", evalAreaUnit)
		if err != nil {
			return err
		}
		energies = append(energies, e)
		sigmas = append(sigmas, sigma)
	}

	name := parameters.Model + " Z=" + strconv.Itoa(parameters.AtomicNumber)
	if parameters.IsLXCat() {
		name = utils.GetFilename(parameters.CrossSections)
	}
	header := []string{"E (" + evalEnergyUnit + ")", name + " (" + evalAreaUnit + ")"}
	return utils.WriteTabSeparated(os.Stdout, header, utils.Columns(energies, sigmas), false)
}
