package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/eecs/internal/config"
	"github.com/wildstyl3r/eecs/internal/crosssection"
	"github.com/wildstyl3r/eecs/internal/grid"
	"github.com/wildstyl3r/eecs/internal/utils"
)

const gridListFile = "EnergiesGridList.txt"

var (
	gridInput   string
	gridThreads int
	gridReport  string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Generate adaptive energy grids for every model of a configuration",
	Long: `Reads a TOML configuration with a [Models.<name>] table per grid and
refines each grid until interpolation of its reference model meets the
tolerance. Every model writes a tab-separated energy/cross-section table;
the batch writes ` + gridListFile + ` and a YAML run report.`,
	Args: cobra.NoArgs,
	RunE: runGrid,
}

func init() {
	gridCmd.Flags().StringVarP(&gridInput, "input", "i", "eecs", "model configuration in toml format")
	gridCmd.Flags().IntVarP(&gridThreads, "threads", "t", runtime.NumCPU(), "models generated concurrently")
	gridCmd.Flags().StringVar(&gridReport, "report", "report.yaml", "run report file in the output directory, empty to skip")
}

type gridJob struct {
	name       string
	parameters config.GridParameters
}

type gridOutcome struct {
	gridJob
	result  *grid.Result
	err     error
	elapsed time.Duration
}

func runGrid(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	fmt.Printf("Current time: %s\n", startTime.UTC().Format(time.UnixDate))

	cfg, meta, err := config.LoadConfig(gridInput)
	if err != nil {
		return err
	}

	var jobs []gridJob
	for _, modelName := range slices.Sorted(maps.Keys(cfg.Models)) {
		parameters := cfg.Models[modelName]
		if err := parameters.CheckAndUnify(modelName, &cfg, &meta); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		jobs = append(jobs, gridJob{name: modelName, parameters: parameters})
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no valid models in %s", config.ErrInvalidConfig, gridInput)
	}

	outcomes := generateAll(cmd.Context(), jobs, gridThreads)

	outputPath := ""
	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		outputPath = cfg.OutputDir
	}

	var failed int
	gridList := utils.CSV{}
	for i := range outcomes {
		o := &outcomes[i]
		if o.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", o.name, o.err)
			continue
		}
		if !o.result.Converged {
			slog.Warn("grid did not converge", "model", o.name, "termination", o.result.Termination,
				"max_error", o.result.MaxError, "tolerance", o.parameters.Tolerance)
		}
		if err := saveGrid(outputPath, o); err != nil {
			o.err = err
			failed++
			fmt.Fprintf(os.Stderr, "unable to save %s: %v\n", o.name, err)
			continue
		}
		fmt.Println(o.name + " saved")
		row := []string{o.name}
		for _, e := range o.result.Grid {
			row = append(row, utils.FormatFloat(config.SI(e, config.EnergyUnit, o.parameters.OutputUnits(), false)))
		}
		gridList = append(gridList, row)
	}

	if len(gridList) > 0 {
		if err := saveGridList(outputPath, gridList); err != nil {
			fmt.Fprintf(os.Stderr, "unable to save %s: %v\n", gridListFile, err)
		}
	}
	if gridReport != "" {
		report := newRunReport(gridInput, startTime, outcomes)
		if err := report.save(filepath.Join(outputPath, gridReport)); err != nil {
			fmt.Fprintf(os.Stderr, "unable to save report: %v\n", err)
		}
	}

	fmt.Printf("Elapsed time: %v\n", time.Since(startTime))
	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, len(jobs))
	}
	return nil
}

// generateAll runs at most threads jobs at a time and returns the outcomes
// in job order.
func generateAll(ctx context.Context, jobs []gridJob, threads int) []gridOutcome {
	var wg sync.WaitGroup
	dataflow := make(chan gridOutcome)
	slots := make(chan struct{}, max(threads, 1))
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			dataflow <- generate(ctx, job)
		}()
	}

	go func() {
		wg.Wait()
		close(dataflow)
	}()

	byName := make(map[string]gridOutcome, len(jobs))
	fmt.Printf("\rDone:[0/%d]", len(jobs))
	for o := range dataflow {
		byName[o.name] = o
		fmt.Printf("\rDone:[%d/%d]", len(byName), len(jobs))
	}
	fmt.Println()

	outcomes := make([]gridOutcome, len(jobs))
	for i := range jobs {
		outcomes[i] = byName[jobs[i].name]
	}
	return outcomes
}

func generate(ctx context.Context, job gridJob) gridOutcome {
	started := time.Now()
	result, err := generateGrid(ctx, job.name, &job.parameters)
	return gridOutcome{gridJob: job, result: result, err: err, elapsed: time.Since(started)}
}

func generateGrid(ctx context.Context, modelName string, p *config.GridParameters) (*grid.Result, error) {
	reference, err := referenceOf(p)
	if err != nil {
		return nil, err
	}
	gc, err := gridConfig(p, reference, slog.Default().With("model", modelName))
	if err != nil {
		return nil, err
	}
	g, err := grid.New(gc)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, p.Tolerance)
}

func referenceOf(p *config.GridParameters) (func(float64) float64, error) {
	if p.IsLXCat() {
		return crosssection.LoadLXCat(p.CrossSections)
	}
	return crosssection.Reference(p.Model, p.AtomicNumber)
}

func gridConfig(p *config.GridParameters, reference func(float64) float64, logger *slog.Logger) (grid.Config, error) {
	scale, err := grid.ParseScale(p.Scale)
	if err != nil {
		return grid.Config{}, err
	}
	interpolator, err := grid.InterpolatorByName(p.Interpolation)
	if err != nil {
		return grid.Config{}, err
	}
	seed := p.InitialGrid
	if len(seed) == 0 && p.DecadeSeed {
		seed = grid.DecadeSeed(p.EnergyMin, p.EnergyMax)
	}
	return grid.Config{
		Scale:         scale,
		Min:           p.EnergyMin,
		Max:           p.EnergyMax,
		InitialPoints: p.InitialPoints,
		InitialGrid:   seed,
		Reference:     reference,
		Interpolator:  interpolator,
		Integrator:    grid.IntegratorFor(p.IntegrationPoints),
		Resolution:    p.Resolution,
		MaxIterations: p.MaxIterations,
		Workers:       p.Workers,
		Logger:        logger,
	}, nil
}

func saveGrid(outputPath string, o *gridOutcome) error {
	units := o.parameters.OutputUnits()
	energyUnit := config.UnitName(config.Energy, units)
	areaUnit := config.UnitName(config.Area, units)

	energies := make([]float64, len(o.result.Grid))
	sigmas := make([]float64, len(o.result.Values))
	for i := range energies {
		energies[i] = config.SI(o.result.Grid[i], config.EnergyUnit, units, false)
		sigmas[i] = config.SI(o.result.Values[i], config.AreaUnit, units, false)
	}
	header := []string{"E (" + energyUnit + ")", "sigma (" + areaUnit + ")"}
	if err := writeTable(o.parameters.MakeDir, outputPath, "grid", o.name, header, utils.Columns(energies, sigmas)); err != nil {
		return err
	}

	if !o.parameters.SaveErrors {
		return nil
	}
	midpoints := o.result.Midpoints()
	for i := range midpoints {
		midpoints[i] = config.SI(midpoints[i], config.EnergyUnit, units, false)
	}
	header = []string{"E (" + energyUnit + ")", "relative error"}
	return writeTable(o.parameters.MakeDir, outputPath, "errors", o.name, header, utils.Columns(midpoints, o.result.Errors))
}

func writeTable(makeDir bool, outputPath, fileSuffix, modelName string, header []string, rows utils.CSV) (err error) {
	file, err := utils.OpenFile(makeDir, outputPath, fileSuffix, modelName)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return utils.WriteTabSeparated(file, header, rows, false)
}

func saveGridList(outputPath string, rows utils.CSV) (err error) {
	if outputPath != "" {
		if err := os.MkdirAll(outputPath, 0750); err != nil {
			return err
		}
	}
	file, err := os.Create(filepath.Join(outputPath, gridListFile))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return utils.WriteTabSeparated(file, nil, rows, true)
}
