package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wildstyl3r/eecs/internal/config"
	"github.com/wildstyl3r/eecs/internal/crosssection"
	"github.com/wildstyl3r/eecs/internal/grid"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestGridCommand(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out")
	input := filepath.Join(dir, "carbon.toml")
	require.NoError(t, os.WriteFile(input, []byte(`
OutputDir = "`+output+`"
InputUnits = ["keV"]
OutputUnits = ["A2"]
Model = "browning1994"
Tolerance = 0.01
SaveErrors = true

[Models.carbon]
AtomicNumber = 6
EnergyMin = 0.1
EnergyMax = 30.0

[Models.gold]
AtomicNumber = 79
EnergyMin = 1.0
EnergyMax = 30.0
MakeDir = false
`), 0o644))

	require.NoError(t, execute(t, "grid", "--input", input, "--threads", "2"))

	table, err := os.ReadFile(filepath.Join(output, "grid", "carbon.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	assert.Equal(t, "E (keV)\tsigma (A2)", lines[0])
	assert.Greater(t, len(lines), 20)
	assert.True(t, strings.HasPrefix(lines[1], "0.1\t"), lines[1])

	assert.FileExists(t, filepath.Join(output, "errors", "carbon.txt"))
	assert.FileExists(t, filepath.Join(output, "gold_grid.txt"))
	assert.FileExists(t, filepath.Join(output, "gold_errors.txt"))

	list, err := os.ReadFile(filepath.Join(output, gridListFile))
	require.NoError(t, err)
	listed := strings.Split(strings.TrimSpace(string(list)), "\n")
	require.Len(t, listed, 2)
	assert.True(t, strings.HasPrefix(listed[0], "carbon\t0.1\t"))
	assert.True(t, strings.HasPrefix(listed[1], "gold\t1\t"))

	raw, err := os.ReadFile(filepath.Join(output, "report.yaml"))
	require.NoError(t, err)
	var report runReport
	require.NoError(t, yaml.Unmarshal(raw, &report))
	require.Len(t, report.Models, 2)
	for _, m := range report.Models {
		assert.Empty(t, m.Error, m.Name)
		assert.Positive(t, m.Points, m.Name)
		assert.Equal(t, "browning1994", m.Model)
	}
	assert.Equal(t, report.Models[0].Evaluations+report.Models[1].Evaluations, report.Evaluations)
}

func TestGridCommandRejectsMissingConfig(t *testing.T) {
	err := execute(t, "grid", "--input", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestEvalCommandUnknownModel(t *testing.T) {
	err := execute(t, "eval", "mott", "-Z", "6", "100")
	assert.ErrorIs(t, err, crosssection.ErrUnknownModel)

	err = execute(t, "eval", "browning1994", "-Z", "6", "ten")
	assert.Error(t, err)
}

func TestGridConfig(t *testing.T) {
	p := config.GridParameters{
		Model:             "rutherford",
		AtomicNumber:      29,
		Scale:             "log10",
		EnergyMin:         10,
		EnergyMax:         5e5,
		DecadeSeed:        true,
		Interpolation:     "loglog",
		IntegrationPoints: 12,
		Resolution:        1,
		Workers:           3,
	}
	reference, err := referenceOf(&p)
	require.NoError(t, err)

	gc, err := gridConfig(&p, reference, nil)
	require.NoError(t, err)
	assert.Equal(t, grid.ScaleLog10, gc.Scale)
	assert.Equal(t, grid.GaussLegendre{N: 12}, gc.Integrator)
	require.Len(t, gc.InitialGrid, 57)
	assert.Equal(t, []float64{10, 20, 30}, gc.InitialGrid[:3])
	assert.Equal(t, []float64{100000, 120000, 140000}, gc.InitialGrid[36:39])
	assert.Equal(t, 5e5, gc.InitialGrid[56])
	assert.Equal(t, 3, gc.Workers)

	p.Interpolation = "quintic"
	_, err = gridConfig(&p, reference, nil)
	assert.ErrorIs(t, err, grid.ErrInvalidConfiguration)
}

func TestRunReportKeepsZeroError(t *testing.T) {
	result := &grid.Result{
		Grid:        []float64{1, 2, 3},
		Values:      []float64{1, 2, 3},
		Errors:      []float64{0, 0},
		Termination: grid.Converged,
		Converged:   true,
	}
	job := gridJob{name: "line", parameters: config.GridParameters{Model: "browning1994", Tolerance: 1e-3}}
	outcomes := []gridOutcome{{gridJob: job, result: result}}
	report := newRunReport("line", time.Now(), outcomes)
	raw, err := yaml.Marshal(&report)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "max_error: 0\n")
	assert.Contains(t, string(raw), "iterations: 0\n")
	assert.Contains(t, string(raw), "termination: converged\n")
}
