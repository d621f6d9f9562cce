package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/eecs/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadAndUnify(t *testing.T, content string) (map[string]config.GridParameters, error) {
	t.Helper()
	path := writeFile(t, t.TempDir(), "run.toml", content)
	cfg, meta, err := config.LoadConfig(path)
	require.NoError(t, err)

	models := map[string]config.GridParameters{}
	var errs []error
	for name, parameters := range cfg.Models {
		if err := parameters.CheckAndUnify(name, &cfg, &meta); err != nil {
			errs = append(errs, err)
			continue
		}
		models[name] = parameters
	}
	if len(errs) > 0 {
		return models, errs[0]
	}
	return models, nil
}

const layered = `
OutputDir = "out"
InputUnits = ["keV"]
OutputUnits = ["cm2"]
Model = "browning1994"
Tolerance = 0.01
Resolution = 0.001

[Models.carbon]
AtomicNumber = 6
EnergyMin = 0.1
EnergyMax = 30.0

[Models.gold]
AtomicNumber = 79
Model = "henoc-maurice"
InitialGrid = [1.0, 10.0, 100.0]
Tolerance = 0.005
Scale = "linear"
MakeDir = false
`

func TestCheckAndUnifyPriority(t *testing.T) {
	models, err := loadAndUnify(t, layered)
	require.NoError(t, err)
	require.Len(t, models, 2)

	carbon := models["carbon"]
	assert.Equal(t, "browning1994", carbon.Model)
	assert.Equal(t, 6, carbon.AtomicNumber)
	assert.InDelta(t, 100, carbon.EnergyMin, 1e-9)
	assert.InDelta(t, 30000, carbon.EnergyMax, 1e-9)
	assert.Equal(t, 0.01, carbon.Tolerance)
	assert.InDelta(t, 1, carbon.Resolution, 1e-12)
	assert.Equal(t, "log10", carbon.Scale)
	assert.Equal(t, 20, carbon.InitialPoints)
	assert.Equal(t, 500, carbon.MaxIterations)
	assert.Equal(t, "linear", carbon.Interpolation)
	assert.Equal(t, 1, carbon.Workers)
	assert.True(t, carbon.MakeDir)
	assert.False(t, carbon.SaveErrors)
	assert.ElementsMatch(t, []string{"cm2", "keV"}, carbon.OutputUnits())

	gold := models["gold"]
	assert.Equal(t, "henoc-maurice", gold.Model)
	assert.Equal(t, 0.005, gold.Tolerance)
	assert.Equal(t, "linear", gold.Scale)
	assert.False(t, gold.MakeDir)
	assert.InDeltaSlice(t, []float64{1e3, 1e4, 1e5}, gold.InitialGrid, 1e-9)
}

func TestGlobalSeedIsNotConvertedTwice(t *testing.T) {
	models, err := loadAndUnify(t, `
InputUnits = ["keV"]
Model = "rutherford"
InitialGrid = [1.0, 2.0]

[Models.a]
AtomicNumber = 6

[Models.b]
AtomicNumber = 7
`)
	require.NoError(t, err)
	assert.Equal(t, []float64{1e3, 2e3}, models["a"].InitialGrid)
	assert.Equal(t, []float64{1e3, 2e3}, models["b"].InitialGrid)
}

func TestInitialGridFileShadowsGlobalSeed(t *testing.T) {
	seed := writeFile(t, t.TempDir(), "seed.txt", "# energies, keV\n1\n\n2\n5 0.3\n")
	models, err := loadAndUnify(t, `
InputUnits = ["keV"]
Model = "rutherford"
AtomicNumber = 29
InitialGrid = [1.0, 2.0]

[Models.copper]
InitialGridFile = "`+seed+`"
`)
	require.NoError(t, err)
	assert.Equal(t, []float64{1e3, 2e3, 5e3}, models["copper"].InitialGrid)
	assert.Equal(t, 29, models["copper"].AtomicNumber)
}

func TestAtomicNumbersExpandModels(t *testing.T) {
	models, err := loadAndUnify(t, `
Model = "rutherford"
AtomicNumbers = [6, 29]
EnergyMin = 100.0
EnergyMax = 1e5
`)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, 6, models["rutherford_Z6"].AtomicNumber)
	assert.Equal(t, 29, models["rutherford_Z29"].AtomicNumber)
	assert.Equal(t, 100., models["rutherford_Z29"].EnergyMin)
}

func TestCheckAndUnifyRejects(t *testing.T) {
	tests := map[string]string{
		"missing model": `
[Models.x]
AtomicNumber = 6
EnergyMin = 1.0
EnergyMax = 2.0
`,
		"missing atomic number": `
[Models.x]
Model = "browning1994"
EnergyMin = 1.0
EnergyMax = 2.0
`,
		"lxcat without file": `
[Models.x]
Model = "lxcat"
EnergyMin = 1.0
EnergyMax = 2.0
`,
		"half a domain": `
[Models.x]
Model = "browning1994"
AtomicNumber = 6
EnergyMin = 1.0
`,
		"no domain": `
[Models.x]
Model = "browning1994"
AtomicNumber = 6
`,
		"seed and seed file": `
[Models.x]
Model = "browning1994"
AtomicNumber = 6
InitialGrid = [1.0, 2.0]
InitialGridFile = "seed.txt"
`,
		"negative tolerance": `
[Models.x]
Model = "browning1994"
AtomicNumber = 6
EnergyMin = 1.0
EnergyMax = 2.0
Tolerance = -0.1
`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadAndUnify(t, content)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := map[string]string{
		"no models":        `Model = "rutherford"`,
		"unit conflict":    "InputUnits = [\"eV\", \"keV\"]\n[Models.x]\nModel = \"rutherford\"",
		"unknown unit":     "OutputUnits = [\"furlong\"]\n[Models.x]\nModel = \"rutherford\"",
		"both model lists": "AtomicNumbers = [6]\n[Models.x]\nModel = \"rutherford\"",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "run.toml", content)
			_, _, err := config.LoadConfig(path)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoadConfigWithoutSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.toml", layered)
	cfg, _, err := config.LoadConfig(filepath.Join(dir, "run"))
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Len(t, cfg.Models, 2)
}
