package crosssection_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/eecs/internal/crosssection"
)

const cm2ToA2 = 1.0e16

func TestTotalBrowning1994(t *testing.T) {
	tests := []struct {
		z         int
		energyKeV float64
		wantA2    float64
	}{
		{6, 1, 0.55816651729734323},
		{6, 10, 0.061015054708437634},
		{6, 100, 0.006243449450842576},
		{13, 1, 1.5556811447079389},
		{79, 20, 0.86137481241591683},
	}
	for _, tt := range tests {
		got := crosssection.TotalBrowning1994Cm2(tt.z, tt.energyKeV) * cm2ToA2
		assert.InDelta(t, tt.wantA2, got, 1e-12, "Z=%d E=%g keV", tt.z, tt.energyKeV)
	}
	assert.InDelta(t, 0.006243, crosssection.TotalBrowning1994Cm2(6, 100)*cm2ToA2, 1e-6)
}

func TestPolarAngle(t *testing.T) {
	tests := []struct {
		z         int
		energyKeV float64
		r1, r2    float64
		want      float64
	}{
		{6, 1, 0.1, 1.0, 0.64350110879328426},
		{6, 1, 0.1, 0.0, 0.055568829753649025},
		{6, 1, 0.5, 0.5, 0.16636462643999517},
		{6, 1, 0.9, 0.5, 0.49019091996002279},
		{6, 1, 0.0, 0.5, 0},
		{6, 1, 1.0, 0.5, math.Pi},
		{6, 20, 0.1, 0.5, 0.012469847640606605},
		{6, 100, 0.5, 0.5, 0.016732224515452667},
	}
	for _, tt := range tests {
		got := crosssection.PolarAngleRad(tt.z, tt.energyKeV, tt.r1, tt.r2)
		assert.InDelta(t, tt.want, got, 1e-6, "Z=%d E=%g r1=%g r2=%g", tt.z, tt.energyKeV, tt.r1, tt.r2)
	}
}

func TestSamplePolarAngleStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 1000 {
		theta := crosssection.SamplePolarAngleRad(29, 5, rng)
		require.GreaterOrEqual(t, theta, 0.)
		require.LessOrEqual(t, theta, math.Pi)
	}
}

func TestRatioBrowning1994(t *testing.T) {
	assert.InDelta(t, 50.00072, crosssection.RatioBrowning1994(6, 1), 1e-9)
	// the two variants agree at 1 keV
	assert.InDelta(t, crosssection.RatioBrowning1994(6, 1), crosssection.RatioBrowning1994McXRay(6, 1), 1e-12)
	assert.NotEqual(t, crosssection.RatioBrowning1994(6, 10), crosssection.RatioBrowning1994McXRay(6, 10))
}

func TestScreening(t *testing.T) {
	alpha := crosssection.ScreeningParameter(6, 1)
	assert.InDelta(t, 3.4e-3*math.Pow(6, 0.67), alpha, 1e-15)
	assert.Less(t, crosssection.DecreasedScreeningParameter(6, 1), alpha)
	assert.Less(t, crosssection.AverageAngleRutherfordDecreasedScreeningDeg(6, 1), crosssection.AverageAngleRutherfordDeg(6, 1))
}

func TestRelativisticKinematics(t *testing.T) {
	assert.InDelta(t, 0.0, crosssection.Beta2(0), 1e-15)
	// 511 keV electron: gamma = 2
	assert.InDelta(t, 0.75, crosssection.Beta2(511e3), 1e-12)
	assert.InDelta(t, math.Sqrt(0.75), crosssection.Beta(511e3), 1e-12)
	// 100 keV electron wavelength is about 3.7 pm
	assert.InDelta(t, 3.7e-3, crosssection.WavelengthNm(100e3), 0.05e-3)
}

func TestClosedFormModelsDecreaseWithEnergy(t *testing.T) {
	for _, name := range crosssection.ModelNames() {
		if name == crosssection.LXCat {
			continue
		}
		t.Run(name, func(t *testing.T) {
			reference, err := crosssection.Reference(name, 29)
			require.NoError(t, err)
			previous := math.Inf(1)
			for _, e := range []float64{1e3, 5e3, 2e4, 1e5} {
				sigma := reference(e)
				require.True(t, sigma > 0 && !math.IsInf(sigma, 0), "sigma(%g) = %g", e, sigma)
				require.Less(t, sigma, previous)
				previous = sigma
			}
		})
	}
}

func TestModelRegistry(t *testing.T) {
	names := crosssection.ModelNames()
	assert.Equal(t, crosssection.LXCat, names[len(names)-1])
	assert.Contains(t, names, "browning1994")
	assert.Contains(t, names, "henoc-maurice")

	m, err := crosssection.Model("Browning1994")
	require.NoError(t, err)
	assert.InDelta(t, crosssection.TotalBrowning1994Cm2(6, 100)*1e14, m(6, 100e3), 1e-18)

	_, err = crosssection.Model("mott")
	assert.ErrorIs(t, err, crosssection.ErrUnknownModel)

	_, err = crosssection.Reference("rutherford", 0)
	assert.Error(t, err)
}

func TestWilliamsCarter(t *testing.T) {
	// sin(theta/2)^-4 scaling
	ratio := crosssection.PartialWilliamsCarterM2Sr(6, 1e3, math.Pi/3) / crosssection.PartialWilliamsCarterM2Sr(6, 1e3, math.Pi)
	assert.InDelta(t, 16, ratio, 1e-9)
	assert.Greater(t, crosssection.TotalWilliamsCarterCm2(6, 1e3, 0.1), crosssection.TotalWilliamsCarterCm2(6, 1e3, 0.2))
}
