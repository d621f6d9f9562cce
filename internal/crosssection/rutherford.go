package crosssection

import (
	"math"

	"github.com/wildstyl3r/eecs/internal/constants"
)

// Unscreened Rutherford differential cross section (Williams and Carter) in
// m^2/sr, with the beam energy entered in eV.
func PartialWilliamsCarterM2Sr(atomicNumber int, energyEV, thetaRad float64) float64 {
	z := float64(atomicNumber)
	e := constants.ElectronCharge
	denominator := 4. * math.Pi * constants.FreeSpacePermittivityE0 * energyEV
	factor := e * e * e * e * z * z / (16. * denominator * denominator)
	return factor / math.Pow(math.Sin(thetaRad*0.5), 4)
}

// Williams and Carter total cross section for scattering beyond thetaRad, in cm^2.
func TotalWilliamsCarterCm2(atomicNumber int, energyEV, thetaRad float64) float64 {
	ratio := float64(atomicNumber) / energyEV
	tangent := math.Tan(thetaRad * 0.5)
	return 1.62e-24 * ratio * ratio / (tangent * tangent)
}
