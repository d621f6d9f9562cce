package crosssection

import (
	"math"

	"github.com/wildstyl3r/eecs/internal/constants"
)

// Born–Wentzel total elastic cross section (Reimer, TEM, p. 152).
func BornWentzelNm2(atomicNumber int, energyEV float64) float64 {
	h := constants.PlanckEVs
	e0 := constants.ElectronRestEnergyEV
	nominator := h * h * math.Pow(float64(atomicNumber), 4./3.)
	denominator := math.Pi * e0 * e0 * Beta2(energyEV)
	return nominator / denominator
}

// Quantum approximation of the total elastic cross section (Reimer, TEM,
// p. 153), valid while Z/(137 beta) < 1.2.
func QuantumApproximationNm2(atomicNumber int, energyEV float64) float64 {
	z := float64(atomicNumber)
	beta := Beta(energyEV)
	limitFactor := z / (137. * beta)

	factorA := 1.5e-6 * math.Pow(z, 3./2.) / (beta * beta)
	factorB := 1. - 0.23*limitFactor
	return factorA * factorB
}

func Beta(energyEV float64) float64 {
	return math.Sqrt(Beta2(energyEV))
}

// Beta2 is (v/c)^2 of an electron with kinetic energy energyEV.
func Beta2(energyEV float64) float64 {
	t := 1. / (1. + energyEV/constants.ElectronRestEnergyEV)
	return 1. - t*t
}

// Small angle screened Rutherford differential cross section (Reimer, TEM,
// p. 151).
func DifferentialRutherfordSmallAngleNm2Sr(atomicNumber int, energyEV, angleRad float64) float64 {
	z := float64(atomicNumber)
	r := ScreeningRadiusNm(atomicNumber)
	aH := constants.BohrRadiusNm
	theta0 := CharacteristicAngleRad(atomicNumber, energyEV)
	relativistic := 1. + energyEV/constants.ElectronRestEnergyEV

	factorA := 4. * z * z * math.Pow(r, 4) * relativistic * relativistic / (aH * aH)
	ratio := angleRad / theta0
	factorB := 1. / ((1. + ratio*ratio) * (1. + ratio*ratio))
	return factorA * factorB
}

// ScreeningRadiusNm is R = a_H Z^{-1/3}.
func ScreeningRadiusNm(atomicNumber int) float64 {
	return constants.BohrRadiusNm * math.Pow(float64(atomicNumber), -1./3.)
}

func CharacteristicAngleRad(atomicNumber int, energyEV float64) float64 {
	return WavelengthNm(energyEV) / (2. * math.Pi * ScreeningRadiusNm(atomicNumber))
}

// WavelengthNm is the relativistic electron wavelength.
func WavelengthNm(energyEV float64) float64 {
	nominator := constants.PlanckEVs * constants.SpeedOfLight
	denominator := math.Sqrt(2.*energyEV*constants.ElectronRestEnergyEV + energyEV*energyEV)
	return nominator / denominator * 1.0e9
}

// Relativistic screened Rutherford total cross section of Henoc and Maurice
// (Joy et al., Principles of Analytical Electron Microscopy, p. 5).
func HenocMauriceNm2(atomicNumber int, energyEV float64) float64 {
	a0 := constants.BohrRadiusCm
	factor := 1. / (16. * math.Pow(math.Pi, 3) * a0 * a0)
	z := float64(atomicNumber)
	lambda := wavelengthCm(energyEV)
	delta := henocMauriceDelta(atomicNumber, energyEV)

	totalCm2 := factor * z * z * math.Pow(lambda, 4) / (delta * (delta + 1.))
	return totalCm2 * cm2ToNm2
}

func wavelengthCm(energyEV float64) float64 {
	energyKeV := energyEV * 1.0e-3
	return 3.87e-9 / (math.Sqrt(energyKeV) * math.Sqrt(1.+9.79e-4*energyKeV))
}

func henocMauriceDelta(atomicNumber int, energyEV float64) float64 {
	energyKeV := energyEV * 1.0e-3
	return 3.4e-3 * math.Pow(float64(atomicNumber), 2./3.) / energyKeV
}

// Total cross section for scattering beyond angleRad (Reimer, TEM, p. 151).
func TotalAboveAngleNm2(atomicNumber int, energyEV, angleRad float64) float64 {
	z := float64(atomicNumber)
	r := ScreeningRadiusNm(atomicNumber)
	aH := constants.BohrRadiusNm
	theta0 := CharacteristicAngleRad(atomicNumber, energyEV)
	lambda := WavelengthNm(energyEV)
	relativistic := 1. + energyEV/constants.ElectronRestEnergyEV

	factorA := z * z * r * r * lambda * lambda * relativistic * relativistic / (math.Pi * aH * aH)
	ratio := angleRad / theta0
	return factorA / (1. + ratio*ratio)
}
