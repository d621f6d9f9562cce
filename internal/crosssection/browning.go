package crosssection

import (
	"math"
	"math/rand"
)

// Screened Rutherford total cross section without relativistic correction
// (Joy 1988, as used by Browning 1991), in cm^2. Energy in keV.
func TotalRutherfordCm2(atomicNumber int, energyKeV float64) float64 {
	z := float64(atomicNumber)
	const factor = 5.21e-21
	termA := z * z / (energyKeV * energyKeV)

	alpha := ScreeningParameter(atomicNumber, energyKeV)
	termB := math.Pi / (alpha * (1. + alpha))

	return factor * termA * termB
}

func ScreeningParameter(atomicNumber int, energyKeV float64) float64 {
	return 3.4e-3 * math.Pow(float64(atomicNumber), 0.67) / energyKeV
}

func DecreasedScreeningParameter(atomicNumber int, energyKeV float64) float64 {
	return (0.6 - 0.0035*energyKeV) * ScreeningParameter(atomicNumber, energyKeV)
}

func averageAngleDeg(alpha float64) float64 {
	averageAngleRad := math.Pi*math.Sqrt(alpha)*math.Sqrt(1.+alpha) - math.Pi*alpha
	return averageAngleRad * 180. / math.Pi
}

func AverageAngleRutherfordDeg(atomicNumber int, energyKeV float64) float64 {
	return averageAngleDeg(ScreeningParameter(atomicNumber, energyKeV))
}

func AverageAngleRutherfordDecreasedScreeningDeg(atomicNumber int, energyKeV float64) float64 {
	return averageAngleDeg(DecreasedScreeningParameter(atomicNumber, energyKeV))
}

// Browning 1991a total elastic cross section in cm^2, valid from 1 to 100 keV.
func TotalBrowning1991aCm2(atomicNumber int, energyKeV float64) float64 {
	z := float64(atomicNumber)
	e := energyKeV
	const factor = 4.7e-18
	nominator := math.Pow(z, 1.33) + 0.032*z*z
	denominator := e + 0.0155*math.Pow(z, 1.33)*math.Pow(e, 0.5)
	termA := nominator / denominator

	u := factorU(atomicNumber, energyKeV)
	termB := 1. / (1. - 0.02*math.Pow(z, 0.5)*math.Exp(-u*u))

	return factor * termA * termB
}

func factorU(atomicNumber int, energyKeV float64) float64 {
	return math.Log10(8.) * energyKeV * math.Pow(float64(atomicNumber), -1.33)
}

// Browning 1994 total elastic cross section in cm^2, valid from 100 eV to
// 30 keV for Z in 1..92.
func TotalBrowning1994Cm2(atomicNumber int, energyKeV float64) float64 {
	z := float64(atomicNumber)
	e := energyKeV
	const factor = 3.0e-18
	powerZ := math.Pow(z, 1.7)
	powerE := math.Pow(e, 0.5)
	denominator := e + 0.005*powerZ*powerE + 0.0007*z*z/powerE
	return factor * powerZ / denominator
}

// Browning 1991 differential cross section in cm^2/sr.
func DifferentialBrowning1991Cm2Sr(atomicNumber int, energyKeV, thetaRad float64) float64 {
	z := float64(atomicNumber)
	e := energyKeV
	const factor = 5.21e-21
	termA := z * z / (e * e)

	alpha := screeningParameterBrowning1991(atomicNumber, energyKeV)
	termB := 1. / (1. - math.Cos(thetaRad) - alpha)
	termC := alpha * (alpha + 1.) / (4.2 * math.Pow(e, 1.1))

	return factor * termA * (termB + termC)
}

func screeningParameterBrowning1991(atomicNumber int, energyKeV float64) float64 {
	return 5.5e-4 * math.Pow(float64(atomicNumber), 0.67) / energyKeV
}

// RatioBrowning1994 weighs screened Rutherford against isotropic scattering
// in the Browning 1994 angular distribution.
func RatioBrowning1994(atomicNumber int, energyKeV float64) float64 {
	z := float64(atomicNumber)
	e := energyKeV
	termA := 300. * math.Pow(e, 1.-z/2000.) / z
	termB := math.Pow(z, 3.) / (3.0e5 * e)
	return termA + termB
}

// RatioBrowning1994McXRay is the variant coded in MC X-Ray, where the second
// term multiplies by the energy instead of dividing.
func RatioBrowning1994McXRay(atomicNumber int, energyKeV float64) float64 {
	z := float64(atomicNumber)
	e := energyKeV
	termA := 300. * math.Pow(e, 1.-z/2000.) / z
	termB := math.Pow(z, 3.) / 3.0e5 * e
	return termA + termB
}

// PolarAngleRad samples the Browning 1994 polar scattering angle: r2 selects
// between the screened Rutherford and the isotropic branch, r1 draws the
// angle within the branch. Both are uniform numbers in [0, 1].
func PolarAngleRad(atomicNumber int, energyKeV, r1, r2 float64) float64 {
	ratio := RatioBrowning1994(atomicNumber, energyKeV)
	var cosTheta float64
	if r2 <= ratio/(1.+ratio) {
		alpha := 7.0e-3 / energyKeV
		cosTheta = 1. - 2.*alpha*r1/(1.+alpha-r1)
	} else {
		cosTheta = 1. - 2.*r1
	}

	if cosTheta > 1. {
		return 0.
	} else if cosTheta < -1. {
		return math.Pi
	}
	return math.Acos(cosTheta)
}

func SamplePolarAngleRad(atomicNumber int, energyKeV float64, rng *rand.Rand) float64 {
	return PolarAngleRad(atomicNumber, energyKeV, rng.Float64(), rng.Float64())
}
