// Package crosssection holds closed-form electron elastic cross sections and
// a registry of total cross-section models usable as grid references.
package crosssection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wildstyl3r/lxgata"
)

const (
	cm2ToNm2 = 1.0e14
	m2ToNm2  = 1.0e18
)

var ErrUnknownModel = errors.New("crosssection: unknown model")

// TotalModel returns a total elastic cross section in nm^2 for an electron
// of energyEV eV.
type TotalModel func(atomicNumber int, energyEV float64) float64

const LXCat = "lxcat"

var totalModels = map[string]TotalModel{
	"rutherford": func(atomicNumber int, energyEV float64) float64 {
		return TotalRutherfordCm2(atomicNumber, energyEV*1.0e-3) * cm2ToNm2
	},
	"browning1991a": func(atomicNumber int, energyEV float64) float64 {
		return TotalBrowning1991aCm2(atomicNumber, energyEV*1.0e-3) * cm2ToNm2
	},
	"browning1994": func(atomicNumber int, energyEV float64) float64 {
		return TotalBrowning1994Cm2(atomicNumber, energyEV*1.0e-3) * cm2ToNm2
	},
	"henoc-maurice":         HenocMauriceNm2,
	"quantum-approximation": QuantumApproximationNm2,
	"born-wentzel":          BornWentzelNm2,
}

func Model(name string) (TotalModel, error) {
	if m, ok := totalModels[strings.ToLower(name)]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownModel, name, strings.Join(ModelNames(), ", "))
}

// ModelNames lists the closed-form models followed by "lxcat".
func ModelNames() []string {
	names := make([]string, 0, len(totalModels)+1)
	for name := range totalModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, LXCat)
}

// Reference binds a closed-form model to an element.
func Reference(name string, atomicNumber int) (func(energyEV float64) float64, error) {
	m, err := Model(name)
	if err != nil {
		return nil, err
	}
	if atomicNumber < 1 {
		return nil, fmt.Errorf("crosssection: model %s needs a positive atomic number, got %d", name, atomicNumber)
	}
	return func(energyEV float64) float64 {
		return m(atomicNumber, energyEV)
	}, nil
}

// LoadLXCat reads an LXCat cross-section file and returns the summed cross
// section of all its processes in nm^2 as a function of energy in eV.
func LoadLXCat(path string) (func(energyEV float64) float64, error) {
	collisions, err := lxgata.LoadCrossSections(path)
	if err != nil {
		return nil, fmt.Errorf("invalid cross section file %s: %w", path, err)
	}
	return func(energyEV float64) float64 {
		return collisions.TotalCrossSectionAt(energyEV) * m2ToNm2
	}, nil
}
