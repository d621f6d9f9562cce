package config

import (
	"fmt"

	"github.com/wildstyl3r/eecs/internal/utils"
)

// base units are eV and nm^2
var unitToBase = map[string]float64{
	"eV":   1,     // [eV]
	"keV":  1e3,   // [eV]
	"MeV":  1e6,   // [eV]
	"nm2":  1,     // [nm^2]
	"A2":   1e-2,  // [nm^2]
	"cm2":  1e14,  // [nm^2]
	"m2":   1e18,  // [nm^2]
	"barn": 1e-10, // [nm^2]
}

type UnitClass int

const (
	Energy UnitClass = iota
	Area
)

var unitsInClass = map[UnitClass][]string{
	Energy: {"eV", "keV", "MeV"},
	Area:   {"nm2", "A2", "cm2", "m2", "barn"},
}

var classesOfUnits = map[string]UnitClass{
	"eV":   Energy,
	"keV":  Energy,
	"MeV":  Energy,
	"nm2":  Area,
	"A2":   Area,
	"cm2":  Area,
	"m2":   Area,
	"barn": Area,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

var defaultUnits = []string{"eV", "nm2"}

func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// SI converts v between the units listed in units and the base units.
// direct converts into base units, otherwise out of them.
func SI(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for range absPower {
				v *= unitToBase[*unit]
			}
		} else {
			for range absPower {
				v /= unitToBase[*unit]
			}
		}
	}
	return v
}

// Convert converts a value between two units of the same class.
func Convert(v float64, from, to string) (float64, error) {
	fromClass, ok := classesOfUnits[from]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidConfig, from)
	}
	toClass, ok := classesOfUnits[to]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidConfig, to)
	}
	if fromClass != toClass {
		return 0, fmt.Errorf("%w: cannot convert %s to %s", ErrInvalidConfig, from, to)
	}
	return v * unitToBase[from] / unitToBase[to], nil
}

// UnitName returns the unit of class listed in units, or the base unit.
func UnitName(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return unitsInClass[class][0]
}

var (
	EnergyUnit = []UnitElement{{Class: Energy, Power: 1}}
	AreaUnit   = []UnitElement{{Class: Area, Power: 1}}
)
