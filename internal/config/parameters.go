package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/wildstyl3r/eecs/internal/utils"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	OutputDir string
	Models    map[string]GridParameters
	GridParameters
	// AtomicNumbers expands the global parameters into one model per element.
	AtomicNumbers []int
	isDefinedMap  map[string]struct{}

	InputUnits  []string
	OutputUnits []string
}

func (c *Config) isDefined(path []string, meta *toml.MetaData) bool {
	if _, sureDefined := c.isDefinedMap[strings.Join(path, "#")]; sureDefined {
		return true
	} else {
		return meta.IsDefined(path...)
	}
}

// LoadConfig decodes <configFileName>.toml; the suffix may be omitted.
func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	config.isDefinedMap = map[string]struct{}{}
	meta, err := toml.DecodeFile(strings.TrimSuffix(configFileName, ".toml")+".toml", &config)
	if err != nil {
		return config, meta, err
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("%w: input unit conflict: %v", ErrInvalidConfig, unitsConflict)
	}
	for _, unit := range config.InputUnits {
		class := classesOfUnits[unit]
		if utils.Intersect(unitsInClass[class], config.OutputUnits) == nil {
			config.OutputUnits = append(config.OutputUnits, unit)
		}
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("%w: output unit conflict: %v", ErrInvalidConfig, unitsConflict)
	}

	if len(config.AtomicNumbers) > 0 {
		if len(config.Models) > 0 {
			return config, meta, fmt.Errorf("%w: simultaneous AtomicNumbers listing and direct model specification not supported", ErrInvalidConfig)
		}
		config.Models = make(map[string]GridParameters, len(config.AtomicNumbers))
		for _, z := range config.AtomicNumbers {
			modelName := config.Model + "_Z" + strconv.Itoa(z)
			config.Models[modelName] = GridParameters{AtomicNumber: z}
			config.isDefinedMap[strings.Join([]string{"Models", modelName, "AtomicNumber"}, "#")] = struct{}{}
		}
	}
	if len(config.Models) == 0 {
		return config, meta, fmt.Errorf("%w: no models provided", ErrInvalidConfig)
	}

	return config, meta, nil
}

type GridParameters struct {
	Model         string
	AtomicNumber  int
	CrossSections string // LXCat file

	Scale           string
	EnergyMin       float64 // [eV]
	EnergyMax       float64 // [eV]
	InitialPoints   int
	InitialGrid     []float64 // [eV]
	InitialGridFile string
	DecadeSeed      bool // seed with grid.DecadeSeed(EnergyMin, EnergyMax)

	Tolerance         float64
	MaxIterations     int
	Resolution        float64 // [eV]
	Interpolation     string
	IntegrationPoints int
	Workers           int

	MakeDir    bool
	SaveErrors bool

	_outputUnits []string
}

func (p *GridParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *GridParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

// IsLXCat reports whether the reference is read from an LXCat table.
func (p *GridParameters) IsLXCat() bool {
	return strings.EqualFold(p.Model, "lxcat")
}

var defaultValues = map[string]any{ // in base units
	"Scale":             "log10",
	"InitialPoints":     20,
	"Tolerance":         0.001,
	"MaxIterations":     500,
	"Resolution":        1., // [eV]
	"Interpolation":     "linear",
	"IntegrationPoints": 0,
	"Workers":           1,
	"DecadeSeed":        false,
	"MakeDir":           true,
	"SaveErrors":        false,
}

var fieldsXor = map[string][]string{
	"InitialGrid":     {"InitialGridFile"},
	"InitialGridFile": {"InitialGrid"},
}

var fieldsAnd = map[string][]string{
	"EnergyMin": {"EnergyMax"},
	"EnergyMax": {"EnergyMin"},
}

var valueUnits = map[string][]UnitElement{
	"EnergyMin":   EnergyUnit,
	"EnergyMax":   EnergyUnit,
	"Resolution":  EnergyUnit,
	"InitialGrid": EnergyUnit,
}

func (p *GridParameters) toBase(parameterNames, units []string) {
	reflected := reflect.ValueOf(p).Elem()
	for _, name := range parameterNames {
		classes, ok := valueUnits[name]
		if !ok {
			continue
		}
		field := reflected.FieldByName(name)
		switch {
		case field.CanFloat():
			field.SetFloat(SI(field.Float(), classes, units, true))
		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Float64:
			for i := range field.Len() {
				field.Index(i).SetFloat(SI(field.Index(i).Float(), classes, units, true))
			}
		}
	}
}

func clone(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c
}

/*
field value priority:
1. model
2. global
3. default

xor alternatives defined by the model shadow the global value of the other
field. Values read from the file are converted to base units before the
defaults (already in base units) are applied.
*/

func (p *GridParameters) CheckAndUnify(modelName string, config *Config, meta *toml.MetaData) error {
	local := reflect.ValueOf(p).Elem()
	global := reflect.ValueOf(&config.GridParameters).Elem()
	fields := local.Type()

	var discovered []string
	excluded := map[string]struct{}{}
	for i := range fields.NumField() {
		name := fields.Field(i).Name
		if fields.Field(i).IsExported() && config.isDefined([]string{"Models", modelName, name}, meta) {
			discovered = append(discovered, name)
			for _, alternative := range fieldsXor[name] {
				excluded[alternative] = struct{}{}
			}
		}
	}
	for i := range fields.NumField() {
		name := fields.Field(i).Name
		if _, skip := excluded[name]; skip || !fields.Field(i).IsExported() || slices.Contains(discovered, name) {
			continue
		}
		if meta.IsDefined(name) {
			local.Field(i).Set(clone(global.Field(i)))
			discovered = append(discovered, name)
		}
	}

	var problems []error
	for _, name := range discovered {
		for _, alternative := range fieldsXor[name] {
			if slices.Contains(discovered, alternative) {
				problems = append(problems, fmt.Errorf("for parameter %s found conflicting parameter: %s", name, alternative))
			}
		}
		for _, requirement := range fieldsAnd[name] {
			if !slices.Contains(discovered, requirement) {
				problems = append(problems, fmt.Errorf("for parameter %s requirement %s not found", name, requirement))
			}
		}
	}

	p.toBase(discovered, config.InputUnits)

	for name, value := range defaultValues {
		if !slices.Contains(discovered, name) {
			local.FieldByName(name).Set(reflect.ValueOf(value))
		}
	}

	if p.InitialGridFile != "" {
		seed, err := utils.ReadFloatColumn(p.InitialGridFile)
		if err != nil {
			problems = append(problems, fmt.Errorf("initial grid file: %w", err))
		} else {
			p.InitialGrid = seed
			p.toBase([]string{"InitialGrid"}, config.InputUnits)
		}
	}

	if p.Model == "" {
		problems = append(problems, errors.New("field 'Model' not found"))
	} else if p.IsLXCat() {
		if p.CrossSections == "" {
			problems = append(problems, errors.New("field 'CrossSections' not found: required by lxcat model"))
		}
	} else if p.AtomicNumber < 1 {
		problems = append(problems, errors.New("field 'AtomicNumber' not found or not positive"))
	}
	if len(p.InitialGrid) == 0 && !slices.Contains(discovered, "EnergyMin") {
		problems = append(problems, errors.New("neither EnergyMin/EnergyMax nor an initial grid is given"))
	}
	if p.Tolerance <= 0 {
		problems = append(problems, fmt.Errorf("tolerance must be positive, got %g", p.Tolerance))
	}

	p._outputUnits = config.OutputUnits

	if len(problems) > 0 {
		return fmt.Errorf("%w: model %s: %w", ErrInvalidConfig, modelName, errors.Join(problems...))
	}
	return nil
}
