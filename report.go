package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wildstyl3r/eecs/internal/utils"
)

type runReport struct {
	Input       string        `yaml:"input"`
	Started     time.Time     `yaml:"started"`
	Elapsed     string        `yaml:"elapsed"`
	Evaluations int64         `yaml:"evaluations"`
	Models      []modelReport `yaml:"models"`
}

type modelReport struct {
	Name          string  `yaml:"name"`
	Model         string  `yaml:"model"`
	AtomicNumber  int     `yaml:"atomic_number,omitempty"`
	CrossSections string  `yaml:"cross_sections,omitempty"`
	Scale         string  `yaml:"scale"`
	Interpolation string  `yaml:"interpolation"`
	Tolerance     float64 `yaml:"tolerance"`
	Points        int     `yaml:"points,omitempty"`
	Iterations    int     `yaml:"iterations"`
	Evaluations   int64   `yaml:"evaluations,omitempty"`
	MaxError      float64 `yaml:"max_error"`
	MeanError     float64 `yaml:"mean_error,omitempty"`
	Termination   string  `yaml:"termination,omitempty"`
	Converged     bool    `yaml:"converged"`
	Elapsed       string  `yaml:"elapsed"`
	Error         string  `yaml:"error,omitempty"`
}

func newRunReport(input string, started time.Time, outcomes []gridOutcome) runReport {
	report := runReport{
		Input:   input,
		Started: started.UTC(),
		Elapsed: time.Since(started).String(),
		Models:  make([]modelReport, 0, len(outcomes)),
	}
	evaluations := make([]int64, 0, len(outcomes))
	for _, o := range outcomes {
		m := modelReport{
			Name:          o.name,
			Model:         o.parameters.Model,
			AtomicNumber:  o.parameters.AtomicNumber,
			CrossSections: o.parameters.CrossSections,
			Scale:         o.parameters.Scale,
			Interpolation: o.parameters.Interpolation,
			Tolerance:     o.parameters.Tolerance,
			Elapsed:       o.elapsed.String(),
		}
		if o.err != nil {
			m.Error = o.err.Error()
		}
		if r := o.result; r != nil {
			m.Points = len(r.Grid)
			m.Iterations = r.Iterations
			m.Evaluations = r.Evaluations
			m.MaxError = r.MaxError
			m.MeanError = utils.Average(r.Errors)
			m.Termination = r.Termination.String()
			m.Converged = r.Converged
			evaluations = append(evaluations, r.Evaluations)
		}
		report.Models = append(report.Models, m)
	}
	report.Evaluations = utils.SumSlice(evaluations)
	return report
}

func (r *runReport) save(path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return err
	}
	return encoder.Close()
}
