package utils

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteTabSeparated writes the header (when not empty) followed by rows.
// Rows are natural-sorted by their first column when sorted is set.
func WriteTabSeparated(w io.Writer, header []string, data CSV, sorted bool) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'
	if len(header) > 0 {
		if err := tw.Write(header); err != nil {
			return err
		}
	}
	if sorted {
		sort.Sort(data)
	}
	if err := tw.WriteAll(data); err != nil {
		return err
	}
	return tw.Error()
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Columns turns parallel float slices into table rows.
func Columns(columns ...[]float64) CSV {
	if len(columns) == 0 {
		return nil
	}
	rows := make(CSV, len(columns[0]))
	for i := range rows {
		row := make([]string, len(columns))
		for c := range columns {
			row[c] = FormatFloat(columns[c][i])
		}
		rows[i] = row
	}
	return rows
}
