package uci

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/mldata/dataset"
)

// AutoMPG returns the descriptor for the "Auto MPG" data set: 398 cars with
// 7 numeric features plus the car name, and fuel consumption (mpg) as a
// regression target. Six cars have an unknown horsepower, marked "?" in the
// source file; those cells load as NaN, which is the dataset's documented
// missing marker rather than a malformed value.
func AutoMPG() *dataset.Descriptor {
	return &dataset.Descriptor{
		Name: "uci/auto_mpg",
		Files: []dataset.FileEntry{
			{
				URL:      "http://archive.ics.uci.edu/ml/machine-learning-databases/auto-mpg/auto-mpg.data",
				Filename: "auto_mpg.data",
			},
			{
				URL:      "http://archive.ics.uci.edu/ml/machine-learning-databases/auto-mpg/auto-mpg.names",
				Filename: "auto_mpg.names",
			},
		},
		InfoFile: "auto_mpg.names",
		Schema: []dataset.Column{
			{Name: "mpg", Kind: dataset.Numeric},
			{Name: "cylinders", Kind: dataset.Numeric},
			{Name: "displacement", Kind: dataset.Numeric},
			{Name: "horsepower", Kind: dataset.Numeric},
			{Name: "weight", Kind: dataset.Numeric},
			{Name: "acceleration", Kind: dataset.Numeric},
			{Name: "model_year", Kind: dataset.Numeric},
			{Name: "origin", Kind: dataset.Numeric},
			{Name: "car_name", Kind: dataset.String},
		},
		Target: dataset.Target{Columns: []string{"mpg"}, Task: dataset.Regression},
		Parse:  parseAutoMPG,
	}
}

// parseAutoMPG reads the whitespace-aligned table: 8 numeric columns
// followed by the car name, which contains spaces and is enclosed in double
// quotes.
func parseAutoMPG(paths []string, d *dataset.Descriptor) (*dataset.Table, error) {
	name := filepath.Base(paths[0])
	b := dataset.NewTableBuilder(d)

	err := dataset.ForEachLine(paths[0], func(row int, line string) error {
		fields := strings.Fields(line)
		if len(fields) < len(d.Schema) {
			return &dataset.ParseError{
				File: name,
				Row:  row,
				Err:  fmt.Errorf("expected at least %d fields, got %d", len(d.Schema), len(fields)),
			}
		}

		record := make([]string, 0, len(d.Schema))
		record = append(record, fields[:8]...)
		if record[3] == "?" {
			record[3] = "NaN" // documented missing-horsepower marker
		}
		record = append(record, strings.Trim(strings.Join(fields[8:], " "), `"`))

		return b.AppendRow(name, row, record)
	})
	if err != nil {
		return nil, err
	}
	return b.Table(), nil
}
