// Package openml provides descriptors for data sets hosted on openml.org,
// which serves its downloads in the ARFF format. All files share one cache
// directory, mirroring the archive's flat dataset numbering.
package openml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/mldata/arff"
	"github.com/Noofbiz/mldata/dataset"
)

// Iris returns the descriptor for OpenML dataset 61, the ARFF rendition of
// the UCI Iris data.
func Iris() *dataset.Descriptor {
	return &dataset.Descriptor{
		Name: "openml.org",
		Files: []dataset.FileEntry{
			{
				URL:      "https://www.openml.org/data/download/61/dataset_61_iris.arff",
				Filename: "dataset_61_iris.arff",
			},
		},
		Schema: []dataset.Column{
			{Name: "sepallength", Kind: dataset.Numeric},
			{Name: "sepalwidth", Kind: dataset.Numeric},
			{Name: "petallength", Kind: dataset.Numeric},
			{Name: "petalwidth", Kind: dataset.Numeric},
			{
				Name:   "class",
				Kind:   dataset.Categorical,
				Levels: []string{"Iris-setosa", "Iris-versicolor", "Iris-virginica"},
			},
		},
		Target: dataset.Target{Columns: []string{"class"}, Task: dataset.Classification},
		Parse:  parseARFF,
	}
}

// AutoMPG returns the descriptor for OpenML dataset 2182, the ARFF
// rendition of the UCI Auto MPG data. OpenML names the mpg target "class"
// and drops the car-name column.
func AutoMPG() *dataset.Descriptor {
	return &dataset.Descriptor{
		Name: "openml.org",
		Files: []dataset.FileEntry{
			{
				URL:      "https://www.openml.org/data/download/3633/dataset_2182_autoMpg.arff",
				Filename: "dataset_2182_autoMpg.arff",
			},
		},
		Schema: []dataset.Column{
			{Name: "cylinders", Kind: dataset.Numeric},
			{Name: "displacement", Kind: dataset.Numeric},
			{Name: "horsepower", Kind: dataset.Numeric},
			{Name: "weight", Kind: dataset.Numeric},
			{Name: "acceleration", Kind: dataset.Numeric},
			{Name: "model", Kind: dataset.Numeric},
			{Name: "origin", Kind: dataset.Numeric},
			{Name: "class", Kind: dataset.Numeric},
		},
		Target: dataset.Target{Columns: []string{"class"}, Task: dataset.Regression},
		Parse:  parseARFF,
	}
}

// parseARFF is the shared parse function: it checks the ARFF header against
// the descriptor's schema, then coerces every record. ARFF marks missing
// values with "?"; those load as NaN in numeric columns.
func parseARFF(paths []string, d *dataset.Descriptor) (*dataset.Table, error) {
	name := filepath.Base(paths[0])

	f, err := os.Open(paths[0])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", paths[0], err)
	}
	defer f.Close()

	rel, rows, err := arff.Parse(f)
	if err != nil {
		return nil, &dataset.ParseError{File: name, Err: err}
	}

	if len(rel.Attributes) != len(d.Schema) {
		return nil, &dataset.ParseError{
			File: name,
			Err:  fmt.Errorf("header declares %d attributes, schema expects %d", len(rel.Attributes), len(d.Schema)),
		}
	}
	for i, attr := range rel.Attributes {
		if !strings.EqualFold(attr.Name, d.Schema[i].Name) {
			return nil, &dataset.ParseError{
				File: name,
				Err:  fmt.Errorf("attribute %d is %q, schema expects %q", i, attr.Name, d.Schema[i].Name),
			}
		}
	}

	b := dataset.NewTableBuilder(d)
	for i, record := range rows {
		for j, col := range d.Schema {
			if col.Kind == dataset.Numeric && record[j] == "?" {
				record[j] = "NaN"
			}
		}
		if err := b.AppendRow(name, i+1, record); err != nil {
			return nil, err
		}
	}
	return b.Table(), nil
}
