// Package uci provides descriptors for data sets hosted in the UCI Machine
// Learning Repository. Each dataset is a plain (Descriptor, parse function)
// pair consumed through dataset.New.
package uci

import "github.com/Noofbiz/mldata/dataset"

// Iris returns the descriptor for the "Iris" data set: 150 flower
// measurements over 4 numeric features with a three-class label.
func Iris() *dataset.Descriptor {
	return &dataset.Descriptor{
		Name: "uci/iris",
		Files: []dataset.FileEntry{
			{
				URL:      "http://archive.ics.uci.edu/ml/machine-learning-databases/iris/iris.data",
				Filename: "iris.data",
			},
			{
				URL:      "http://archive.ics.uci.edu/ml/machine-learning-databases/iris/iris.names",
				Filename: "iris.names",
			},
		},
		InfoFile: "iris.names",
		Schema: []dataset.Column{
			{Name: "sepal_length", Kind: dataset.Numeric},
			{Name: "sepal_width", Kind: dataset.Numeric},
			{Name: "petal_length", Kind: dataset.Numeric},
			{Name: "petal_width", Kind: dataset.Numeric},
			{
				Name:   "class",
				Kind:   dataset.Categorical,
				Levels: []string{"Iris-setosa", "Iris-versicolor", "Iris-virginica"},
			},
		},
		Target: dataset.Target{Columns: []string{"class"}, Task: dataset.Classification},
		Parse:  parseIris,
	}
}

func parseIris(paths []string, d *dataset.Descriptor) (*dataset.Table, error) {
	b := dataset.NewTableBuilder(d)
	if err := dataset.ReadDelimited(paths[0], ',', false, b); err != nil {
		return nil, err
	}
	return b.Table(), nil
}
