package dataset

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
)

// This file bridges loaded tables to gomlx. The canonical representation of
// a dataset is a pair of 2D float64 arrays (X, Y): one row per sample,
// numeric cells as-is, categorical cells as their codes, string cells
// excluded since they have no numeric form.

// canonicalColumns returns the schema indices contributing to X and Y.
// String feature columns are skipped; a string target is an error.
func (t *Table) canonicalColumns() (xCols, yCols []int, err error) {
	for _, idx := range t.featureIdx {
		if t.desc.Schema[idx].Kind == String {
			continue
		}
		xCols = append(xCols, idx)
	}
	for _, idx := range t.targetIdx {
		if t.desc.Schema[idx].Kind == String {
			return nil, nil, fmt.Errorf("target column %q is a string column and has no canonical form", t.desc.Schema[idx].Name)
		}
		yCols = append(yCols, idx)
	}
	return xCols, yCols, nil
}

func (t *Table) canonicalRows(from, to int, xCols, yCols []int) (xs, ys [][]float64) {
	xs = make([][]float64, 0, to-from)
	ys = make([][]float64, 0, to-from)
	for i := from; i < to; i++ {
		row := t.cells[i*t.nCols : (i+1)*t.nCols]
		x := make([]float64, len(xCols))
		for j, idx := range xCols {
			x[j] = row[idx].canonical()
		}
		y := make([]float64, len(yCols))
		for j, idx := range yCols {
			y[j] = row[idx].canonical()
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func (v Value) canonical() float64 {
	if v.Kind == Categorical {
		return float64(v.Code)
	}
	return v.Num
}

// Tensors returns the canonical (X, Y) matrices as gomlx tensors with shape
// [NumSamples, width]. Y is nil for datasets without target columns.
func (t *Table) Tensors() (x, y *tensors.Tensor, err error) {
	xCols, yCols, err := t.canonicalColumns()
	if err != nil {
		return nil, nil, err
	}
	xs, ys := t.canonicalRows(0, t.n, xCols, yCols)
	x = tensors.FromAnyValue(xs)
	if len(yCols) == 0 {
		return x, nil, nil
	}
	return x, tensors.FromAnyValue(ys), nil
}

// tableDataset adapts a Table to gomlx's train.Dataset so a loaded dataset
// can feed training loops directly.
type tableDataset struct {
	t     *Table
	size  int
	next  int
	xCols []int
	yCols []int
}

// Batches returns a train.Dataset yielding canonical (X, Y) batches of the
// given size in source row order, with a short final batch and io.EOF at
// the end of the epoch. A non-positive size yields the whole table at once.
func (t *Table) Batches(size int) (train.Dataset, error) {
	xCols, yCols, err := t.canonicalColumns()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = t.n
	}
	return &tableDataset{t: t, size: size, xCols: xCols, yCols: yCols}, nil
}

// Name implements train.Dataset.
func (d *tableDataset) Name() string { return d.t.desc.Name }

// Reset implements train.Dataset, restarting the epoch.
func (d *tableDataset) Reset() { d.next = 0 }

// Yield implements train.Dataset.
func (d *tableDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.next >= d.t.n {
		return nil, nil, nil, io.EOF
	}
	end := min(d.next+d.size, d.t.n)
	xs, ys := d.t.canonicalRows(d.next, end, d.xCols, d.yCols)
	d.next = end

	inputs = []*tensors.Tensor{tensors.FromAnyValue(xs)}
	if len(d.yCols) > 0 {
		labels = []*tensors.Tensor{tensors.FromAnyValue(ys)}
	}
	return nil, inputs, labels, nil
}
