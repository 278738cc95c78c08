// Package view provides small inspection helpers for loaded datasets: a 2-D
// view over image-shaped feature vectors and a scatter plot of two columns.
package view

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/mldata/dataset"
)

// Grid is a read-only 2-D view over a flat, row-major sequence of cells,
// e.g. an optdigits feature vector seen as its 32x32 bitmap.
type Grid struct {
	cells []dataset.Value
	rows  int
	cols  int
}

// NewGrid wraps cells as a rows x cols grid. The cell count must match the
// requested shape exactly.
func NewGrid(cells []dataset.Value, rows, cols int) (*Grid, error) {
	if rows*cols != len(cells) {
		return nil, fmt.Errorf("cannot view %d cells as a %dx%d grid", len(cells), rows, cols)
	}
	return &Grid{cells: cells, rows: rows, cols: cols}, nil
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at row r, column c. It panics on out-of-range
// coordinates, like slice indexing.
func (g *Grid) At(r, c int) dataset.Value {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		panic(fmt.Sprintf("grid index (%d, %d) out of range %dx%d", r, c, g.rows, g.cols))
	}
	return g.cells[r*g.cols+c]
}

// String renders the grid as "[a, b; c, d]" with rows separated by
// semicolons.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteString("; ")
		}
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(g.At(r, c).String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Scatter renders two columns of a loaded table against each other and
// saves the plot to path (format chosen by extension, e.g. ".png").
func Scatter(t *dataset.Table, xColumn, yColumn, path string) error {
	xys := make(plotter.XYs, t.NumSamples())
	for i := range xys {
		xv, err := t.Cell(i, xColumn)
		if err != nil {
			return err
		}
		yv, err := t.Cell(i, yColumn)
		if err != nil {
			return err
		}
		if xv.Kind == dataset.String || yv.Kind == dataset.String {
			return fmt.Errorf("cannot plot string column")
		}
		xys[i].X = cellFloat(xv)
		xys[i].Y = cellFloat(yv)
	}

	p := plot.New()
	p.Title.Text = t.Info().Dataset
	p.X.Label.Text = xColumn
	p.Y.Label.Text = yColumn

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	p.Add(s)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func cellFloat(v dataset.Value) float64 {
	if v.Kind == dataset.Categorical {
		return float64(v.Code)
	}
	return v.Num
}
