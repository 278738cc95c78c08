package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one typed cell of a sample. Exactly the fields implied by Kind
// are meaningful: Num for numeric cells, Code and Str (the level text) for
// categorical cells, Str for string cells.
type Value struct {
	Kind ColumnKind
	Num  float64
	Code int
	Str  string
}

func (v Value) String() string {
	if v.Kind == Numeric {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return v.Str
}

// Info is the read-only summary of a dataset. NumSamples is -1 when only
// descriptor-derived information is available (Loader.LoadInfo without a
// parse).
type Info struct {
	Dataset     string
	NumSamples  int
	Schema      []Column
	Task        TaskKind
	Description string
}

// info derives the descriptor-only part of Info.
func (d *Descriptor) info() Info {
	return Info{
		Dataset: d.Name,
		Schema:  append([]Column(nil), d.Schema...),
		Task:    d.Target.Task,
	}
}

// Table is the unified in-memory representation of a loaded dataset: an
// immutable, contiguous row-major sequence of typed cells. It is built once
// by a parse function and never mutated afterwards.
type Table struct {
	desc       *Descriptor
	cells      []Value
	nCols      int
	n          int
	levels     [][]string
	featureIdx []int
	targetIdx  []int
}

// NumSamples returns the total sample count, fixed at construction.
func (t *Table) NumSamples() int { return t.n }

// Sample returns the feature vector and target value(s) of the i-th sample
// in source row order. Out-of-range indices fail with *IndexError.
func (t *Table) Sample(i int) (features, target []Value, err error) {
	if i < 0 || i >= t.n {
		return nil, nil, &IndexError{Index: i, N: t.n}
	}
	row := t.cells[i*t.nCols : (i+1)*t.nCols]
	features = make([]Value, len(t.featureIdx))
	for j, idx := range t.featureIdx {
		features[j] = row[idx]
	}
	target = make([]Value, len(t.targetIdx))
	for j, idx := range t.targetIdx {
		target[j] = row[idx]
	}
	return features, target, nil
}

// Cell returns the i-th sample's cell in the named schema column.
func (t *Table) Cell(i int, column string) (Value, error) {
	if i < 0 || i >= t.n {
		return Value{}, &IndexError{Index: i, N: t.n}
	}
	idx, ok := t.desc.columnIndex(column)
	if !ok {
		return Value{}, fmt.Errorf("no column %q in dataset %s", column, t.desc.Name)
	}
	return t.cells[i*t.nCols+idx], nil
}

// Info returns the dataset summary with the exact sample count.
func (t *Table) Info() Info {
	info := t.desc.info()
	info.NumSamples = t.n
	return info
}

// Levels returns the categorical vocabulary of the named column in code
// order: the declared order for closed vocabularies, first-seen row order
// otherwise. It returns nil for non-categorical or unknown columns.
func (t *Table) Levels(column string) []string {
	idx, ok := t.desc.columnIndex(column)
	if !ok || t.desc.Schema[idx].Kind != Categorical {
		return nil
	}
	return append([]string(nil), t.levels[idx]...)
}

// TableBuilder accumulates coerced rows for a parse function. Each parser
// creates one, appends every source row in native order and finishes with
// Table. A failed append poisons nothing: the error carries row and column
// context and the parse fails as a whole.
type TableBuilder struct {
	desc   *Descriptor
	cells  []Value
	n      int
	codes  []map[string]int
	levels [][]string
}

// NewTableBuilder returns a builder for the descriptor's schema. Closed
// categorical vocabularies are seeded from the descriptor so their codes
// follow the declared order.
func NewTableBuilder(d *Descriptor) *TableBuilder {
	b := &TableBuilder{
		desc:   d,
		codes:  make([]map[string]int, len(d.Schema)),
		levels: make([][]string, len(d.Schema)),
	}
	for i, c := range d.Schema {
		if c.Kind != Categorical {
			continue
		}
		b.codes[i] = make(map[string]int, len(c.Levels))
		for code, level := range c.Levels {
			b.codes[i][level] = code
		}
		b.levels[i] = append([]string(nil), c.Levels...)
	}
	return b
}

// AppendRow coerces one record of raw fields against the schema and appends
// it. file and row (1-based) are used for error context only.
func (b *TableBuilder) AppendRow(file string, row int, fields []string) error {
	if len(fields) != len(b.desc.Schema) {
		return &ParseError{
			File: file,
			Row:  row,
			Err:  fmt.Errorf("expected %d fields, got %d", len(b.desc.Schema), len(fields)),
		}
	}
	start := len(b.cells)
	for i, col := range b.desc.Schema {
		v, err := b.coerce(i, col, fields[i])
		if err != nil {
			b.cells = b.cells[:start]
			return &ParseError{File: file, Row: row, Column: col.Name, Err: err}
		}
		b.cells = append(b.cells, v)
	}
	b.n++
	return nil
}

func (b *TableBuilder) coerce(idx int, col Column, field string) (Value, error) {
	switch col.Kind {
	case Numeric:
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Value{}, fmt.Errorf("malformed numeric value %q", field)
		}
		return Value{Kind: Numeric, Num: f}, nil
	case Categorical:
		level := strings.TrimSpace(field)
		code, ok := b.codes[idx][level]
		if !ok {
			if len(col.Levels) > 0 {
				return Value{}, fmt.Errorf("unknown level %q", level)
			}
			code = len(b.levels[idx])
			b.codes[idx][level] = code
			b.levels[idx] = append(b.levels[idx], level)
		}
		return Value{Kind: Categorical, Code: code, Str: level}, nil
	default:
		return Value{Kind: String, Str: field}, nil
	}
}

// Len returns the number of rows appended so far.
func (b *TableBuilder) Len() int { return b.n }

// Table finishes the build and returns the immutable table.
func (b *TableBuilder) Table() *Table {
	t := &Table{
		desc:   b.desc,
		cells:  b.cells,
		nCols:  len(b.desc.Schema),
		n:      b.n,
		levels: b.levels,
	}
	for i, c := range b.desc.Schema {
		if b.desc.isTarget(c.Name) {
			t.targetIdx = append(t.targetIdx, i)
		} else {
			t.featureIdx = append(t.featureIdx, i)
		}
	}
	return t
}
