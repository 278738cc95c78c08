package dataset

import "fmt"

// ColumnKind classifies the cells of one schema column.
type ColumnKind int

const (
	// Numeric cells hold float64 values; NaN marks a missing value.
	Numeric ColumnKind = iota
	// Categorical cells hold a level string and its integer code.
	Categorical
	// String cells hold free text and have no canonical numeric form.
	String
)

func (k ColumnKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case String:
		return "string"
	}
	return fmt.Sprintf("ColumnKind(%d)", int(k))
}

// TaskKind classifies the learning task a dataset's target describes.
type TaskKind int

const (
	// NoTask marks datasets without target columns.
	NoTask TaskKind = iota
	Classification
	Regression
)

func (k TaskKind) String() string {
	switch k {
	case NoTask:
		return "none"
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	}
	return fmt.Sprintf("TaskKind(%d)", int(k))
}

// Column describes one column of a dataset's schema.
type Column struct {
	Name string
	Kind ColumnKind

	// Levels is the closed vocabulary of a categorical column. When set,
	// values outside it are parse errors and codes follow the declared
	// order. When empty, levels are learned during parsing and codes are
	// assigned in first-seen row order.
	Levels []string
}

// FileEntry describes one remote file of a dataset.
type FileEntry struct {
	URL      string
	Filename string

	// SHA256 is the hex checksum of the file content. Empty when the
	// archive publishes none; verification is then skipped for this file.
	SHA256 string
}

// Target names the column(s) holding the label and the task they describe.
type Target struct {
	Columns []string
	Task    TaskKind
}

// ParseFunc converts cached raw files into the in-memory table. The paths
// argument holds the local path of every descriptor file, in declared order.
type ParseFunc func(paths []string, d *Descriptor) (*Table, error)

// Descriptor is the static metadata of one dataset: where its files live,
// what its columns mean and how to parse the raw bytes. Descriptors are
// hand-authored by per-dataset packages and treated as immutable.
type Descriptor struct {
	// Name is the dataset's canonical name. It is used as the cache
	// subdirectory, so it may contain slashes to group related datasets
	// (e.g. "uci/iris").
	Name string

	Files []FileEntry

	// InfoFile optionally names the entry in Files whose content is a
	// human-readable dataset description (UCI ".names" files).
	InfoFile string

	Schema []Column
	Target Target
	Parse  ParseFunc
}

// Validate checks the descriptor contract. It is called by Builder.Create
// before any I/O happens.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return &ConfigError{Reason: "descriptor has no name"}
	}
	if len(d.Files) == 0 {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s declares no files", d.Name)}
	}
	seen := make(map[string]bool, len(d.Files))
	for _, f := range d.Files {
		if f.URL == "" || f.Filename == "" {
			return &ConfigError{Reason: fmt.Sprintf("dataset %s has a file entry with empty URL or filename", d.Name)}
		}
		if seen[f.Filename] {
			return &ConfigError{Reason: fmt.Sprintf("dataset %s declares filename %q twice", d.Name, f.Filename)}
		}
		seen[f.Filename] = true
	}
	if d.InfoFile != "" && !seen[d.InfoFile] {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s: info file %q is not in the file list", d.Name, d.InfoFile)}
	}
	if len(d.Schema) == 0 {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s declares no columns", d.Name)}
	}
	cols := make(map[string]bool, len(d.Schema))
	for _, c := range d.Schema {
		if c.Name == "" {
			return &ConfigError{Reason: fmt.Sprintf("dataset %s has an unnamed column", d.Name)}
		}
		if cols[c.Name] {
			return &ConfigError{Reason: fmt.Sprintf("dataset %s declares column %q twice", d.Name, c.Name)}
		}
		cols[c.Name] = true
	}
	for _, t := range d.Target.Columns {
		if !cols[t] {
			return &ConfigError{Reason: fmt.Sprintf("dataset %s: target column %q is not in the schema", d.Name, t)}
		}
	}
	if d.Target.Task != NoTask && len(d.Target.Columns) == 0 {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s declares a %s task but no target columns", d.Name, d.Target.Task)}
	}
	if d.Target.Task == NoTask && len(d.Target.Columns) > 0 {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s declares target columns but no task kind", d.Name)}
	}
	if d.Parse == nil {
		return &ConfigError{Reason: fmt.Sprintf("dataset %s has no parse function", d.Name)}
	}
	return nil
}

// columnIndex returns the schema position of the named column.
func (d *Descriptor) columnIndex(name string) (int, bool) {
	for i, c := range d.Schema {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// isTarget reports whether the named column is part of the target.
func (d *Descriptor) isTarget(name string) bool {
	for _, t := range d.Target.Columns {
		if t == name {
			return true
		}
	}
	return false
}
