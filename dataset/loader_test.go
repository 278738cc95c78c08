package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// pointsDescriptor is the synthetic dataset used throughout the package
// tests: two numeric features and an open-vocabulary class label, stored as
// a headerless CSV file.
func pointsDescriptor() *Descriptor {
	return &Descriptor{
		Name: "test/points",
		Files: []FileEntry{
			{URL: "http://points.invalid/points.csv", Filename: "points.csv"},
		},
		Schema: []Column{
			{Name: "x", Kind: Numeric},
			{Name: "y", Kind: Numeric},
			{Name: "label", Kind: Categorical},
		},
		Target: Target{Columns: []string{"label"}, Task: Classification},
		Parse:  parsePoints,
	}
}

func parsePoints(paths []string, d *Descriptor) (*Table, error) {
	b := NewTableBuilder(d)
	if err := ReadDelimited(paths[0], ',', false, b); err != nil {
		return nil, err
	}
	return b.Table(), nil
}

// seedCache writes content as a pre-cached file under the dataset's cache
// subdirectory below root.
func seedCache(t *testing.T, root string, d *Descriptor, filename, content string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(d.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create cache dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed %s: %v", filename, err)
	}
}

func TestCreateRejectsBadDescriptors(t *testing.T) {
	root := t.TempDir()

	cases := []struct {
		name   string
		mangle func(d *Descriptor)
	}{
		{"no files", func(d *Descriptor) { d.Files = nil }},
		{"duplicate filename", func(d *Descriptor) {
			d.Files = append(d.Files, FileEntry{URL: "http://points.invalid/x", Filename: "points.csv"})
		}},
		{"duplicate column", func(d *Descriptor) { d.Schema[1].Name = "x" }},
		{"unknown target column", func(d *Descriptor) { d.Target.Columns = []string{"nope"} }},
		{"task without target", func(d *Descriptor) { d.Target.Columns = nil }},
		{"target without task", func(d *Descriptor) { d.Target.Task = NoTask }},
		{"no parse function", func(d *Descriptor) { d.Parse = nil }},
		{"info file not listed", func(d *Descriptor) { d.InfoFile = "missing.names" }},
	}

	for _, tc := range cases {
		d := pointsDescriptor()
		tc.mangle(d)
		_, err := New(d).DataRoot(root).Create()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected ConfigError, got %v", tc.name, err)
		}
	}
}

func TestCreateWithoutDescriptor(t *testing.T) {
	_, err := Builder{}.Create()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadDataPreservesRowOrder(t *testing.T) {
	root := t.TempDir()
	d := pointsDescriptor()
	seedCache(t, root, d, "points.csv", "1,2,a\n3,4,b\n5,6,a\n")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	table, err := loader.LoadData()
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}

	if got := table.NumSamples(); got != 3 {
		t.Fatalf("expected 3 samples, got %d", got)
	}

	wantX := []float64{1, 3, 5}
	wantLabel := []string{"a", "b", "a"}
	for i := 0; i < table.NumSamples(); i++ {
		features, target, err := table.Sample(i)
		if err != nil {
			t.Fatalf("Sample(%d) failed: %v", i, err)
		}
		if len(features) != 2 || len(target) != 1 {
			t.Fatalf("Sample(%d): unexpected dims features=%d target=%d", i, len(features), len(target))
		}
		if features[0].Num != wantX[i] {
			t.Fatalf("Sample(%d): x = %v, want %v", i, features[0].Num, wantX[i])
		}
		if target[0].Str != wantLabel[i] {
			t.Fatalf("Sample(%d): label = %q, want %q", i, target[0].Str, wantLabel[i])
		}
	}
}

func TestSampleIndexBounds(t *testing.T) {
	root := t.TempDir()
	d := pointsDescriptor()
	seedCache(t, root, d, "points.csv", "1,2,a\n3,4,b\n")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	table, err := loader.LoadData()
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}

	for _, idx := range []int{-1, 2, 100} {
		_, _, err := table.Sample(idx)
		var idxErr *IndexError
		if !errors.As(err, &idxErr) {
			t.Fatalf("Sample(%d): expected IndexError, got %v", idx, err)
		}
		if idxErr.Index != idx || idxErr.N != 2 {
			t.Fatalf("Sample(%d): unexpected error fields %+v", idx, idxErr)
		}
	}
	for idx := 0; idx < 2; idx++ {
		if _, _, err := table.Sample(idx); err != nil {
			t.Fatalf("Sample(%d) unexpectedly failed: %v", idx, err)
		}
	}
}

func TestLoadDataRejectsMalformedCell(t *testing.T) {
	root := t.TempDir()
	d := pointsDescriptor()
	seedCache(t, root, d, "points.csv", "1,2,a\n3,oops,b\n")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Row != 2 || parseErr.Column != "y" {
		t.Fatalf("expected error at row 2 column y, got row %d column %q", parseErr.Row, parseErr.Column)
	}
}

func TestLoadDataRejectsShortRow(t *testing.T) {
	root := t.TempDir()
	d := pointsDescriptor()
	seedCache(t, root, d, "points.csv", "1,2,a\n3,4\n")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Row != 2 {
		t.Fatalf("expected error at row 2, got row %d", parseErr.Row)
	}
}

func TestLoadInfoCheapPath(t *testing.T) {
	root := t.TempDir()
	d := pointsDescriptor()
	d.Files = append(d.Files, FileEntry{URL: "http://points.invalid/points.names", Filename: "points.names"})
	d.InfoFile = "points.names"
	seedCache(t, root, d, "points.csv", "1,2,a\n")
	seedCache(t, root, d, "points.names", "Synthetic points for testing.\n")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	info, err := loader.LoadInfo()
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Dataset != "test/points" {
		t.Fatalf("unexpected dataset name %q", info.Dataset)
	}
	if info.NumSamples != -1 {
		t.Fatalf("expected unknown sample count (-1), got %d", info.NumSamples)
	}
	if info.Task != Classification {
		t.Fatalf("unexpected task %v", info.Task)
	}
	if len(info.Schema) != 3 {
		t.Fatalf("unexpected schema size %d", len(info.Schema))
	}
	if info.Description != "Synthetic points for testing.\n" {
		t.Fatalf("unexpected description %q", info.Description)
	}
}

func TestAutoMPGStyleMissingValue(t *testing.T) {
	// NaN round-trips through numeric coercion, which is how per-dataset
	// parsers represent documented missing markers.
	d := pointsDescriptor()
	b := NewTableBuilder(d)
	if err := b.AppendRow("points.csv", 1, []string{"NaN", "2", "a"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}
	table := b.Table()
	features, _, err := table.Sample(0)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if !math.IsNaN(features[0].Num) {
		t.Fatalf("expected NaN, got %v", features[0].Num)
	}
}
