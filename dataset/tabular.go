package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadDelimited feeds every record of a delimited text file to the builder,
// preserving source row order. Blank lines are skipped (UCI data files end
// with one). Row-width and cell-coercion failures surface as *ParseError.
func ReadDelimited(path string, comma rune, header bool, b *TableBuilder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1 // row width is checked by the builder
	r.TrimLeadingSpace = true

	if header {
		if _, err := r.Read(); err != nil {
			return &ParseError{File: name, Err: fmt.Errorf("missing header: %w", err)}
		}
	}

	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		row++
		if err != nil {
			return &ParseError{File: name, Row: row, Err: err}
		}
		if err := b.AppendRow(name, row, record); err != nil {
			return err
		}
	}
}

// ForEachLine calls fn for every non-empty line of a text file, with row
// counting from 1. It is the scanning primitive for datasets whose format
// is not a clean delimited table (whitespace-aligned UCI files).
func ForEachLine(path string, fn func(row int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row++
		if err := fn(row, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
