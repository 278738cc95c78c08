package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Noofbiz/mldata/dataset"
)

// The "Optical Recognition of Handwritten Digits" data set ships as
// compress(1)-packed text: 21 header lines, then per sample 32 lines of 32
// binary pixels followed by one line holding the class digit. The archive
// publishes separate training and cross-validation files, so the dataset
// comes as two descriptors sharing one cache directory.

// OptDigitsRows and OptDigitsCols are the bitmap dimensions of one sample.
const (
	OptDigitsRows = 32
	OptDigitsCols = 32
)

const optDigitsHeaderLines = 21

// OptDigitsTrain returns the descriptor for the training split (1934
// samples).
func OptDigitsTrain() *dataset.Descriptor {
	return optDigits("optdigits-orig.tra.Z",
		"http://archive.ics.uci.edu/ml/machine-learning-databases/optdigits/optdigits-orig.tra.Z")
}

// OptDigitsTest returns the descriptor for the cross-validation split (946
// samples).
func OptDigitsTest() *dataset.Descriptor {
	return optDigits("optdigits-orig.cv.Z",
		"http://archive.ics.uci.edu/ml/machine-learning-databases/optdigits/optdigits-orig.cv.Z")
}

func optDigits(filename, url string) *dataset.Descriptor {
	schema := make([]dataset.Column, 0, OptDigitsRows*OptDigitsCols+1)
	for i := 0; i < OptDigitsRows*OptDigitsCols; i++ {
		schema = append(schema, dataset.Column{
			Name: fmt.Sprintf("px%04d", i),
			Kind: dataset.Numeric,
		})
	}
	schema = append(schema, dataset.Column{
		Name:   "digit",
		Kind:   dataset.Categorical,
		Levels: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
	})

	return &dataset.Descriptor{
		Name: "uci/optdigits",
		Files: []dataset.FileEntry{
			{URL: url, Filename: filename},
			{
				URL:      "http://archive.ics.uci.edu/ml/machine-learning-databases/optdigits/optdigits-orig.names",
				Filename: "optdigits-orig.names",
			},
		},
		InfoFile: "optdigits-orig.names",
		Schema:   schema,
		Target:   dataset.Target{Columns: []string{"digit"}, Task: dataset.Classification},
		Parse:    parseOptDigits,
	}
}

func parseOptDigits(paths []string, d *dataset.Descriptor) (*dataset.Table, error) {
	name := filepath.Base(paths[0])

	f, err := os.Open(paths[0])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", paths[0], err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == zMagic[0] && magic[1] == zMagic[1] {
		if r, err = newZReader(br); err != nil {
			return nil, &dataset.ParseError{File: name, Err: err}
		}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &dataset.ParseError{File: name, Err: err}
	}

	// Stream all digit characters after the header; every sample is 1024
	// pixel digits plus one class digit, so line structure beyond the
	// header does not matter.
	sampleLen := OptDigitsRows*OptDigitsCols + 1
	digits := make([]byte, 0, len(raw))
	line := 1
	for _, c := range raw {
		switch {
		case c == '\n':
			line++
		case c == ' ' || c == '\r':
			// padding
		case line <= optDigitsHeaderLines:
			// header text
		case c >= '0' && c <= '9':
			digits = append(digits, c-'0')
		default:
			return nil, &dataset.ParseError{
				File: name,
				Row:  line,
				Err:  fmt.Errorf("invalid character %q in data file", c),
			}
		}
	}
	if len(digits)%sampleLen != 0 {
		return nil, &dataset.ParseError{
			File: name,
			Err:  fmt.Errorf("truncated data: %d digits is not a multiple of %d", len(digits), sampleLen),
		}
	}

	digitStrings := [10]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	b := dataset.NewTableBuilder(d)
	record := make([]string, sampleLen)
	for i := 0; i < len(digits)/sampleLen; i++ {
		sample := digits[i*sampleLen : (i+1)*sampleLen]
		for j, v := range sample {
			record[j] = digitStrings[v]
		}
		if err := b.AppendRow(name, i+1, record); err != nil {
			return nil, err
		}
	}
	return b.Table(), nil
}
