// Package arff reads the Attribute-Relation File Format used by the Weka
// toolkit and the OpenML archive. It covers the dense subset those archives
// serve: numeric, string and nominal attributes. Sparse data sections and
// date attributes are not supported.
package arff

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Type classifies an ARFF attribute.
type Type int

const (
	Numeric Type = iota
	Nominal
	String
)

// Attribute is one @attribute declaration.
type Attribute struct {
	Name   string
	Type   Type
	Levels []string // Nominal only, in declared order
}

// Relation is the parsed header of an ARFF document.
type Relation struct {
	Name       string
	Attributes []Attribute
}

// Parse reads an ARFF document, returning its header and the raw data
// records in source order. Records are returned as unquoted string fields;
// coercion against a schema is the caller's concern.
func Parse(r io.Reader) (*Relation, [][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	rel := &Relation{}
	var rows [][]string
	inData := false
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}

		if inData {
			if strings.HasPrefix(text, "{") {
				return nil, nil, fmt.Errorf("line %d: sparse ARFF data is not supported", line)
			}
			fields := splitRecord(text)
			if len(fields) != len(rel.Attributes) {
				return nil, nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(rel.Attributes), len(fields))
			}
			rows = append(rows, fields)
			continue
		}

		keyword, rest := splitKeyword(text)
		switch strings.ToLower(keyword) {
		case "@relation":
			rel.Name = unquote(rest)
		case "@attribute":
			attr, err := parseAttribute(rest)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			rel.Attributes = append(rel.Attributes, attr)
		case "@data":
			if len(rel.Attributes) == 0 {
				return nil, nil, fmt.Errorf("line %d: @data before any @attribute", line)
			}
			inData = true
		default:
			return nil, nil, fmt.Errorf("line %d: unexpected %q in header", line, keyword)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if !inData {
		return nil, nil, fmt.Errorf("missing @data section")
	}
	return rel, rows, nil
}

// splitKeyword separates the leading @keyword from the rest of the line.
func splitKeyword(line string) (keyword, rest string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

func parseAttribute(spec string) (Attribute, error) {
	name, rest := splitName(spec)
	if name == "" || rest == "" {
		return Attribute{}, fmt.Errorf("malformed @attribute %q", spec)
	}

	if strings.HasPrefix(rest, "{") {
		if !strings.HasSuffix(rest, "}") {
			return Attribute{}, fmt.Errorf("unterminated nominal specification for %q", name)
		}
		var levels []string
		for _, l := range strings.Split(rest[1:len(rest)-1], ",") {
			levels = append(levels, unquote(strings.TrimSpace(l)))
		}
		return Attribute{Name: name, Type: Nominal, Levels: levels}, nil
	}

	switch strings.ToLower(rest) {
	case "numeric", "real", "integer":
		return Attribute{Name: name, Type: Numeric}, nil
	case "string":
		return Attribute{Name: name, Type: String}, nil
	}
	return Attribute{}, fmt.Errorf("unsupported attribute type %q for %q", rest, name)
}

// splitName extracts the (possibly quoted) attribute name and the remaining
// type specification.
func splitName(spec string) (name, rest string) {
	spec = strings.TrimSpace(spec)
	if len(spec) > 0 && (spec[0] == '\'' || spec[0] == '"') {
		quote := spec[0]
		if end := strings.IndexByte(spec[1:], quote); end >= 0 {
			return spec[1 : end+1], strings.TrimSpace(spec[end+2:])
		}
		return "", ""
	}
	if i := strings.IndexAny(spec, " \t"); i >= 0 {
		return spec[:i], strings.TrimSpace(spec[i+1:])
	}
	return spec, ""
}

// splitRecord splits a dense data row on commas, honoring single and double
// quotes.
func splitRecord(line string) []string {
	var fields []string
	var cur strings.Builder
	var quote byte

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
