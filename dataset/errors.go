package dataset

import (
	"errors"
	"fmt"
)

// ErrNotCached is returned when downloads are disabled and a required file is
// not present in the cache. Wrap checks should use errors.Is.
var ErrNotCached = errors.New("file not cached and downloads are disabled")

// ConfigError reports an invalid descriptor or loader configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// FetchError reports a failed network transfer. Status is the HTTP status
// code of the response, or 0 when the transfer itself failed before a
// response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IntegrityError reports a checksum mismatch between a file's content and
// the checksum declared by its descriptor entry.
type IntegrityError struct {
	Filename string
	Want     string
	Got      string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: want sha256 %s, got %s", e.Filename, e.Want, e.Got)
}

// ParseError reports malformed dataset content. Row is the 1-based data row
// within File; Column is the schema column name, or empty when the whole row
// is malformed.
type ParseError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse %s: row %d, column %q: %v", e.File, e.Row, e.Column, e.Err)
	}
	if e.Row > 0 {
		return fmt.Sprintf("parse %s: row %d: %v", e.File, e.Row, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IndexError reports an out-of-range sample access.
type IndexError struct {
	Index int
	N     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("sample index %d out of range [0, %d)", e.Index, e.N)
}
