// Package dataset loads numeric sample sets from CSV files.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrRaggedRow is returned when a row has a different number of values
	// than the first row.
	ErrRaggedRow = errors.New("dataset: ragged row")

	// ErrInvalidColumn is returned when a selected column does not exist.
	ErrInvalidColumn = errors.New("dataset: invalid column")
)

// Options controls how rows are read.
type Options struct {
	// SkipHeader drops the first record.
	SkipHeader bool

	// Columns selects which fields form a sample, in order. nil uses every
	// field.
	Columns []int

	// Comma is the field delimiter. 0 means ','.
	Comma rune
}

// Load reads the CSV file at path.
func Load(path string, opts Options) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := Read(bufio.NewReader(f), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// Read parses CSV records from r into samples. Blank lines are skipped by
// the CSV reader; every remaining field must parse as a float.
func Read(r io.Reader, opts Options) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	var (
		samples [][]float64
		dims    = -1
		line    = 0
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line++

		if line == 1 && opts.SkipHeader {
			continue
		}

		sample, err := parseRecord(record, opts.Columns)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}

		if dims < 0 {
			dims = len(sample)
		} else if len(sample) != dims {
			return nil, fmt.Errorf("record %d has %d values, expected %d: %w", line, len(sample), dims, ErrRaggedRow)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func parseRecord(record []string, columns []int) ([]float64, error) {
	if columns == nil {
		sample := make([]float64, len(record))
		for j, field := range record {
			v, err := parseField(field)
			if err != nil {
				return nil, err
			}
			sample[j] = v
		}
		return sample, nil
	}

	sample := make([]float64, len(columns))
	for j, c := range columns {
		if c < 0 || c >= len(record) {
			return nil, fmt.Errorf("column %d of %d: %w", c, len(record), ErrInvalidColumn)
		}
		v, err := parseField(record[c])
		if err != nil {
			return nil, err
		}
		sample[j] = v
	}
	return sample, nil
}

func parseField(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", field, err)
	}
	return v, nil
}

// ParseColumns parses a comma-separated column list such as "0,2,3".
// An empty string selects every column.
func ParseColumns(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	cols := make([]int, len(parts))
	for i, p := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || c < 0 {
			return nil, fmt.Errorf("column %q: %w", p, ErrInvalidColumn)
		}
		cols[i] = c
	}
	return cols, nil
}
