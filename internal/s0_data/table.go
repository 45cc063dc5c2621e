package s0_data

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn is returned when a required column is absent from the header
var ErrMissingColumn = errors.New("missing required column")

var utf8BOM = []byte("\ufeff")

// Table is the raw customer-order table as read from disk
// 값은 모두 문자열 그대로 보관, 타입 변환은 Prepare에서만
type Table struct {
	df dataframe.DataFrame

	// 컬럼별 셀 값, 결측(NA/NaN)은 빈 문자열
	columns map[string][]string
}

// NewTable wraps a string-typed dataframe
func NewTable(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	columns := make(map[string][]string, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		values := s.Records()
		for i, nan := range s.IsNaN() {
			if nan {
				values[i] = ""
			}
		}
		columns[name] = values
	}
	return &Table{df: df, columns: columns}, nil
}

// ReadTable loads a delimited file fully into memory
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// ParseTable reads a CSV stream whose first record is the header.
// Type detection is off: every column is loaded as a string series.
func ParseTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	return NewTable(df)
}

// Frame returns the underlying dataframe
func (t *Table) Frame() dataframe.DataFrame {
	return t.df
}

// Header returns the column names in file order
func (t *Table) Header() []string {
	return t.df.Names()
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return t.df.Nrow()
}

// ColumnIndex returns the position of a column or ErrMissingColumn
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, n := range t.df.Names() {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// Column returns the cell values of one column, nulls as ""
func (t *Table) Column(name string) ([]string, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return values, nil
}

// Require checks that every named column is present
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if _, err := t.ColumnIndex(name); err != nil {
			return err
		}
	}
	return nil
}
