// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package queries

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Cell is a single result value: either text or a number.
type Cell struct {
	text    string
	num     float64
	numeric bool
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{num: f, numeric: true} }

// IsNumber reports whether the cell holds a number.
func (c Cell) IsNumber() bool { return c.numeric }

// Float returns the numeric value, 0 for text cells.
func (c Cell) Float() float64 { return c.num }

// String renders the cell for display.
func (c Cell) String() string {
	if c.numeric {
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	}
	return c.text
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return json.Marshal(c.num)
	}
	return json.Marshal(c.text)
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cell must be a string or number: %w", err)
	}
	*c = Text(s)
	return nil
}

// Result is a tabular query result. Every row has one cell per column.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Row builds a result row from strings and numbers.
func Row(values ...any) []Cell {
	row := make([]Cell, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			row = append(row, Text(x))
		case int:
			row = append(row, Number(float64(x)))
		case float64:
			row = append(row, Number(x))
		default:
			row = append(row, Text(fmt.Sprint(x)))
		}
	}
	return row
}

// Validate checks that every row matches the column count.
func (r *Result) Validate() error {
	if len(r.Columns) == 0 {
		return fmt.Errorf("result has no columns")
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(r.Columns))
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		Columns: append([]string(nil), r.Columns...),
		Rows:    make([][]Cell, len(r.Rows)),
	}
	for i, row := range r.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// Strings renders every row as display strings.
func (r *Result) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}
