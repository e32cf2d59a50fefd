package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CellKind is the tag of a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellNull:
		return "null"
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Cell is one spreadsheet value: null, string, number or bool.
type Cell struct {
	kind CellKind
	str  string
	num  float64
	b    bool
}

func NullCell() Cell           { return Cell{kind: CellNull} }
func StringCell(s string) Cell { return Cell{kind: CellString, str: s} }
func BoolCell(b bool) Cell     { return Cell{kind: CellBool, b: b} }

// NumberCell returns a number cell. NaN and infinities are not representable in JSON and are kept as text.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return StringCell(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Cell{kind: CellNumber, num: f}
}

func (c Cell) Kind() CellKind { return c.kind }

// Number returns the numeric value and whether the cell holds one.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == CellNumber
}

// Bool returns the boolean value and whether the cell holds one.
func (c Cell) Bool() (bool, bool) {
	return c.b, c.kind == CellBool
}

// Text renders the cell for labels.
func (c Cell) Text() string {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		return json.Marshal(c.num)
	case CellBool:
		return json.Marshal(c.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Objects and arrays are rejected.
func (c *Cell) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case nil:
		*c = NullCell()
	case string:
		*c = StringCell(v)
	case bool:
		*c = BoolCell(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("invalid number cell %q: %w", v, err)
		}
		*c = NumberCell(f)
	default:
		return fmt.Errorf("unsupported cell value %s", bytes.TrimSpace(b))
	}
	return nil
}

// Row maps column headers to cell values.
type Row map[string]Cell

// Rows are the parsed data rows of a sheet, persisted as a JSON column.
type Rows []Row

// Value implements driver.Valuer.
func (r Rows) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Row(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *Rows) Scan(src any) error {
	return scanJSON(src, r)
}

// GormDataType tells gorm which column type to migrate to.
func (Rows) GormDataType() string { return "json" }
