package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// DocumentShape is the top-level JSON kind of a Document.
type DocumentShape int

const (
	ShapeInvalid DocumentShape = iota
	ShapeNull
	ShapeScalar
	ShapeArray
	ShapeObject
)

// Document is an opaque, semi-structured JSON value (chart data). It is stored verbatim and only
// validated at the API boundary via Shape.
type Document []byte

// Shape classifies the document without decoding it.
func (d Document) Shape() DocumentShape {
	trimmed := bytes.TrimSpace(d)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return ShapeInvalid
	}
	switch trimmed[0] {
	case '[':
		return ShapeArray
	case '{':
		return ShapeObject
	case 'n':
		return ShapeNull
	default:
		return ShapeScalar
	}
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(b []byte) error {
	if d == nil {
		return errors.New("models.Document: UnmarshalJSON on nil pointer")
	}
	*d = append((*d)[0:0], b...)
	return nil
}

// Value implements driver.Valuer.
func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[0:0], v...)
	case string:
		*d = Document(v)
	default:
		return fmt.Errorf("models.Document: cannot scan %T", src)
	}
	return nil
}

// GormDataType tells gorm which column type to migrate to.
func (Document) GormDataType() string { return "json" }

// StringList is an ordered list of strings persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

// GormDataType tells gorm which column type to migrate to.
func (StringList) GormDataType() string { return "json" }

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
