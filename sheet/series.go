package sheet

import (
	"errors"
	"fmt"

	"github.com/cppla/excelanalytics/models"
)

// ErrNoNumericColumn is returned when no column can serve as the value axis.
var ErrNoNumericColumn = errors.New("no numeric column to plot")

// Series is the label/value pair list a chart is drawn from.
type Series struct {
	XAxis  string    `json:"x_axis"`
	YAxis  string    `json:"y_axis"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BuildSeries extracts labels from column x and values from column y. An empty x defaults to the first
// column, an empty y to the first other column holding a number. Rows whose y cell is not numeric are skipped.
func BuildSeries(columns []string, rows models.Rows, x, y string) (*Series, error) {
	if len(columns) == 0 {
		return nil, errors.New("upload has no columns")
	}
	if x == "" {
		x = columns[0]
	}
	if !contains(columns, x) {
		return nil, fmt.Errorf("unknown column %q", x)
	}
	if y == "" {
		y = firstNumericColumn(columns, rows, x)
		if y == "" {
			return nil, ErrNoNumericColumn
		}
	}
	if !contains(columns, y) {
		return nil, fmt.Errorf("unknown column %q", y)
	}

	s := &Series{XAxis: x, YAxis: y, Labels: []string{}, Values: []float64{}}
	for _, row := range rows {
		v, ok := row[y].Number()
		if !ok {
			continue
		}
		s.Labels = append(s.Labels, row[x].Text())
		s.Values = append(s.Values, v)
	}
	return s, nil
}

func firstNumericColumn(columns []string, rows models.Rows, skip string) string {
	for _, col := range columns {
		if col == skip {
			continue
		}
		for _, row := range rows {
			if _, ok := row[col].Number(); ok {
				return col
			}
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
