package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/excelanalytics/models"
)

func TestBuildSeries(t *testing.T) {
	columns := []string{"month", "note", "sales"}
	rows := models.Rows{
		{"month": models.StringCell("Jan"), "note": models.StringCell("x"), "sales": models.NumberCell(10)},
		{"month": models.StringCell("Feb"), "sales": models.StringCell("n/a")},
		{"month": models.NumberCell(3), "sales": models.NumberCell(7.5)},
	}

	s, err := BuildSeries(columns, rows, "", "")
	require.NoError(t, err)
	assert.Equal(t, "month", s.XAxis)
	assert.Equal(t, "sales", s.YAxis)
	assert.Equal(t, []string{"Jan", "3"}, s.Labels)
	assert.Equal(t, []float64{10, 7.5}, s.Values)

	_, err = BuildSeries(columns, rows, "month", "missing")
	assert.Error(t, err)

	_, err = BuildSeries([]string{"a"}, models.Rows{{"a": models.StringCell("x")}}, "", "")
	assert.ErrorIs(t, err, ErrNoNumericColumn)

	_, err = BuildSeries(nil, nil, "", "")
	assert.Error(t, err)
}
