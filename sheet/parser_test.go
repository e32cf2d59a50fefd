package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cppla/excelanalytics/models"
)

func buildWorkbook(t *testing.T, cells map[string]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX_TypedCells(t *testing.T) {
	buf := buildWorkbook(t, map[string]interface{}{
		// row 1 left blank on purpose
		"A2": "Region", "B2": "Revenue", "C2": "Active", "D2": "Region",
		"A3": "EU", "B3": 12.5, "C3": true, "D3": "west",
		"A4": "US", "B4": 40, "C4": false,
		// row 5 blank
		"A6": "APAC", "E6": "stray",
	})

	columns, rows, err := Parse(buf, "sales.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Revenue", "Active", "Region_1", "__EMPTY"}, columns)
	require.Len(t, rows, 3)

	eu := rows[0]
	assert.Equal(t, models.CellString, eu["Region"].Kind())
	v, ok := eu["Revenue"].Number()
	require.True(t, ok)
	assert.Equal(t, 12.5, v)
	b, ok := eu["Active"].Bool()
	require.True(t, ok)
	assert.True(t, b)
	assert.Equal(t, "west", eu["Region_1"].Text())

	us := rows[1]
	v, ok = us["Revenue"].Number()
	require.True(t, ok)
	assert.Equal(t, 40.0, v)
	_, present := us["Region_1"]
	assert.False(t, present, "empty cells are omitted")

	assert.Equal(t, "stray", rows[2]["__EMPTY"].Text())
}

func TestParseXLSX_Empty(t *testing.T) {
	buf := buildWorkbook(t, nil)
	columns, rows, err := Parse(buf, "empty.xlsx")
	require.NoError(t, err)
	assert.Empty(t, columns)
	assert.Empty(t, rows)
}

func TestParseXLSX_Corrupt(t *testing.T) {
	_, _, err := Parse(strings.NewReader("definitely not a zip"), "bad.xlsx")
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	in := "\ufeffname,score,passed,,name\n" +
		"ann,91.5,TRUE,x,dup\n" +
		",,,,\n" +
		"bob,n/a,false,,\n"

	columns, rows, err := Parse(strings.NewReader(in), "grades.CSV")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score", "passed", "__EMPTY", "name_1"}, columns)
	require.Len(t, rows, 2)

	score, ok := rows[0]["score"].Number()
	require.True(t, ok)
	assert.Equal(t, 91.5, score)
	passed, ok := rows[0]["passed"].Bool()
	require.True(t, ok)
	assert.True(t, passed)
	assert.Equal(t, "dup", rows[0]["name_1"].Text())

	assert.Equal(t, models.CellString, rows[1]["score"].Kind())
	assert.Len(t, rows[1], 3)
}

func TestParseUnsupported(t *testing.T) {
	_, _, err := Parse(strings.NewReader("x"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("notes.txt"))
	assert.True(t, Supported("Book.XLSX"))
}

func TestHeaderNames(t *testing.T) {
	header := []models.Cell{models.StringCell("a"), models.NullCell(), models.StringCell("a"), models.StringCell("a_1"), models.NullCell()}
	assert.Equal(t, []string{"a", "__EMPTY", "a_1", "a_1_1", "__EMPTY_1"}, headerNames(header, 5))
}
