// Package sheet turns uploaded spreadsheets into typed rows keyed by header.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cppla/excelanalytics/models"
)

var (
	// ErrUnsupportedFormat is returned for file extensions the parser cannot read.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrNoSheet is returned for workbooks without any worksheet.
	ErrNoSheet = errors.New("workbook has no sheets")
)

// Extensions lists the accepted file extensions.
var Extensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm", ".csv"}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Parse reads the first sheet of r. The first non-empty row is the header; every later non-blank row
// becomes a Row keyed by header name. Empty cells are left out of the row.
func Parse(r io.Reader, filename string) ([]string, models.Rows, error) {
	var (
		grid [][]models.Cell
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		grid, err = readWorkbook(r)
	case ".csv":
		grid, err = readCSV(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, nil, err
	}
	columns, rows := tabulate(grid)
	return columns, rows, nil
}

func readWorkbook(r io.Reader) ([][]models.Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	name := sheets[0]
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	grid := make([][]models.Cell, len(raw))
	for i, row := range raw {
		cells := make([]models.Cell, len(row))
		for j, v := range row {
			if v == "" {
				cells[j] = models.NullCell()
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", ref, err)
			}
			cells[j] = typedCell(typ, v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func typedCell(typ excelize.CellType, v string) models.Cell {
	switch typ {
	case excelize.CellTypeBool:
		switch strings.ToUpper(v) {
		case "1", "TRUE":
			return models.BoolCell(true)
		case "0", "FALSE":
			return models.BoolCell(false)
		}
		return models.StringCell(v)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return models.StringCell(v)
	default:
		return numberOrString(v)
	}
}

func readCSV(r io.Reader) ([][]models.Cell, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var grid [][]models.Cell
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(grid) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		cells := make([]models.Cell, len(rec))
		for i, v := range rec {
			cells[i] = csvCell(v)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func csvCell(v string) models.Cell {
	if strings.TrimSpace(v) == "" {
		return models.NullCell()
	}
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "TRUE":
		return models.BoolCell(true)
	case "FALSE":
		return models.BoolCell(false)
	}
	return numberOrString(v)
}

func numberOrString(v string) models.Cell {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.StringCell(v)
	}
	return models.NumberCell(f)
}

func blank(row []models.Cell) bool {
	for _, c := range row {
		if c.Kind() != models.CellNull {
			return false
		}
	}
	return true
}

// tabulate picks the header row and keys the remaining rows by it.
func tabulate(grid [][]models.Cell) ([]string, models.Rows) {
	start := -1
	width := 0
	for i, row := range grid {
		if start < 0 && !blank(row) {
			start = i
		}
		if start >= 0 && len(row) > width {
			width = len(row)
		}
	}
	if start < 0 {
		return []string{}, models.Rows{}
	}

	columns := headerNames(grid[start], width)
	rows := models.Rows{}
	for _, raw := range grid[start+1:] {
		if blank(raw) {
			continue
		}
		row := make(models.Row, len(raw))
		for j, c := range raw {
			if c.Kind() == models.CellNull {
				continue
			}
			row[columns[j]] = c
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// headerNames names width columns from the header row. Blank names become __EMPTY, __EMPTY_1, ...
// and repeated names get _1, _2 suffixes.
func headerNames(header []models.Cell, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(header) {
			base = strings.TrimSpace(header[i].Text())
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		if used[name] {
			n := suffix[base]
			for {
				n++
				name = base + "_" + strconv.Itoa(n)
				if !used[name] {
					break
				}
			}
			suffix[base] = n
		}
		used[name] = true
		names[i] = name
	}
	return names
}
