package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// parseCell converts a numeric cell to a float, mapping blank or unparsable
// cells to the missing sentinel. Field exports routinely contain "", "N/A",
// or stray whitespace where the instrument had no reading.
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ReadSurveyCSV parses a header-bearing survey CSV into a Table, resolving
// column roles from the header row. Short rows are tolerated; cells beyond a
// row's length read as missing.
func ReadSurveyCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading survey CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("survey CSV: %w", ErrEmptyTable)
	}

	cm, err := ResolveColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("survey CSV header: %w", err)
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	commentIdx, hasComment := cm[RoleComment]

	table := &Table{Points: make([]Point, 0, len(records)-1)}
	for i, row := range records[1:] {
		p := Point{
			Index:          i,
			SensorDistance: parseCell(cell(row, cm[RoleSensorDistance])),
			Latitude:       parseCell(cell(row, cm[RoleLatitude])),
			Longitude:      parseCell(cell(row, cm[RoleLongitude])),
			OnVoltage:      parseCell(cell(row, cm[RoleOnVoltage])),
			OffVoltage:     parseCell(cell(row, cm[RoleOffVoltage])),
			Station:        math.NaN(),
			Offset:         math.NaN(),
		}
		if hasComment {
			p.Comment = strings.TrimSpace(cell(row, commentIdx))
		}
		table.Points = append(table.Points, p)
	}
	if len(table.Points) == 0 {
		return nil, fmt.Errorf("survey CSV: %w", ErrEmptyTable)
	}
	return table, nil
}

// ReadAuxCSV parses an auxiliary annotation CSV into its raw form. Column
// roles are deliberately not resolved here: an unidentifiable auxiliary table
// is a degraded condition handled by the merge stage, not a read error.
func ReadAuxCSV(r io.Reader) (*AuxTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading auxiliary CSV: %w", err)
	}
	if len(records) == 0 {
		return &AuxTable{}, nil
	}
	return &AuxTable{Headers: records[0], Rows: records[1:]}, nil
}
