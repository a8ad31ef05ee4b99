package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cathodic/cipsline/survey"
)

// WriteCSV writes the processed table in the output contract's column order:
// Station, Latitude, Longitude, On_mV, Off_mV, Offset (only when geospatial
// alignment ran), Comment. Missing values are written as empty cells.
func WriteCSV(w io.Writer, res *survey.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"Station", "Latitude", "Longitude", "On_mV", "Off_mV"}
	if res.HasOffsets {
		header = append(header, "Offset")
	}
	header = append(header, "Comment")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing output header: %w", err)
	}

	for i := range res.Points {
		p := &res.Points[i]
		row := []string{
			formatCell(p.Station, 3),
			formatCell(p.Latitude, 8),
			formatCell(p.Longitude, 8),
			formatCell(p.OnVoltage, 2),
			formatCell(p.OffVoltage, 2),
		}
		if res.HasOffsets {
			row = append(row, formatCell(p.Offset, 2))
		}
		row = append(row, p.Comment)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing output row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders a numeric cell with fixed precision, or empty when the
// value is missing.
func formatCell(v float64, prec int) string {
	if survey.IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// WriteRunLog writes the run log, one formatted entry per line.
func WriteRunLog(w io.Writer, log *survey.RunLog) error {
	for _, msg := range log.Messages() {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}
