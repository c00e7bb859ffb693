package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Ledger is the append-only record of every stage attempt of one run, in
// the order events were generated (unit-major, stage-minor, attempt-minor).
type Ledger []ProductionEvent

// timeLayout is the timestamp format used in ledger CSV files.
const timeLayout = "2006-01-02 15:04:05"

// Full and compact CSV headers. The compact projection carries only the
// columns the comparison views need; both come from the same event schema.
var (
	fullHeader    = []string{"unit_id", "stage", "station_id", "start_time", "end_time", "duration_hours", "qc_passed"}
	compactHeader = []string{"unit_id", "stage", "start_time", "end_time"}
)

// WriteCSV writes the ledger. With compact=true only the four core columns
// are projected; otherwise the full event schema is written.
func (l Ledger) WriteCSV(w io.Writer, compact bool) error {
	cw := csv.NewWriter(w)

	header := fullHeader
	if compact {
		header = compactHeader
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}

	for _, ev := range l {
		var row []string
		if compact {
			row = []string{
				ev.UnitID,
				ev.Stage,
				ev.StartTime.Format(timeLayout),
				ev.EndTime.Format(timeLayout),
			}
		} else {
			row = []string{
				ev.UnitID,
				ev.Stage,
				ev.StationID,
				ev.StartTime.Format(timeLayout),
				ev.EndTime.Format(timeLayout),
				strconv.FormatFloat(ev.DurationHours, 'f', 2, 64),
				strconv.FormatBool(ev.QCPassed),
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the ledger to a file, creating or truncating it.
func (l Ledger) SaveCSV(path string, compact bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()
	return l.WriteCSV(f, compact)
}

// ReadLedgerCSV loads a ledger written by WriteCSV, in either projection.
// Columns are matched by header name, so extra or reordered columns are
// tolerated; missing optional columns come back zero-valued.
func ReadLedgerCSV(r io.Reader) (Ledger, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range compactHeader {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("ledger is missing required column %q", required)
		}
	}

	var ledger Ledger
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row %d: %w", row, err)
		}

		start, err := time.Parse(timeLayout, record[col["start_time"]])
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: invalid start_time: %w", row, err)
		}
		end, err := time.Parse(timeLayout, record[col["end_time"]])
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: invalid end_time: %w", row, err)
		}

		ev := ProductionEvent{
			UnitID:    record[col["unit_id"]],
			Stage:     record[col["stage"]],
			StartTime: start,
			EndTime:   end,
		}
		if i, ok := col["station_id"]; ok {
			ev.StationID = record[i]
		}
		if i, ok := col["duration_hours"]; ok {
			ev.DurationHours, err = strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("ledger row %d: invalid duration_hours: %w", row, err)
			}
		}
		if i, ok := col["qc_passed"]; ok {
			ev.QCPassed, err = strconv.ParseBool(record[i])
			if err != nil {
				return nil, fmt.Errorf("ledger row %d: invalid qc_passed: %w", row, err)
			}
		}

		ledger = append(ledger, ev)
	}

	return ledger, nil
}

// LoadLedgerCSV reads a ledger file. A missing file is reported as an
// error; callers treat it as a zero baseline rather than a fault.
func LoadLedgerCSV(path string) (Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	ledger, err := ReadLedgerCSV(f)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Loaded %d ledger events from %s", len(ledger), path)
	return ledger, nil
}
