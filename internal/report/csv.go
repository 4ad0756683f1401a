package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// writeCSV writes the table with one row per data set: id, label, then the
// series values. No header row; row order is document order.
func writeCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	for i, id := range t.DataSetIDs {
		row := make([]string, 0, len(t.Values[i])+2)
		row = append(row, id, t.Labels[i])
		for _, v := range t.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readCSV reads a table written by writeCSV. The report id is taken from
// the caller since the file does not carry it.
func readCSV(id, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t := &Table{ID: id}
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("read %s: row with %d fields", path, len(row))
		}
		t.DataSetIDs = append(t.DataSetIDs, row[0])
		t.Labels = append(t.Labels, row[1])
		series := make([]float64, len(row)-2)
		for i, s := range row[2:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			series[i] = v
		}
		t.Values = append(t.Values, series)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
