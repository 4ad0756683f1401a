// Package report assembles simulation results into tabular reports and
// writes them out. Two formats are supported: CSV for portability and
// Arrow IPC files for structured numeric consumers. Individual report
// files can additionally be bundled into a single zip.
package report

import (
	"fmt"
	"sort"
	"strings"
)

// Format is a report file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatArrow Format = "arrow"
)

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatArrow:
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("unknown report format %q (must be csv or arrow)", s)
	}
}

// ParseFormats parses a comma separated format list, dropping duplicates
// while keeping order.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no report formats given")
	}
	return out, nil
}

// Table is one assembled report: a labeled float64 series per data set.
// Rows follow the order of the report's data sets in the SED-ML document.
type Table struct {
	// ID is the report id from the SED-ML document.
	ID string

	// DataSetIDs and Labels are parallel to Values.
	DataSetIDs []string
	Labels     []string

	// Values holds one series per data set; all series have equal length.
	Values [][]float64
}

// Validate checks the table's shape.
func (t *Table) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("report table has no id")
	}
	if len(t.DataSetIDs) != len(t.Labels) || len(t.DataSetIDs) != len(t.Values) {
		return fmt.Errorf("report %s: %d ids, %d labels, %d series", t.ID, len(t.DataSetIDs), len(t.Labels), len(t.Values))
	}
	if len(t.Values) == 0 {
		return fmt.Errorf("report %s has no data sets", t.ID)
	}
	n := len(t.Values[0])
	for i, series := range t.Values {
		if len(series) != n {
			return fmt.Errorf("report %s: series %s has %d points, expected %d", t.ID, t.DataSetIDs[i], len(series), n)
		}
	}
	return nil
}

// Series returns the values for the given data set id.
func (t *Table) Series(dataSetID string) ([]float64, bool) {
	for i, id := range t.DataSetIDs {
		if id == dataSetID {
			return t.Values[i], true
		}
	}
	return nil, false
}

// SortedDataSetIDs returns the data set ids in sorted order. Convenience
// for tests and summaries; the table itself keeps document order.
func (t *Table) SortedDataSetIDs() []string {
	ids := append([]string(nil), t.DataSetIDs...)
	sort.Strings(ids)
	return ids
}
