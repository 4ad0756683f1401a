package report

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// Schema-level metadata keys used in Arrow report files.
const (
	arrowMetaReportID = "report_id"
	arrowMetaLabel    = "label"
)

// writeArrow writes the table as an Arrow IPC file with one float64 column
// per data set. Data set labels travel as field metadata, the report id as
// schema metadata.
func writeArrow(t *Table, path string) error {
	fields := make([]arrow.Field, len(t.DataSetIDs))
	for i, id := range t.DataSetIDs {
		fields[i] = arrow.Field{
			Name:     id,
			Type:     arrow.PrimitiveTypes.Float64,
			Metadata: arrow.NewMetadata([]string{arrowMetaLabel}, []string{t.Labels[i]}),
		}
	}
	meta := arrow.NewMetadata([]string{arrowMetaReportID}, []string{t.ID})
	schema := arrow.NewSchema(fields, &meta)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	for i, series := range t.Values {
		builder.Field(i).(*array.Float64Builder).AppendValues(series, nil)
	}
	rec := builder.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema))
	if err != nil {
		f.Close()
		return err
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readArrow reads a table written by writeArrow.
func readArrow(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer r.Close()

	if r.NumRecords() == 0 {
		return nil, fmt.Errorf("read %s: no records", path)
	}
	rec, err := r.Record(0)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	schema := r.Schema()
	t := &Table{}
	if idx := schema.Metadata().FindKey(arrowMetaReportID); idx >= 0 {
		t.ID = schema.Metadata().Values()[idx]
	}

	for i, field := range schema.Fields() {
		col, ok := rec.Column(i).(*array.Float64)
		if !ok {
			return nil, fmt.Errorf("read %s: column %s is not float64", path, field.Name)
		}
		label := field.Name
		if idx := field.Metadata.FindKey(arrowMetaLabel); idx >= 0 {
			label = field.Metadata.Values()[idx]
		}
		t.DataSetIDs = append(t.DataSetIDs, field.Name)
		t.Labels = append(t.Labels, label)
		t.Values = append(t.Values, append([]float64(nil), col.Float64Values()...))
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
