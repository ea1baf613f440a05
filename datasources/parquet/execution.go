package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/segmentio/parquet-go"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

// RowGroupSplit is one row group of a parquet file.
type RowGroupSplit struct {
	Index    int
	FirstRow int64
	RowCount int64
}

func (s RowGroupSplit) SplitID() int {
	return s.Index
}

// FileReader reads a parquet file row group by row group.
type FileReader struct {
	Path   string
	Fields []tributary.SchemaField
}

func (r *FileReader) Splits(desired int) ([]InputSplit, error) {
	f, pf, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	splits := make([]InputSplit, pf.NumRowGroups())
	var firstRow int64
	for i := 0; i < pf.NumRowGroups(); i++ {
		rowCount := pf.RowGroup(i).NumRows()
		splits[i] = RowGroupSplit{
			Index:    i,
			FirstRow: firstRow,
			RowCount: rowCount,
		}
		firstRow += rowCount
	}
	return splits, nil
}

func (r *FileReader) Read(ctx ExecutionContext, split InputSplit, produce ProduceFn) error {
	rowGroup, ok := split.(RowGroupSplit)
	if !ok {
		return fmt.Errorf("expected parquet row group split, got %T", split)
	}

	f, pf, err := r.open()
	if err != nil {
		return err
	}
	defer f.Close()

	columnIndexes := make(map[string]int)
	for i, field := range pf.Schema().Fields() {
		columnIndexes[field.Name()] = i
	}

	pr := parquet.NewReader(pf)
	if err := pr.SeekToRow(rowGroup.FirstRow); err != nil {
		return fmt.Errorf("couldn't seek to row %d: %w", rowGroup.FirstRow, err)
	}

	var row parquet.Row
	for i := int64(0); i < rowGroup.RowCount; i++ {
		row, err = pr.ReadRow(row[:0])
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("couldn't read row: %w", err)
		}

		values := make([]tributary.Value, len(r.Fields))
		for out := range values {
			values[out] = tributary.NewNull()
		}
		for _, value := range row {
			column := int(value.Column())
			for out := range r.Fields {
				if columnIndexes[r.Fields[out].Name] == column {
					values[out] = getValue(r.Fields[out].Type, value)
					break
				}
			}
		}
		if err := produce(ProduceFromExecutionContext(ctx), NewRecord(values)); err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
	return nil
}

func (r *FileReader) open() (*os.File, *parquet.File, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("couldn't stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size(), &parquet.FileConfig{
		SkipPageIndex:    true,
		SkipBloomFilters: true,
	})
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("couldn't open parquet file: %w", err)
	}
	return f, pf, nil
}

func getValue(t tributary.Type, value parquet.Value) tributary.Value {
	if value.IsNull() {
		return tributary.NewNull()
	}
	if t.TypeID == tributary.TypeIDUnion {
		for _, alternative := range t.Union.Alternatives {
			if alternative.TypeID != tributary.TypeIDNull {
				return getValue(alternative, value)
			}
		}
		return tributary.NewNull()
	}
	switch t.TypeID {
	case tributary.TypeIDBoolean:
		return tributary.NewBoolean(value.Boolean())
	case tributary.TypeIDInt:
		return tributary.NewInt(value.Int64())
	case tributary.TypeIDFloat:
		return tributary.NewFloat(value.Double())
	case tributary.TypeIDString:
		return tributary.NewString(value.String())
	}
	return tributary.NewNull()
}
