package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type DatasourceExecuting struct {
	Path   string
	Fields []tributary.SchemaField
}

func (d *DatasourceExecuting) Run(ctx ExecutionContext, produce ProduceFn) error {
	f, err := os.Open(d.Path)
	if err != nil {
		return fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	decoder := csv.NewReader(f)
	decoder.ReuseRecord = true
	if _, err := decoder.Read(); err != nil {
		return fmt.Errorf("couldn't decode csv header row: %w", err)
	}

	for {
		row, err := decoder.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("couldn't decode csv row: %w", err)
		}

		values := make([]tributary.Value, len(d.Fields))
		for i := range d.Fields {
			if i >= len(row) {
				values[i] = tributary.NewNull()
				continue
			}
			values[i] = parseCell(d.Fields[i].Type, row[i])
		}
		if err := produce(ProduceFromExecutionContext(ctx), NewRecord(values)); err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
	return nil
}

func parseCell(t tributary.Type, str string) tributary.Value {
	switch t.TypeID {
	case tributary.TypeIDInt:
		if v, err := strconv.ParseInt(str, 10, 64); err == nil {
			return tributary.NewInt(v)
		}
	case tributary.TypeIDFloat:
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return tributary.NewFloat(v)
		}
	case tributary.TypeIDBoolean:
		if v, err := strconv.ParseBool(str); err == nil {
			return tributary.NewBoolean(v)
		}
	case tributary.TypeIDTime:
		if v, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return tributary.NewTime(v)
		}
	case tributary.TypeIDString:
		return tributary.NewString(str)
	case tributary.TypeIDUnion:
		for _, alternative := range t.Union.Alternatives {
			out := parseCell(alternative, str)
			if out.Type.TypeID != tributary.TypeIDNull {
				return out
			}
		}
	}
	if str == "" {
		return tributary.NewNull()
	}
	return tributary.NewString(str)
}
