package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

func Creator(name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	decoder := csv.NewReader(f)
	decoder.ReuseRecord = true
	row, err := decoder.Read()
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't decode csv header row: %w", err)
	}
	fieldNames := make([]string, len(row))
	copy(fieldNames, row)

	fields := make([]tributary.Type, len(fieldNames))
	filled := make([]bool, len(fieldNames))
	for i := 0; i < 10; i++ {
		row, err = decoder.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, tributary.Schema{}, fmt.Errorf("couldn't decode csv row: %w", err)
		}

		for col := range row {
			t := inferCellType(row[col])
			if !filled[col] {
				fields[col] = t
				filled[col] = true
			} else {
				fields[col] = tributary.TypeSum(fields[col], t)
			}
		}
	}

	schemaFields := make([]tributary.SchemaField, len(fieldNames))
	for i := range fieldNames {
		t := fields[i]
		if !filled[i] {
			t = tributary.String
		}
		schemaFields[i] = tributary.SchemaField{
			Name: fieldNames[i],
			Type: t,
		}
	}

	return &impl{path: name}, tributary.NewSchema(schemaFields, -1), nil
}

func inferCellType(str string) tributary.Type {
	if _, err := strconv.ParseInt(str, 10, 64); err == nil {
		return tributary.Int
	}
	if _, err := strconv.ParseFloat(str, 64); err == nil {
		return tributary.Float
	}
	if _, err := strconv.ParseBool(str); err == nil {
		return tributary.Boolean
	}
	if _, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return tributary.Time
	}
	return tributary.String
}

type impl struct {
	path string
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeFunctionReader,
		FunctionReader: &physical.FunctionReaderScan{
			Function: &DatasourceExecuting{
				Path:   i.path,
				Fields: schema.Fields,
			},
			Parallel: false,
			Bounded:  true,
		},
	}, nil
}
