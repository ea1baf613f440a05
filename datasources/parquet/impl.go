package parquet

import (
	"context"
	"fmt"
	"os"

	"github.com/segmentio/parquet-go"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

func Creator(name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size(), &parquet.FileConfig{
		SkipPageIndex:    true,
		SkipBloomFilters: true,
	})
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't open parquet file: %w", err)
	}

	schemaFields := pf.Schema().Fields()
	outSchemaFields := make([]tributary.SchemaField, 0, len(schemaFields))
	for _, field := range schemaFields {
		// Only flat leaf columns are supported for now.
		if !field.Leaf() {
			continue
		}
		t, ok := getFieldType(field)
		if !ok {
			continue
		}
		outSchemaFields = append(outSchemaFields, tributary.SchemaField{
			Name: field.Name(),
			Type: t,
		})
	}

	return &impl{path: name}, tributary.NewSchema(outSchemaFields, -1), nil
}

func getFieldType(node parquet.Node) (tributary.Type, bool) {
	if node.Type().String() == "NULL" {
		return tributary.Type{}, false
	}
	var outType tributary.Type
	switch node.Type().Kind() {
	case parquet.Boolean:
		outType = tributary.Boolean
	case parquet.Int32, parquet.Int64:
		outType = tributary.Int
	case parquet.Float, parquet.Double:
		outType = tributary.Float
	case parquet.ByteArray, parquet.FixedLenByteArray, parquet.Int96:
		outType = tributary.String
	default:
		return tributary.Type{}, false
	}
	if node.Optional() {
		outType = tributary.TypeSum(outType, tributary.Null)
	}
	return outType, true
}

type impl struct {
	path string
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeInputReader,
		InputReader: &physical.InputReaderScan{
			Reader: &FileReader{
				Path:   i.path,
				Fields: schema.Fields,
			},
		},
	}, nil
}
