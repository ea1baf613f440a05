package json

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCreator(t *testing.T) {
	t.Run("schema is inferred from the records", func(t *testing.T) {
		path := writeTempFile(t, `{"name": "warsaw", "population": 1793579}
{"name": "berlin", "population": 3664088}
`)

		_, schema, err := NewCreator(false)(path)
		require.NoError(t, err)

		names := make([]string, len(schema.Fields))
		for i := range schema.Fields {
			names[i] = schema.Fields[i].Name
		}
		sort.Strings(names)
		assert.Equal(t, []string{"name", "population"}, names)
		assert.Equal(t, tributary.String, schema.Fields[schema.FieldIndex("name")].Type)
		assert.Equal(t, tributary.Float, schema.Fields[schema.FieldIndex("population")].Type)
	})

	t.Run("explicit nulls widen to a nullable type", func(t *testing.T) {
		path := writeTempFile(t, `{"name": "warsaw", "population": 1793579}
{"name": "berlin", "population": null}
`)

		_, schema, err := NewCreator(false)(path)
		require.NoError(t, err)
		population := schema.Fields[schema.FieldIndex("population")].Type
		assert.Equal(t, tributary.TypeIDUnion, population.TypeID)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, _, err := NewCreator(false)("/nonexistent/data.json")
		require.Error(t, err)
	})
}

func TestScanAndRead(t *testing.T) {
	path := writeTempFile(t, `{"name": "warsaw", "population": 1793579}
{"name": "berlin", "population": 3664088}
{"name": "paris", "population": 2165423}
`)

	impl, schema, err := NewCreator(false)(path)
	require.NoError(t, err)

	variant, err := impl.Scan(context.Background(), schema, nil)
	require.NoError(t, err)
	require.Equal(t, physical.ScanVariantTypeFunctionReader, variant.VariantType)
	assert.False(t, variant.FunctionReader.Parallel)
	assert.True(t, variant.FunctionReader.Bounded)

	var records []execution.Record
	err = variant.FunctionReader.Function.Run(
		execution.ExecutionContext{Context: context.Background(), Instance: 0, Instances: 1},
		func(ctx execution.ProduceContext, record execution.Record) error {
			records = append(records, record)
			return nil
		},
	)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "warsaw", records[0].Values[schema.FieldIndex("name")].Str)
	assert.Equal(t, float64(3664088), records[1].Values[schema.FieldIndex("population")].Float)
}

func TestScanTailingIsUnbounded(t *testing.T) {
	path := writeTempFile(t, `{"name": "warsaw"}
`)

	impl, schema, err := NewCreator(true)(path)
	require.NoError(t, err)

	variant, err := impl.Scan(context.Background(), schema, nil)
	require.NoError(t, err)
	require.Equal(t, physical.ScanVariantTypeFunctionReader, variant.VariantType)
	assert.False(t, variant.FunctionReader.Bounded)
}
