package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

func citySchema() tributary.Schema {
	return tributary.NewSchema([]tributary.SchemaField{
		{Name: "name", Type: tributary.String},
		{Name: "population", Type: tributary.Int},
	}, -1)
}

func TestDatabase(t *testing.T) {
	db := NewDatabase()
	table := NewTable(citySchema())
	require.NoError(t, table.Insert([]tributary.Value{tributary.NewString("warsaw"), tributary.NewInt(1793579)}))
	require.NoError(t, table.Insert([]tributary.Value{tributary.NewString("berlin"), tributary.NewInt(3664088)}))
	require.NoError(t, db.AddTable("cities", table))

	t.Run("duplicate table name is rejected", func(t *testing.T) {
		require.Error(t, db.AddTable("cities", NewTable(citySchema())))
	})

	t.Run("mismatched row width is rejected", func(t *testing.T) {
		require.Error(t, table.Insert([]tributary.Value{tributary.NewString("widthless")}))
	})

	t.Run("tables are listed", func(t *testing.T) {
		tables, err := db.ListTables(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"cities"}, tables)
	})

	t.Run("scan produces a prebuilt unit preserving insertion order", func(t *testing.T) {
		impl, schema, err := db.GetTable(context.Background(), "cities")
		require.NoError(t, err)

		variant, err := impl.Scan(context.Background(), schema, nil)
		require.NoError(t, err)
		require.Equal(t, physical.ScanVariantTypeUnit, variant.VariantType)

		env, err := dataflow.NewEnvironment(4, false)
		require.NoError(t, err)
		unit, err := variant.Unit.Produce(env)
		require.NoError(t, err)
		assert.Equal(t, 1, unit.Parallelism)
		assert.Equal(t, execution.Bounded, unit.Boundedness)

		var names []string
		require.NoError(t, dataflow.Run(context.Background(), unit, func(ctx execution.ProduceContext, record execution.Record) error {
			names = append(names, record.Values[0].Str)
			return nil
		}))
		assert.Equal(t, []string{"warsaw", "berlin"}, names)
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := db.GetTable(context.Background(), "nonexistent")
		require.Error(t, err)
	})
}
