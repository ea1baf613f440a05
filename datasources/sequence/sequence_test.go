package sequence

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/physical"
)

func TestDatabase(t *testing.T) {
	db, err := Creator(context.Background(), &Config{})
	require.NoError(t, err)

	t.Run("table name must be a length", func(t *testing.T) {
		_, _, err := db.GetTable(context.Background(), "abc")
		require.Error(t, err)

		_, _, err = db.GetTable(context.Background(), "-5")
		require.Error(t, err)
	})

	t.Run("scan produces a generator and collector subgraph", func(t *testing.T) {
		impl, schema, err := db.GetTable(context.Background(), "100")
		require.NoError(t, err)

		variant, err := impl.Scan(context.Background(), schema, nil)
		require.NoError(t, err)
		require.Equal(t, physical.ScanVariantTypeSubgraph, variant.VariantType)

		env, err := dataflow.NewEnvironment(4, false)
		require.NoError(t, err)
		subgraph, err := variant.Subgraph.Produce(env)
		require.NoError(t, err)

		units := subgraph.Terminal.Units()
		require.Len(t, units, 2)
		assert.Equal(t, 4, units[0].Parallelism)
		assert.Equal(t, 1, units[1].Parallelism)
		assert.Equal(t, execution.Bounded, subgraph.Terminal.Boundedness)

		var got []int64
		require.NoError(t, dataflow.Run(context.Background(), subgraph.Terminal, func(ctx execution.ProduceContext, record execution.Record) error {
			got = append(got, record.Values[0].Int)
			return nil
		}))
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Len(t, got, 100)
		for i := int64(0); i < 100; i++ {
			assert.Equal(t, i, got[i])
		}
	})
}
