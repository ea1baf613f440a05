package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

func testCtx() ExecutionContext {
	return ExecutionContext{Context: context.Background(), Instance: 0, Instances: 1}
}

func intRecords(values ...int64) []Record {
	out := make([]Record, len(values))
	for i := range values {
		out[i] = NewRecord([]tributary.Value{tributary.NewInt(values[i])})
	}
	return out
}

func run(t *testing.T, node Node) []int64 {
	t.Helper()
	var out []int64
	require.NoError(t, node.Run(testCtx(), func(ctx ProduceContext, record Record) error {
		out = append(out, record.Values[0].Int)
		return nil
	}))
	return out
}

func TestFilter(t *testing.T) {
	source := NewInMemoryRecords(intRecords(1, 2, 3, 4, 5))
	even := NewFunctionCall("even", func(values []tributary.Value) (tributary.Value, error) {
		return tributary.NewBoolean(values[0].Int%2 == 0), nil
	}, []Expression{NewRecordVariable(0, "i")}, true)

	got := run(t, NewFilter(source, even))
	assert.Equal(t, []int64{2, 4}, got)
}

func TestMap(t *testing.T) {
	source := NewInMemoryRecords(intRecords(1, 2, 3))
	double := NewFunctionCall("double", func(values []tributary.Value) (tributary.Value, error) {
		return tributary.NewInt(values[0].Int * 2), nil
	}, []Expression{NewRecordVariable(0, "i")}, true)

	got := run(t, NewMap(source, []Expression{double}))
	assert.Equal(t, []int64{2, 4, 6}, got)
}

func TestLimit(t *testing.T) {
	t.Run("stops the source after the limit", func(t *testing.T) {
		source := NewInMemoryRecords(intRecords(1, 2, 3, 4, 5))
		got := run(t, NewLimit(source, NewConstant(tributary.NewInt(2))))
		assert.Equal(t, []int64{1, 2}, got)
	})

	t.Run("zero limit produces nothing", func(t *testing.T) {
		source := NewInMemoryRecords(intRecords(1, 2, 3))
		got := run(t, NewLimit(source, NewConstant(tributary.NewInt(0))))
		assert.Empty(t, got)
	})

	t.Run("non-integer limit", func(t *testing.T) {
		source := NewInMemoryRecords(intRecords(1))
		err := NewLimit(source, NewConstant(tributary.NewString("lots"))).Run(testCtx(), func(ctx ProduceContext, record Record) error {
			return nil
		})
		require.Error(t, err)
	})
}

func TestInMemoryRecordsPartitioning(t *testing.T) {
	source := NewInMemoryRecords(intRecords(0, 1, 2, 3, 4, 5))

	var seen []int64
	for instance := 0; instance < 3; instance++ {
		ctx := ExecutionContext{Context: context.Background(), Instance: instance, Instances: 3}
		require.NoError(t, source.Run(ctx, func(produceCtx ProduceContext, record Record) error {
			seen = append(seen, record.Values[0].Int)
			return nil
		}))
	}
	assert.ElementsMatch(t, []int64{0, 1, 2, 3, 4, 5}, seen)
}
