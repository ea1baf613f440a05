package execution

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/tributary"
)

func testCtx() ExecutionContext {
	return ExecutionContext{Context: context.Background(), Instance: 0, Instances: 1}
}

func TestRecordVariable(t *testing.T) {
	record := NewRecord([]tributary.Value{tributary.NewString("warsaw"), tributary.NewInt(1793579)})

	value, err := NewRecordVariable(1, "population").Evaluate(testCtx(), record)
	require.NoError(t, err)
	assert.Equal(t, int64(1793579), value.Int)

	_, err = NewRecordVariable(2, "nonexistent").Evaluate(testCtx(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestFunctionCall(t *testing.T) {
	add := func(values []tributary.Value) (tributary.Value, error) {
		return tributary.NewInt(values[0].Int + values[1].Int), nil
	}

	t.Run("arguments are evaluated in order", func(t *testing.T) {
		expr := NewFunctionCall("+", add, []Expression{
			NewConstant(tributary.NewInt(2)),
			NewConstant(tributary.NewInt(3)),
		}, true)

		value, err := expr.Evaluate(testCtx(), NewRecord(nil))
		require.NoError(t, err)
		assert.Equal(t, int64(5), value.Int)
	})

	t.Run("strict call short-circuits on null", func(t *testing.T) {
		called := false
		fn := func(values []tributary.Value) (tributary.Value, error) {
			called = true
			return tributary.NewInt(0), nil
		}
		expr := NewFunctionCall("+", fn, []Expression{
			NewConstant(tributary.NewInt(2)),
			NewConstant(tributary.NewNull()),
		}, true)

		value, err := expr.Evaluate(testCtx(), NewRecord(nil))
		require.NoError(t, err)
		assert.Equal(t, tributary.TypeIDNull, value.Type.TypeID)
		assert.False(t, called)
	})

	t.Run("non-strict call sees the null", func(t *testing.T) {
		fn := func(values []tributary.Value) (tributary.Value, error) {
			return tributary.NewBoolean(values[0].Type.TypeID == tributary.TypeIDNull), nil
		}
		expr := NewFunctionCall("is_null", fn, []Expression{
			NewConstant(tributary.NewNull()),
		}, false)

		value, err := expr.Evaluate(testCtx(), NewRecord(nil))
		require.NoError(t, err)
		assert.True(t, value.Boolean)
	})

	t.Run("function error is wrapped with the function name", func(t *testing.T) {
		fn := func(values []tributary.Value) (tributary.Value, error) {
			return tributary.ZeroValue, fmt.Errorf("division by zero")
		}
		expr := NewFunctionCall("/", fn, nil, true)

		_, err := expr.Evaluate(testCtx(), NewRecord(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'/'")
		assert.Contains(t, err.Error(), "division by zero")
	})
}
