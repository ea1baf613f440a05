package dataflow

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type rangeSource struct {
	count int64
}

func (s *rangeSource) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	for i := int64(ctx.Instance); i < s.count; i += int64(ctx.Instances) {
		record := execution.NewRecord([]tributary.Value{tributary.NewInt(i)})
		if err := produce(execution.ProduceFromExecutionContext(ctx), record); err != nil {
			return err
		}
	}
	return nil
}

type failingSource struct{}

func (s *failingSource) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	return fmt.Errorf("source exploded")
}

type tickingSource struct{}

func (s *tickingSource) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	for {
		select {
		case <-time.After(time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
		record := execution.NewRecord([]tributary.Value{tributary.NewInt(0)})
		if err := produce(execution.ProduceFromExecutionContext(ctx), record); err != nil {
			return err
		}
	}
}

var errTakeDone = fmt.Errorf("take done")

// takeNode passes through the first n records and then stops its input, the
// way a limit operator does.
type takeNode struct {
	input execution.Node
	n     int
}

func (t *takeNode) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	taken := 0
	err := t.input.Run(ctx, func(produceCtx execution.ProduceContext, record execution.Record) error {
		if err := produce(produceCtx, record); err != nil {
			return err
		}
		taken++
		if taken == t.n {
			return errTakeDone
		}
		return nil
	})
	if err != nil && err != errTakeDone {
		return err
	}
	return nil
}

func collect(t *testing.T, terminal *Unit) []int64 {
	t.Helper()
	var out []int64
	require.NoError(t, Run(context.Background(), terminal, func(ctx execution.ProduceContext, record execution.Record) error {
		out = append(out, record.Values[0].Int)
		return nil
	}))
	return out
}

func TestRun(t *testing.T) {
	schema := unitSchema("i")

	t.Run("parallel source emits every element exactly once", func(t *testing.T) {
		unit := NewSourceUnit("range", &rangeSource{count: 100}, schema, 4, execution.Bounded)

		got := collect(t, unit)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Len(t, got, 100)
		for i := int64(0); i < 100; i++ {
			assert.Equal(t, i, got[i])
		}
	})

	t.Run("records flow between units over the chain break", func(t *testing.T) {
		unit := NewSourceUnit("range", &rangeSource{count: 10}, schema, 2, execution.Bounded)
		unit.DisableChaining()
		terminal := unit.Chain("collect", func(input execution.Node) execution.Node { return input }, schema)
		terminal.Parallelism = 1

		got := collect(t, terminal)
		assert.Len(t, got, 10)
	})

	t.Run("early downstream stop drains the upstream across a chain break", func(t *testing.T) {
		// The source emits far more records than the inter-unit channel
		// buffers; when the downstream unit stops after a handful, the
		// source instances must be stopped and drained or the run never
		// finishes.
		unit := NewSourceUnit("range", &rangeSource{count: 100000}, schema, 2, execution.Bounded)
		unit.DisableChaining()
		terminal := unit.Chain("take", func(input execution.Node) execution.Node {
			return &takeNode{input: input, n: 5}
		}, schema)
		terminal.Parallelism = 1

		done := make(chan []int64, 1)
		go func() {
			var got []int64
			err := Run(context.Background(), terminal, func(ctx execution.ProduceContext, record execution.Record) error {
				got = append(got, record.Values[0].Int)
				return nil
			})
			assert.NoError(t, err)
			done <- got
		}()

		select {
		case got := <-done:
			assert.Len(t, got, 5)
		case <-time.After(10 * time.Second):
			t.Fatal("run didn't finish after the downstream unit stopped")
		}
	})

	t.Run("source failure surfaces with the unit name", func(t *testing.T) {
		unit := NewSourceUnit("broken", &failingSource{}, schema, 2, execution.Bounded)

		err := Run(context.Background(), unit, func(ctx execution.ProduceContext, record execution.Record) error {
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
		assert.Contains(t, err.Error(), "source exploded")
	})

	t.Run("produce failure stops an unbounded graph", func(t *testing.T) {
		unit := NewSourceUnit("ticker", &tickingSource{}, schema, 1, execution.ContinuousUnbounded)

		count := 0
		err := Run(context.Background(), unit, func(ctx execution.ProduceContext, record execution.Record) error {
			count++
			if count == 3 {
				return fmt.Errorf("enough")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enough")
	})

	t.Run("cancellation stops an unbounded graph cleanly", func(t *testing.T) {
		unit := NewSourceUnit("ticker", &tickingSource{}, schema, 2, execution.ContinuousUnbounded)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		err := Run(ctx, unit, func(ctx execution.ProduceContext, record execution.Record) error {
			return nil
		})
		require.NoError(t, err)
	})
}
