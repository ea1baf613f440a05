package dataflow

import (
	"fmt"
	"time"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/execution/nodes"
	"github.com/tributary-sql/tributary/tributary"
)

// NewBatchInputStrategy builds batch-mode units for splittable input
// readers: the splits are fanned out over environment-default parallelism
// and the unit is bounded.
func NewBatchInputStrategy(env *Environment) func(reader execution.InputReader, schema tributary.Schema, name string) (*Unit, error) {
	return func(reader execution.InputReader, schema tributary.Schema, name string) (*Unit, error) {
		splits, err := reader.Splits(env.DefaultParallelism)
		if err != nil {
			return nil, fmt.Errorf("couldn't create input splits: %w", err)
		}
		parallelism := env.DefaultParallelism
		if len(splits) > 0 && len(splits) < parallelism {
			parallelism = len(splits)
		}
		return NewSourceUnit(name, nodes.NewSplitSource(reader, splits), schema, parallelism, execution.Bounded), nil
	}
}

// NewStreamingInputStrategy builds streaming-mode units for splittable input
// readers: a single instance re-reads the input periodically and the unit is
// unbounded.
func NewStreamingInputStrategy(pollInterval time.Duration) func(reader execution.InputReader, schema tributary.Schema, name string) (*Unit, error) {
	return func(reader execution.InputReader, schema tributary.Schema, name string) (*Unit, error) {
		return NewSourceUnit(name, nodes.NewPollingSource(reader, pollInterval), schema, 1, execution.ContinuousUnbounded), nil
	}
}
