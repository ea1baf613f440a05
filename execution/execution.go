package execution

import (
	"context"

	"github.com/tributary-sql/tributary/tributary"
)

// ExecutionContext is passed to every running operator instance. Instance
// and Instances describe the parallel instance layout of the operator, so
// parallel sources can partition their work.
type ExecutionContext struct {
	context.Context
	Instance  int
	Instances int
}

func (ctx ExecutionContext) WithContext(inner context.Context) ExecutionContext {
	ctx.Context = inner
	return ctx
}

type ProduceContext struct {
	context.Context
}

func ProduceFromExecutionContext(ctx ExecutionContext) ProduceContext {
	return ProduceContext{Context: ctx.Context}
}

type ProduceFn func(ctx ProduceContext, record Record) error

type Record struct {
	Values []tributary.Value
}

func NewRecord(values []tributary.Value) Record {
	return Record{Values: values}
}

// Node is a single running operator. Run blocks until the operator is done
// producing records, or the context is cancelled.
type Node interface {
	Run(ctx ExecutionContext, produce ProduceFn) error
}

// Boundedness says whether a source is known to terminate.
type Boundedness int

const (
	Bounded Boundedness = iota
	ContinuousUnbounded
)

func (b Boundedness) String() string {
	switch b {
	case Bounded:
		return "bounded"
	case ContinuousUnbounded:
		return "continuous_unbounded"
	}
	return "unknown"
}

// SourceFunction is the legacy reader contract: a reusable callable that
// emits records when run. Readers that can run with more than one parallel
// instance say so through Parallel on their scan variant.
type SourceFunction interface {
	Run(ctx ExecutionContext, produce ProduceFn) error
}

// InputSplit is one splittable chunk of a batch input.
type InputSplit interface {
	SplitID() int
}

// InputReader reads a batch input in splits. Splits is called once at plan
// lowering time; Read may then be called concurrently for distinct splits.
type InputReader interface {
	Splits(desired int) ([]InputSplit, error)
	Read(ctx ExecutionContext, split InputSplit, produce ProduceFn) error
}

// Source is the unified source contract: it knows its own boundedness and
// hands out one reader per parallel instance.
type Source interface {
	Boundedness() Boundedness
	Reader(ctx ExecutionContext) (SourceReader, error)
}

type SourceReader interface {
	Run(ctx ExecutionContext, produce ProduceFn) error
	Close() error
}
