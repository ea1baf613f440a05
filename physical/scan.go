package physical

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/execution/nodes"
	"github.com/tributary-sql/tributary/tributary"
)

// ScanVariant is the concrete runtime capability a datasource materializes
// into. It's a closed set: adding a variant means extending this union and
// the dispatch in BuildScanUnit.
type ScanVariant struct {
	VariantType ScanVariantType
	// Only one of the below may be non-null.
	FunctionReader *FunctionReaderScan
	InputReader    *InputReaderScan
	SourceReader   *SourceReaderScan
	Subgraph       *SubgraphScan
	Unit           *UnitScan
}

type ScanVariantType int

const (
	ScanVariantTypeFunctionReader ScanVariantType = iota
	ScanVariantTypeInputReader
	ScanVariantTypeSourceReader
	ScanVariantTypeSubgraph
	ScanVariantTypeUnit
)

func (t ScanVariantType) String() string {
	switch t {
	case ScanVariantTypeFunctionReader:
		return "function_reader"
	case ScanVariantTypeInputReader:
		return "input_reader"
	case ScanVariantTypeSourceReader:
		return "source_reader"
	case ScanVariantTypeSubgraph:
		return "subgraph"
	case ScanVariantTypeUnit:
		return "unit"
	}
	return "unknown"
}

// FunctionReaderScan is the legacy single-operator source: a reusable
// function emitting records, with an explicit boundedness flag. Parallel
// marks functions that can run with more than one parallel instance.
type FunctionReaderScan struct {
	Function execution.SourceFunction
	Parallel bool
	Bounded  bool
}

// InputReaderScan is a splittable batch input. The shape of its execution
// unit depends on the execution mode, which the caller supplies through an
// InputReaderStrategy.
type InputReaderScan struct {
	Reader execution.InputReader
}

// SourceReaderScan is the unified source: the source knows its own
// boundedness and may declare a preferred parallelism. A declared
// parallelism takes strict precedence over the environment default.
type SourceReaderScan struct {
	Source              execution.Source
	DeclaredParallelism *int
}

// SubgraphScan produces an already-connected dataflow subgraph. The
// subgraph is trusted to be internally consistent; only the output schema of
// its terminal unit is stamped.
type SubgraphScan struct {
	Produce func(env *dataflow.Environment) (*dataflow.Subgraph, error)
}

// UnitScan directly produces one execution unit. Same trust policy as
// SubgraphScan.
type UnitScan struct {
	Produce func(env *dataflow.Environment) (*dataflow.Unit, error)
}

// InputReaderStrategy builds a mode-appropriate execution unit for a
// splittable batch input. Streaming-mode and batch-mode units differ
// structurally and the lowering pass has no business deciding which applies,
// so the caller supplies the strategy.
type InputReaderStrategy func(reader execution.InputReader, schema tributary.Schema, name string) (*dataflow.Unit, error)

// Resolve materializes the datasource into its scan variant by asking the
// connector, exactly once. Connector-side instantiation may do I/O. A failed
// or malformed resolution is a ResolutionError; there's nothing transient
// about it, so no retries.
func (node *Datasource) Resolve(ctx context.Context, schema tributary.Schema) (ScanVariant, error) {
	variant, err := node.Implementation.Scan(ctx, schema, node.Predicates)
	if err != nil {
		return ScanVariant{}, &ResolutionError{Table: node.Name, Err: err}
	}

	switch variant.VariantType {
	case ScanVariantTypeFunctionReader:
		if variant.FunctionReader == nil || variant.FunctionReader.Function == nil {
			return ScanVariant{}, &ResolutionError{Table: node.Name, Err: fmt.Errorf("connector declared a function reader scan without a function")}
		}
	case ScanVariantTypeInputReader:
		if variant.InputReader == nil || variant.InputReader.Reader == nil {
			return ScanVariant{}, &ResolutionError{Table: node.Name, Err: fmt.Errorf("connector declared an input reader scan without a reader")}
		}
	case ScanVariantTypeSourceReader:
		if variant.SourceReader == nil || variant.SourceReader.Source == nil {
			return ScanVariant{}, &ResolutionError{Table: node.Name, Err: fmt.Errorf("connector declared a source reader scan without a source")}
		}
	case ScanVariantTypeSubgraph:
		if variant.Subgraph == nil || variant.Subgraph.Produce == nil {
			return ScanVariant{}, &ResolutionError{Table: node.Name, Err: fmt.Errorf("connector declared a subgraph scan without a factory")}
		}
	case ScanVariantTypeUnit:
		if variant.Unit == nil || variant.Unit.Produce == nil {
			return ScanVariant{}, &ResolutionError{Table: node.Name, Err: fmt.Errorf("connector declared a unit scan without a factory")}
		}
	default:
		// An out-of-range variant type is version skew, not a malformed
		// union. BuildScanUnit diagnoses it.
	}
	return variant, nil
}

// BuildScanUnit turns a resolved scan variant into one execution unit with
// the requested output schema. Dispatch is exhaustive over the closed
// variant set.
func BuildScanUnit(variant ScanVariant, schema tributary.Schema, name string, env *dataflow.Environment, inputStrategy InputReaderStrategy) (*dataflow.Unit, error) {
	switch variant.VariantType {
	case ScanVariantTypeFunctionReader:
		scan := variant.FunctionReader
		// Legacy source functions close over outer-scope state, so they're
		// always cleaned before capture.
		if err := env.Clean(scan.Function); err != nil {
			return nil, fmt.Errorf("couldn't clean source function of table '%s': %w", name, err)
		}
		parallelism := 1
		if scan.Parallel {
			parallelism = env.DefaultParallelism
		}
		boundedness := execution.ContinuousUnbounded
		if scan.Bounded {
			boundedness = execution.Bounded
		}
		return dataflow.NewSourceUnit(name, nodes.NewFunctionSource(scan.Function), schema, parallelism, boundedness), nil

	case ScanVariantTypeInputReader:
		unit, err := inputStrategy(variant.InputReader.Reader, schema, name)
		if err != nil {
			return nil, fmt.Errorf("couldn't build input reader unit for table '%s': %w", name, err)
		}
		return unit, nil

	case ScanVariantTypeSourceReader:
		scan := variant.SourceReader
		unit := dataflow.NewSourceUnit(name, nodes.NewReaderSource(scan.Source), schema, env.DefaultParallelism, scan.Source.Boundedness())
		if env.ForceBreakChain {
			unit.DisableChaining()
		}
		parallelism, err := deriveScanParallelism(scan.DeclaredParallelism, unit.Parallelism, name)
		if err != nil {
			return nil, err
		}
		unit.Parallelism = parallelism
		return unit, nil

	case ScanVariantTypeSubgraph:
		subgraph, err := variant.Subgraph.Produce(env)
		if err != nil {
			return nil, fmt.Errorf("couldn't produce subgraph for table '%s': %w", name, err)
		}
		terminal := subgraph.Terminal
		terminal.OutputSchema = schema
		return terminal, nil

	case ScanVariantTypeUnit:
		unit, err := variant.Unit.Produce(env)
		if err != nil {
			return nil, fmt.Errorf("couldn't produce execution unit for table '%s': %w", name, err)
		}
		unit.OutputSchema = schema
		return unit, nil

	default:
		return nil, &UnsupportedVariantError{Table: name, VariantType: variant.VariantType}
	}
}

// deriveScanParallelism resolves the parallelism of a unified source unit: a
// declared parallelism wins if present and valid, otherwise the
// environment-resolved value is used unchanged. Strict precedence, no
// clamping.
func deriveScanParallelism(declared *int, environmentParallelism int, table string) (int, error) {
	if declared == nil {
		return environmentParallelism, nil
	}
	if *declared <= 0 {
		return 0, &InvalidParallelismError{Table: table, Parallelism: *declared}
	}
	return *declared, nil
}
