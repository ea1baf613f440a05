package sequence

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type impl struct {
	count int64
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	if len(predicates) > 0 {
		return physical.ScanVariant{}, fmt.Errorf("predicate pushdown is not supported for sequences")
	}
	count := i.count
	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeSubgraph,
		Subgraph: &physical.SubgraphScan{
			Produce: func(env *dataflow.Environment) (*dataflow.Subgraph, error) {
				// Generation fans out over the default parallelism; a
				// single-instance collector restores a global order downstream.
				generate := dataflow.NewSourceUnit(
					"sequence",
					&generator{count: count},
					schema,
					env.DefaultParallelism,
					execution.Bounded,
				)
				generate.DisableChaining()
				collect := generate.Chain("sequence_collect", func(input execution.Node) execution.Node {
					return input
				}, schema)
				collect.Parallelism = 1
				return &dataflow.Subgraph{Terminal: collect}, nil
			},
		},
	}, nil
}
