package memory

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/execution/nodes"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type impl struct {
	table *Table
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	if len(predicates) > 0 {
		return physical.ScanVariant{}, fmt.Errorf("predicate pushdown is not supported for in-memory tables")
	}

	rows := i.table.records()
	records := make([]execution.Record, len(rows))
	for j := range rows {
		records[j] = execution.NewRecord(rows[j])
	}

	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeUnit,
		Unit: &physical.UnitScan{
			Produce: func(env *dataflow.Environment) (*dataflow.Unit, error) {
				return dataflow.NewSourceUnit(
					"memory",
					nodes.NewInMemoryRecords(records),
					i.table.Schema,
					1,
					execution.Bounded,
				), nil
			},
		},
	}, nil
}
