package nodes

import (
	"fmt"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type Filter struct {
	source    Node
	predicate Expression
}

func NewFilter(source Node, predicate Expression) *Filter {
	return &Filter{
		source:    source,
		predicate: predicate,
	}
}

func (f *Filter) Run(ctx ExecutionContext, produce ProduceFn) error {
	if err := f.source.Run(ctx, func(produceCtx ProduceContext, record Record) error {
		ok, err := f.predicate.Evaluate(ctx, record)
		if err != nil {
			return fmt.Errorf("couldn't evaluate condition: %w", err)
		}
		if ok.Type.TypeID == tributary.TypeIDBoolean && ok.Boolean {
			if err := produce(produceCtx, record); err != nil {
				return fmt.Errorf("couldn't produce: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("couldn't run source: %w", err)
	}
	return nil
}
