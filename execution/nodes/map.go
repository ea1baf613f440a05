package nodes

import (
	"fmt"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type Map struct {
	source      Node
	expressions []Expression
}

func NewMap(source Node, expressions []Expression) *Map {
	return &Map{
		source:      source,
		expressions: expressions,
	}
}

func (m *Map) Run(ctx ExecutionContext, produce ProduceFn) error {
	if err := m.source.Run(ctx, func(produceCtx ProduceContext, record Record) error {
		values := make([]tributary.Value, len(m.expressions))
		for i := range m.expressions {
			value, err := m.expressions[i].Evaluate(ctx, record)
			if err != nil {
				return fmt.Errorf("couldn't evaluate map expression with index %d: %w", i, err)
			}
			values[i] = value
		}
		if err := produce(produceCtx, NewRecord(values)); err != nil {
			return fmt.Errorf("couldn't produce: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("couldn't run source: %w", err)
	}
	return nil
}
