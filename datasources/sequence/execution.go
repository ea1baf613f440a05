package sequence

import (
	"fmt"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type generator struct {
	count int64
}

func (g *generator) Run(ctx ExecutionContext, produce ProduceFn) error {
	for i := int64(ctx.Instance); i < g.count; i += int64(ctx.Instances) {
		record := NewRecord([]tributary.Value{tributary.NewInt(i)})
		if err := produce(ProduceFromExecutionContext(ctx), record); err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
	return nil
}
