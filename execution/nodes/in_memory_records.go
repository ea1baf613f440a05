package nodes

import (
	"fmt"

	. "github.com/tributary-sql/tributary/execution"
)

type InMemoryRecords struct {
	records []Record
}

func NewInMemoryRecords(records []Record) *InMemoryRecords {
	return &InMemoryRecords{records: records}
}

func (n *InMemoryRecords) Run(ctx ExecutionContext, produce ProduceFn) error {
	for i := range n.records {
		if i%ctx.Instances != ctx.Instance {
			continue
		}
		if err := produce(ProduceFromExecutionContext(ctx), n.records[i]); err != nil {
			return fmt.Errorf("couldn't produce: %w", err)
		}
	}
	return nil
}
