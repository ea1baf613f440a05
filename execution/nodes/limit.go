package nodes

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type Limit struct {
	source Node
	limit  Expression
}

func NewLimit(source Node, limit Expression) *Limit {
	return &Limit{
		source: source,
		limit:  limit,
	}
}

func (l *Limit) Run(ctx ExecutionContext, produce ProduceFn) error {
	limitValue, err := l.limit.Evaluate(ctx, NewRecord(nil))
	if err != nil {
		return fmt.Errorf("couldn't evaluate limit expression: %w", err)
	}
	if limitValue.Type.TypeID != tributary.TypeIDInt {
		return fmt.Errorf("limit expression must evaluate to an Int, got %s", limitValue.Type)
	}
	limit := limitValue.Int

	limitNodeID := ulid.MustNew(ulid.Now(), rand.Reader).String()

	var produced int64
	if limit > 0 {
		if err := l.source.Run(ctx, func(produceCtx ProduceContext, record Record) error {
			if err := produce(produceCtx, record); err != nil {
				return fmt.Errorf("couldn't produce: %w", err)
			}
			produced++
			if produced == limit {
				// This error is returned to stop underlying processing once the
				// limit has been reached. It's caught and silenced by the Limit
				// node that emitted it.
				return fmt.Errorf("limit %s reached", limitNodeID)
			}
			return nil
		}); err != nil && !strings.Contains(err.Error(), limitNodeID) {
			return fmt.Errorf("couldn't run source: %w", err)
		}
	}
	return nil
}
