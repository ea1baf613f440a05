package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type noopNode struct{}

func (n *noopNode) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	return nil
}

type wrapperNode struct {
	input execution.Node
}

func (n *wrapperNode) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	return n.input.Run(ctx, produce)
}

func wrap(input execution.Node) execution.Node {
	return &wrapperNode{input: input}
}

func unitSchema(names ...string) tributary.Schema {
	fields := make([]tributary.SchemaField, len(names))
	for i := range names {
		fields[i] = tributary.SchemaField{Name: names[i], Type: tributary.Int}
	}
	return tributary.NewSchema(fields, -1)
}

func TestUnitChain(t *testing.T) {
	t.Run("chaining fuses the operator into the unit", func(t *testing.T) {
		unit := NewSourceUnit("source", &noopNode{}, unitSchema("a"), 3, execution.Bounded)

		chained := unit.Chain("filter", wrap, unitSchema("a"))
		assert.Same(t, unit, chained)
		assert.Equal(t, "filter", chained.Name)
		assert.IsType(t, &wrapperNode{}, chained.Source)
		assert.Len(t, chained.Units(), 1)
	})

	t.Run("disabled chaining creates a downstream unit", func(t *testing.T) {
		unit := NewSourceUnit("source", &noopNode{}, unitSchema("a"), 3, execution.ContinuousUnbounded)
		unit.DisableChaining()

		chained := unit.Chain("filter", wrap, unitSchema("a", "b"))
		require.NotSame(t, unit, chained)
		assert.Equal(t, 3, chained.Parallelism)
		assert.Equal(t, execution.ContinuousUnbounded, chained.Boundedness)
		assert.Same(t, unit, chained.Input)
		assert.Equal(t, unitSchema("a", "b"), chained.OutputSchema)
		assert.Equal(t, unitSchema("a"), unit.OutputSchema)

		units := chained.Units()
		require.Len(t, units, 2)
		assert.Same(t, unit, units[0])
		assert.Same(t, chained, units[1])
	})

	t.Run("operators chain onto a non-source unit by composition", func(t *testing.T) {
		source := NewSourceUnit("source", &noopNode{}, unitSchema("a"), 1, execution.Bounded)
		source.DisableChaining()
		downstream := source.Chain("map", wrap, unitSchema("a"))

		chained := downstream.Chain("filter", wrap, unitSchema("a"))
		assert.Same(t, downstream, chained)

		composed := chained.Wrap(&noopNode{})
		outer, ok := composed.(*wrapperNode)
		require.True(t, ok)
		assert.IsType(t, &wrapperNode{}, outer.input)
	})

	t.Run("unit ids are unique", func(t *testing.T) {
		a := NewSourceUnit("a", &noopNode{}, unitSchema("a"), 1, execution.Bounded)
		b := NewSourceUnit("b", &noopNode{}, unitSchema("a"), 1, execution.Bounded)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
