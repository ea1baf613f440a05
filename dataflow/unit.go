package dataflow

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

// Unit is one node of the dataflow graph: an operator together with its
// output schema, parallelism and boundedness. Every unit has parallelism >= 1
// and its boundedness is fixed at construction time.
//
// A unit either runs a source operator (Source set), or wraps the output of
// its Input unit (Wrap set). When chaining is allowed, downstream operators
// are fused into the unit instead of creating a new one.
type Unit struct {
	ID               string
	Name             string
	OutputSchema     tributary.Schema
	Parallelism      int
	Boundedness      execution.Boundedness
	ChainingDisabled bool

	Source execution.Node
	Wrap   func(input execution.Node) execution.Node
	Input  *Unit
}

func NewSourceUnit(name string, source execution.Node, schema tributary.Schema, parallelism int, boundedness execution.Boundedness) *Unit {
	return &Unit{
		ID:           NewUnitID(),
		Name:         name,
		OutputSchema: schema,
		Parallelism:  parallelism,
		Boundedness:  boundedness,
		Source:       source,
	}
}

func NewUnitID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// DisableChaining forces downstream operators into their own units instead
// of being fused into this one.
func (u *Unit) DisableChaining() {
	u.ChainingDisabled = true
}

// Chain attaches an operator downstream of this unit. If chaining is allowed
// the operator is fused into this unit; otherwise a new unit is created,
// inheriting parallelism and boundedness.
func (u *Unit) Chain(name string, wrap func(input execution.Node) execution.Node, schema tributary.Schema) *Unit {
	if !u.ChainingDisabled {
		if u.Source != nil {
			u.Source = wrap(u.Source)
		} else {
			inner := u.Wrap
			u.Wrap = func(input execution.Node) execution.Node {
				return wrap(inner(input))
			}
		}
		u.Name = name
		u.OutputSchema = schema
		return u
	}
	return &Unit{
		ID:           NewUnitID(),
		Name:         name,
		OutputSchema: schema,
		Parallelism:  u.Parallelism,
		Boundedness:  u.Boundedness,
		Wrap:         wrap,
		Input:        u,
	}
}

// Units lists the units of the graph ending at this unit, sources first.
func (u *Unit) Units() []*Unit {
	var out []*Unit
	if u.Input != nil {
		out = u.Input.Units()
	}
	return append(out, u)
}

// Subgraph is an already-connected piece of the dataflow graph. Terminal is
// the unit whose output the subgraph exposes.
type Subgraph struct {
	Terminal *Unit
}
