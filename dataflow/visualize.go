package dataflow

import (
	"fmt"

	"github.com/tributary-sql/tributary/helpers/graph"
)

func (u *Unit) Visualize() *graph.Node {
	n := graph.NewNode(u.Name)
	n.AddField("id", u.ID)
	n.AddField("parallelism", fmt.Sprintf("%d", u.Parallelism))
	n.AddField("boundedness", u.Boundedness.String())
	if u.ChainingDisabled {
		n.AddField("chaining", "disabled")
	}
	fields := make([]string, len(u.OutputSchema.Fields))
	for i := range u.OutputSchema.Fields {
		fields[i] = u.OutputSchema.Fields[i].Name
	}
	n.AddField("output", fmt.Sprintf("%v", fields))
	if u.Input != nil {
		n.AddChild("input", u.Input.Visualize())
	}
	return n
}
