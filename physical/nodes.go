package physical

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/execution/nodes"
	"github.com/tributary-sql/tributary/tributary"
)

type Node struct {
	Schema tributary.Schema

	NodeType NodeType
	// Only one of the below may be non-null.
	Datasource *Datasource
	Filter     *Filter
	Map        *Map
	Limit      *Limit
}

type NodeType int

const (
	NodeTypeDatasource NodeType = iota
	NodeTypeFilter
	NodeTypeMap
	NodeTypeLimit
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeDatasource:
		return "datasource"
	case NodeTypeFilter:
		return "filter"
	case NodeTypeMap:
		return "map"
	case NodeTypeLimit:
		return "limit"
	}
	return "unknown"
}

// Datasource identifies a table by name and owns enough to materialize its
// scan variant on demand. Predicates are the push-downs already applied to
// this scan.
type Datasource struct {
	Name, Alias    string
	Implementation DatasourceImplementation
	Predicates     []Expression
}

type Filter struct {
	Source    Node
	Predicate Expression
}

type Map struct {
	Source      Node
	Expressions []Expression
}

type Limit struct {
	Source Node
	Limit  Expression
}

// Materialize lowers the plan rooted at this node into a dataflow graph and
// returns its terminal execution unit. Lowering runs once per plan,
// sequentially; resolution and connector instantiation happen here.
func (node *Node) Materialize(ctx context.Context, env Environment, denv *dataflow.Environment) (*dataflow.Unit, error) {
	switch node.NodeType {
	case NodeTypeDatasource:
		variant, err := node.Datasource.Resolve(ctx, node.Schema)
		if err != nil {
			return nil, err
		}
		name := node.Datasource.Name
		if node.Datasource.Alias != "" {
			name = fmt.Sprintf("%s as %s", node.Datasource.Name, node.Datasource.Alias)
		}
		return BuildScanUnit(variant, node.Schema, name, denv, env.InputStrategy)

	case NodeTypeFilter:
		source, err := node.Filter.Source.Materialize(ctx, env, denv)
		if err != nil {
			return nil, fmt.Errorf("couldn't materialize filter source: %w", err)
		}
		predicate, err := node.Filter.Predicate.Materialize(ctx, env, node.Filter.Source.Schema)
		if err != nil {
			return nil, fmt.Errorf("couldn't materialize filter predicate: %w", err)
		}
		return source.Chain("filter", func(input execution.Node) execution.Node {
			return nodes.NewFilter(input, predicate)
		}, node.Schema), nil

	case NodeTypeMap:
		source, err := node.Map.Source.Materialize(ctx, env, denv)
		if err != nil {
			return nil, fmt.Errorf("couldn't materialize map source: %w", err)
		}
		expressions := make([]execution.Expression, len(node.Map.Expressions))
		for i := range node.Map.Expressions {
			expr, err := node.Map.Expressions[i].Materialize(ctx, env, node.Map.Source.Schema)
			if err != nil {
				return nil, fmt.Errorf("couldn't materialize map expression with index %d: %w", i, err)
			}
			expressions[i] = expr
		}
		return source.Chain("map", func(input execution.Node) execution.Node {
			return nodes.NewMap(input, expressions)
		}, node.Schema), nil

	case NodeTypeLimit:
		source, err := node.Limit.Source.Materialize(ctx, env, denv)
		if err != nil {
			return nil, fmt.Errorf("couldn't materialize limit source: %w", err)
		}
		limit, err := node.Limit.Limit.Materialize(ctx, env, tributary.Schema{TimeField: -1})
		if err != nil {
			return nil, fmt.Errorf("couldn't materialize limit expression: %w", err)
		}
		return source.Chain("limit", func(input execution.Node) execution.Node {
			return nodes.NewLimit(input, limit)
		}, node.Schema), nil
	}
	panic(fmt.Sprintf("unexhaustive node type match: %d", node.NodeType))
}
