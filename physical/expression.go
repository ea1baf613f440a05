package physical

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type Expression struct {
	Type tributary.Type

	ExpressionType ExpressionType
	// Only one of the below may be non-null.
	Variable     *Variable
	Constant     *Constant
	FunctionCall *FunctionCall
}

type ExpressionType int

const (
	ExpressionTypeVariable ExpressionType = iota
	ExpressionTypeConstant
	ExpressionTypeFunctionCall
)

type Variable struct {
	Name string
}

type Constant struct {
	Value tributary.Value
}

type FunctionCall struct {
	Name      string
	Arguments []Expression
	Function  func([]tributary.Value) (tributary.Value, error)
	Strict    bool
}

func NewVariable(name string, t tributary.Type) Expression {
	return Expression{
		Type:           t,
		ExpressionType: ExpressionTypeVariable,
		Variable:       &Variable{Name: name},
	}
}

func NewConstant(value tributary.Value) Expression {
	return Expression{
		Type:           value.Type,
		ExpressionType: ExpressionTypeConstant,
		Constant:       &Constant{Value: value},
	}
}

func NewFunctionCall(name string, function func([]tributary.Value) (tributary.Value, error), outType tributary.Type, strict bool, arguments ...Expression) Expression {
	return Expression{
		Type:           outType,
		ExpressionType: ExpressionTypeFunctionCall,
		FunctionCall: &FunctionCall{
			Name:      name,
			Arguments: arguments,
			Function:  function,
			Strict:    strict,
		},
	}
}

func (expr *Expression) Materialize(ctx context.Context, env Environment, schema tributary.Schema) (execution.Expression, error) {
	switch expr.ExpressionType {
	case ExpressionTypeVariable:
		index := schema.FieldIndex(expr.Variable.Name)
		if index == -1 {
			return nil, fmt.Errorf("no field '%s' in record schema", expr.Variable.Name)
		}
		return execution.NewRecordVariable(index, expr.Variable.Name), nil
	case ExpressionTypeConstant:
		return execution.NewConstant(expr.Constant.Value), nil
	case ExpressionTypeFunctionCall:
		arguments := make([]execution.Expression, len(expr.FunctionCall.Arguments))
		for i := range expr.FunctionCall.Arguments {
			argument, err := expr.FunctionCall.Arguments[i].Materialize(ctx, env, schema)
			if err != nil {
				return nil, fmt.Errorf("couldn't materialize argument %d of function '%s': %w", i, expr.FunctionCall.Name, err)
			}
			arguments[i] = argument
		}
		return execution.NewFunctionCall(expr.FunctionCall.Name, expr.FunctionCall.Function, arguments, expr.FunctionCall.Strict), nil
	}
	panic(fmt.Sprintf("unexhaustive expression type match: %d", expr.ExpressionType))
}
