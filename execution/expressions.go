package execution

import (
	"fmt"

	"github.com/tributary-sql/tributary/tributary"
)

type Expression interface {
	Evaluate(ctx ExecutionContext, record Record) (tributary.Value, error)
}

type RecordVariable struct {
	index int
	name  string
}

func NewRecordVariable(index int, name string) *RecordVariable {
	return &RecordVariable{index: index, name: name}
}

func (r *RecordVariable) Evaluate(ctx ExecutionContext, record Record) (tributary.Value, error) {
	if r.index >= len(record.Values) {
		return tributary.ZeroValue, fmt.Errorf("record variable '%s' with index %d out of range for record with %d values", r.name, r.index, len(record.Values))
	}
	return record.Values[r.index], nil
}

type Constant struct {
	value tributary.Value
}

func NewConstant(value tributary.Value) *Constant {
	return &Constant{value: value}
}

func (c *Constant) Evaluate(ctx ExecutionContext, record Record) (tributary.Value, error) {
	return c.value, nil
}

type FunctionCall struct {
	function  func([]tributary.Value) (tributary.Value, error)
	arguments []Expression
	name      string
	// If strict, the function isn't called for null arguments and null is
	// returned right away.
	strict bool
}

func NewFunctionCall(name string, function func([]tributary.Value) (tributary.Value, error), arguments []Expression, strict bool) *FunctionCall {
	return &FunctionCall{
		function:  function,
		arguments: arguments,
		name:      name,
		strict:    strict,
	}
}

func (f *FunctionCall) Evaluate(ctx ExecutionContext, record Record) (tributary.Value, error) {
	values := make([]tributary.Value, len(f.arguments))
	for i := range f.arguments {
		value, err := f.arguments[i].Evaluate(ctx, record)
		if err != nil {
			return tributary.ZeroValue, fmt.Errorf("couldn't evaluate argument %d of function '%s': %w", i, f.name, err)
		}
		if f.strict && value.Type.TypeID == tributary.TypeIDNull {
			return tributary.NewNull(), nil
		}
		values[i] = value
	}
	out, err := f.function(values)
	if err != nil {
		return tributary.ZeroValue, fmt.Errorf("couldn't evaluate function '%s': %w", f.name, err)
	}
	return out, nil
}
