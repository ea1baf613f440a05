package tributary

import (
	"fmt"
	"strings"
	"time"
)

var ZeroValue = Value{}

// Value is a runtime value. The Type carries the concrete instance type,
// never a union.
type Value struct {
	Type        Type
	Int         int64
	Float       float64
	Boolean     bool
	Str         string
	Time        time.Time
	List        []Value
	FieldValues []Value
}

func NewNull() Value {
	return Value{Type: Null}
}

func NewInt(value int64) Value {
	return Value{Type: Int, Int: value}
}

func NewFloat(value float64) Value {
	return Value{Type: Float, Float: value}
}

func NewBoolean(value bool) Value {
	return Value{Type: Boolean, Boolean: value}
}

func NewString(value string) Value {
	return Value{Type: String, Str: value}
}

func NewTime(value time.Time) Value {
	return Value{Type: Time, Time: value}
}

func NewList(values []Value) Value {
	return Value{Type: Type{TypeID: TypeIDList}, List: values}
}

func NewStruct(fields []StructField, values []Value) Value {
	return Value{
		Type:        Type{TypeID: TypeIDStruct, Struct: struct{ Fields []StructField }{Fields: fields}},
		FieldValues: values,
	}
}

func (value Value) Compare(other Value) int {
	if value.Type.TypeID != other.Type.TypeID {
		if value.Type.TypeID < other.Type.TypeID {
			return -1
		}
		return 1
	}

	switch value.Type.TypeID {
	case TypeIDNull:
		return 0
	case TypeIDInt:
		if value.Int < other.Int {
			return -1
		} else if value.Int > other.Int {
			return 1
		}
		return 0
	case TypeIDFloat:
		if value.Float < other.Float {
			return -1
		} else if value.Float > other.Float {
			return 1
		}
		return 0
	case TypeIDBoolean:
		if !value.Boolean && other.Boolean {
			return -1
		} else if value.Boolean && !other.Boolean {
			return 1
		}
		return 0
	case TypeIDString:
		return strings.Compare(value.Str, other.Str)
	case TypeIDTime:
		if value.Time.Before(other.Time) {
			return -1
		} else if value.Time.After(other.Time) {
			return 1
		}
		return 0
	case TypeIDList:
		for i := 0; i < len(value.List) && i < len(other.List); i++ {
			if cmp := value.List[i].Compare(other.List[i]); cmp != 0 {
				return cmp
			}
		}
		return len(value.List) - len(other.List)
	case TypeIDStruct:
		for i := 0; i < len(value.FieldValues) && i < len(other.FieldValues); i++ {
			if cmp := value.FieldValues[i].Compare(other.FieldValues[i]); cmp != 0 {
				return cmp
			}
		}
		return len(value.FieldValues) - len(other.FieldValues)
	}
	panic(fmt.Sprintf("unexhaustive value comparison: %s", value.Type))
}

func (value Value) Equals(other Value) bool {
	return value.Compare(other) == 0
}

func (value Value) String() string {
	switch value.Type.TypeID {
	case TypeIDNull:
		return "<null>"
	case TypeIDInt:
		return fmt.Sprintf("%d", value.Int)
	case TypeIDFloat:
		return fmt.Sprintf("%g", value.Float)
	case TypeIDBoolean:
		return fmt.Sprintf("%t", value.Boolean)
	case TypeIDString:
		return value.Str
	case TypeIDTime:
		return value.Time.Format(time.RFC3339Nano)
	case TypeIDList:
		elements := make([]string, len(value.List))
		for i := range value.List {
			elements[i] = value.List[i].String()
		}
		return fmt.Sprintf("[%s]", strings.Join(elements, ", "))
	case TypeIDStruct:
		fields := make([]string, len(value.FieldValues))
		for i := range value.FieldValues {
			fields[i] = fmt.Sprintf("%s: %s", value.Type.Struct.Fields[i].Name, value.FieldValues[i])
		}
		return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
	}
	return "<invalid>"
}

// ToRawGoValue maps a value onto plain Go types, for output formatting.
func (value Value) ToRawGoValue() interface{} {
	switch value.Type.TypeID {
	case TypeIDNull:
		return nil
	case TypeIDInt:
		return value.Int
	case TypeIDFloat:
		return value.Float
	case TypeIDBoolean:
		return value.Boolean
	case TypeIDString:
		return value.Str
	case TypeIDTime:
		return value.Time
	case TypeIDList:
		out := make([]interface{}, len(value.List))
		for i := range value.List {
			out[i] = value.List[i].ToRawGoValue()
		}
		return out
	case TypeIDStruct:
		out := make(map[string]interface{}, len(value.FieldValues))
		for i := range value.FieldValues {
			out[value.Type.Struct.Fields[i].Name] = value.FieldValues[i].ToRawGoValue()
		}
		return out
	}
	return nil
}
