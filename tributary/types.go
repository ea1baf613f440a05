package tributary

import (
	"fmt"
	"strings"
)

type TypeID int

const (
	TypeIDNull TypeID = iota
	TypeIDInt
	TypeIDFloat
	TypeIDBoolean
	TypeIDString
	TypeIDTime
	TypeIDList
	TypeIDStruct
	TypeIDUnion
	TypeIDAny
)

type Type struct {
	TypeID TypeID
	List   struct {
		Element *Type
	}
	Struct struct {
		Fields []StructField
	}
	Union struct {
		Alternatives []Type
	}
}

type StructField struct {
	Name string
	Type Type
}

var (
	Null    = Type{TypeID: TypeIDNull}
	Int     = Type{TypeID: TypeIDInt}
	Float   = Type{TypeID: TypeIDFloat}
	Boolean = Type{TypeID: TypeIDBoolean}
	String  = Type{TypeID: TypeIDString}
	Time    = Type{TypeID: TypeIDTime}
	Any     = Type{TypeID: TypeIDAny}
)

// TypeSum returns the type describing values that are of either input type.
// Equal types collapse, everything else widens into a union.
func TypeSum(t1, t2 Type) Type {
	if t1.Equals(t2) {
		return t1
	}
	if t1.TypeID == TypeIDAny || t2.TypeID == TypeIDAny {
		return Any
	}

	var alternatives []Type
	add := func(t Type) {
		for i := range alternatives {
			if alternatives[i].Equals(t) {
				return
			}
		}
		alternatives = append(alternatives, t)
	}
	for _, t := range []Type{t1, t2} {
		if t.TypeID == TypeIDUnion {
			for _, alternative := range t.Union.Alternatives {
				add(alternative)
			}
		} else {
			add(t)
		}
	}
	if len(alternatives) == 1 {
		return alternatives[0]
	}
	return Type{
		TypeID: TypeIDUnion,
		Union:  struct{ Alternatives []Type }{Alternatives: alternatives},
	}
}

func (t Type) Equals(other Type) bool {
	if t.TypeID != other.TypeID {
		return false
	}
	switch t.TypeID {
	case TypeIDList:
		if (t.List.Element == nil) != (other.List.Element == nil) {
			return false
		}
		if t.List.Element != nil {
			return t.List.Element.Equals(*other.List.Element)
		}
		return true
	case TypeIDStruct:
		if len(t.Struct.Fields) != len(other.Struct.Fields) {
			return false
		}
		for i := range t.Struct.Fields {
			if t.Struct.Fields[i].Name != other.Struct.Fields[i].Name {
				return false
			}
			if !t.Struct.Fields[i].Type.Equals(other.Struct.Fields[i].Type) {
				return false
			}
		}
		return true
	case TypeIDUnion:
		if len(t.Union.Alternatives) != len(other.Union.Alternatives) {
			return false
		}
		for i := range t.Union.Alternatives {
			if !t.Union.Alternatives[i].Equals(other.Union.Alternatives[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDNull:
		return "NULL"
	case TypeIDInt:
		return "Int"
	case TypeIDFloat:
		return "Float"
	case TypeIDBoolean:
		return "Boolean"
	case TypeIDString:
		return "String"
	case TypeIDTime:
		return "Time"
	case TypeIDList:
		if t.List.Element == nil {
			return "[]"
		}
		return fmt.Sprintf("[%s]", *t.List.Element)
	case TypeIDStruct:
		fields := make([]string, len(t.Struct.Fields))
		for i := range t.Struct.Fields {
			fields[i] = fmt.Sprintf("%s: %s", t.Struct.Fields[i].Name, t.Struct.Fields[i].Type)
		}
		return fmt.Sprintf("{%s}", strings.Join(fields, "; "))
	case TypeIDUnion:
		alternatives := make([]string, len(t.Union.Alternatives))
		for i := range t.Union.Alternatives {
			alternatives[i] = t.Union.Alternatives[i].String()
		}
		return strings.Join(alternatives, " | ")
	case TypeIDAny:
		return "Any"
	}
	return "<invalid>"
}
