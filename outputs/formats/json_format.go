package formats

import (
	"fmt"
	"io"
	"time"

	"github.com/valyala/fastjson"

	"github.com/tributary-sql/tributary/tributary"
)

type JSONFormatter struct {
	buf    []byte
	arena  *fastjson.Arena
	w      io.Writer
	fields []tributary.SchemaField
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		buf:   make([]byte, 0, 1024),
		arena: new(fastjson.Arena),
		w:     w,
	}
}

func (t *JSONFormatter) SetSchema(schema tributary.Schema) {
	t.fields = schema.Fields
}

func (t *JSONFormatter) Write(values []tributary.Value) error {
	obj := t.arena.NewObject()
	for i := range t.fields {
		obj.Set(t.fields[i].Name, valueToJSON(t.arena, values[i]))
	}

	t.buf = obj.MarshalTo(t.buf)
	t.buf = append(t.buf, '\n')
	if _, err := t.w.Write(t.buf); err != nil {
		return err
	}
	t.buf = t.buf[:0]
	t.arena.Reset()
	return nil
}

func valueToJSON(arena *fastjson.Arena, value tributary.Value) *fastjson.Value {
	switch value.Type.TypeID {
	case tributary.TypeIDNull:
		return arena.NewNull()
	case tributary.TypeIDInt:
		return arena.NewNumberInt(int(value.Int))
	case tributary.TypeIDFloat:
		return arena.NewNumberFloat64(value.Float)
	case tributary.TypeIDBoolean:
		if value.Boolean {
			return arena.NewTrue()
		} else {
			return arena.NewFalse()
		}
	case tributary.TypeIDString:
		return arena.NewString(value.Str)
	case tributary.TypeIDTime:
		return arena.NewString(value.Time.Format(time.RFC3339))
	case tributary.TypeIDList:
		arr := arena.NewArray()
		for i := range value.List {
			arr.SetArrayItem(i, valueToJSON(arena, value.List[i]))
		}
		return arr
	case tributary.TypeIDStruct:
		obj := arena.NewObject()
		for i := range value.FieldValues {
			obj.Set(value.Type.Struct.Fields[i].Name, valueToJSON(arena, value.FieldValues[i]))
		}
		return obj
	default:
		panic(fmt.Sprintf("invalid value type to print: %s", value.Type))
	}
}

func (t *JSONFormatter) Close() error {
	return nil
}
