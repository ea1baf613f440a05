package json

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fastjson"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/execution/files"
	"github.com/tributary-sql/tributary/tributary"
)

// DatasourceExecuting is a legacy source function. It gets cleaned before
// capture into an execution unit, so it must only hold serializable state.
type DatasourceExecuting struct {
	Path   string
	Tail   bool
	Fields []tributary.SchemaField
}

func (d *DatasourceExecuting) Run(ctx ExecutionContext, produce ProduceFn) error {
	var p fastjson.Parser
	produceLine := func(line []byte) error {
		v, err := p.ParseBytes(line)
		if err != nil {
			return fmt.Errorf("couldn't parse json: %w", err)
		}
		if v.Type() != fastjson.TypeObject {
			return fmt.Errorf("expected JSON object, got '%s'", string(line))
		}
		o, err := v.Object()
		if err != nil {
			return fmt.Errorf("expected JSON object, got '%s'", string(line))
		}

		values := make([]tributary.Value, len(d.Fields))
		for i := range values {
			values[i], _ = getValue(d.Fields[i].Type, o.Get(d.Fields[i].Name))
		}
		if err := produce(ProduceFromExecutionContext(ctx), NewRecord(values)); err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
		return nil
	}

	if d.Tail {
		return files.TailLines(ctx, d.Path, func(line string) error {
			return produceLine([]byte(line))
		})
	}

	f, err := os.Open(d.Path)
	if err != nil {
		return fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(bufio.NewReaderSize(f, 4096*1024))
	sc.Buffer(nil, 1024*1024)
	for sc.Scan() {
		if err := produceLine(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func getValue(t tributary.Type, value *fastjson.Value) (out tributary.Value, ok bool) {
	if value == nil {
		return tributary.NewNull(), t.TypeID == tributary.TypeIDNull
	}

	switch t.TypeID {
	case tributary.TypeIDNull:
		return tributary.NewNull(), value.Type() == fastjson.TypeNull
	case tributary.TypeIDInt:
		if value.Type() == fastjson.TypeNumber {
			v, _ := value.Int64()
			return tributary.NewInt(v), true
		}
	case tributary.TypeIDFloat:
		if value.Type() == fastjson.TypeNumber {
			v, _ := value.Float64()
			return tributary.NewFloat(v), true
		}
	case tributary.TypeIDBoolean:
		if value.Type() == fastjson.TypeTrue {
			return tributary.NewBoolean(true), true
		}
		if value.Type() == fastjson.TypeFalse {
			return tributary.NewBoolean(false), true
		}
	case tributary.TypeIDString:
		if value.Type() == fastjson.TypeString {
			v, _ := value.StringBytes()
			return tributary.NewString(string(v)), true
		}
	case tributary.TypeIDTime:
		if value.Type() == fastjson.TypeString {
			v, _ := value.StringBytes()
			if parsed, err := time.Parse(time.RFC3339Nano, string(v)); err == nil {
				return tributary.NewTime(parsed), true
			}
		}
	case tributary.TypeIDList:
		if value.Type() == fastjson.TypeArray {
			arr, _ := value.Array()
			elements := make([]tributary.Value, len(arr))
			for i := range arr {
				var elementType tributary.Type
				if t.List.Element != nil {
					elementType = *t.List.Element
				} else {
					elementType = tributary.Any
				}
				elements[i], _ = getValue(elementType, arr[i])
			}
			return tributary.NewList(elements), true
		}
	case tributary.TypeIDStruct:
		if value.Type() == fastjson.TypeObject {
			o, _ := value.Object()
			values := make([]tributary.Value, len(t.Struct.Fields))
			for i := range t.Struct.Fields {
				values[i], _ = getValue(t.Struct.Fields[i].Type, o.Get(t.Struct.Fields[i].Name))
			}
			return tributary.NewStruct(t.Struct.Fields, values), true
		}
	case tributary.TypeIDUnion:
		for _, alternative := range t.Union.Alternatives {
			if out, ok := getValue(alternative, value); ok {
				return out, true
			}
		}
	case tributary.TypeIDAny:
		for _, alternative := range []tributary.Type{tributary.Time, tributary.Boolean, tributary.Float, tributary.String} {
			if out, ok := getValue(alternative, value); ok {
				return out, true
			}
		}
	}
	return tributary.NewNull(), false
}
