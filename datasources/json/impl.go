package json

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/valyala/fastjson"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

// NewCreator returns a file handler for line-delimited JSON files. With tail
// set, the file is followed as it grows and the scan never ends.
func NewCreator(tail bool) func(name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	return func(name string) (physical.DatasourceImplementation, tributary.Schema, error) {
		schema, err := inferSchema(name)
		if err != nil {
			return nil, tributary.Schema{}, err
		}
		return &impl{
			path: name,
			tail: tail,
		}, schema, nil
	}
}

func inferSchema(path string) (tributary.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return tributary.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	fields := make(map[string]tributary.Type)

	sc := bufio.NewScanner(bufio.NewReaderSize(f, 4096*1024))
	sc.Buffer(nil, 1024*1024)

	var p fastjson.Parser
	i := 0
	for sc.Scan() && i < 100 {
		i++
		v, err := p.ParseBytes(sc.Bytes())
		if err != nil {
			return tributary.Schema{}, fmt.Errorf("couldn't parse json: %w", err)
		}
		if v.Type() != fastjson.TypeObject {
			return tributary.Schema{}, fmt.Errorf("expected JSON object, got '%s'", sc.Text())
		}
		o, err := v.Object()
		if err != nil {
			return tributary.Schema{}, fmt.Errorf("expected JSON object, got '%s'", sc.Text())
		}

		o.Visit(func(key []byte, v *fastjson.Value) {
			if t, ok := fields[string(key)]; ok {
				fields[string(key)] = tributary.TypeSum(t, getType(v))
			} else {
				fields[string(key)] = getType(v)
			}
		})
	}
	if sc.Err() != nil {
		return tributary.Schema{}, fmt.Errorf("couldn't scan lines: %w", sc.Err())
	}

	var schemaFields []tributary.SchemaField
	for k, t := range fields {
		schemaFields = append(schemaFields, tributary.SchemaField{
			Name: k,
			Type: t,
		})
	}
	sort.Slice(schemaFields, func(i, j int) bool {
		return schemaFields[i].Name < schemaFields[j].Name
	})

	return tributary.NewSchema(schemaFields, -1), nil
}

func getType(value *fastjson.Value) tributary.Type {
	switch value.Type() {
	case fastjson.TypeNull:
		return tributary.Null
	case fastjson.TypeString:
		v, _ := value.StringBytes()
		if _, err := time.Parse(time.RFC3339Nano, string(v)); err == nil {
			return tributary.Time
		}
		return tributary.String
	case fastjson.TypeNumber:
		return tributary.Float
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return tributary.Boolean
	case fastjson.TypeObject:
		obj, _ := value.Object()
		fields := make([]tributary.StructField, 0, obj.Len())
		obj.Visit(func(key []byte, v *fastjson.Value) {
			fields = append(fields, tributary.StructField{
				Name: string(key),
				Type: getType(v),
			})
		})
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Name < fields[j].Name
		})
		return tributary.Type{
			TypeID: tributary.TypeIDStruct,
			Struct: struct{ Fields []tributary.StructField }{Fields: fields},
		}
	case fastjson.TypeArray:
		arr, _ := value.Array()
		var elementType *tributary.Type
		for i := range arr {
			if elementType != nil {
				t := tributary.TypeSum(*elementType, getType(arr[i]))
				elementType = &t
			} else {
				t := getType(arr[i])
				elementType = &t
			}
		}
		return tributary.Type{
			TypeID: tributary.TypeIDList,
			List: struct {
				Element *tributary.Type
			}{
				Element: elementType,
			},
		}
	}

	panic(fmt.Sprintf("unexhaustive json input value match: %s %+v", value.Type().String(), value))
}

type impl struct {
	path string
	tail bool
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeFunctionReader,
		FunctionReader: &physical.FunctionReaderScan{
			Function: &DatasourceExecuting{
				Path:   i.path,
				Tail:   i.tail,
				Fields: schema.Fields,
			},
			Parallel: false,
			Bounded:  !i.tail,
		},
	}, nil
}
