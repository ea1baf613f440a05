package tributary

// Schema describes the row shape of a plan node or execution unit.
type Schema struct {
	Fields []SchemaField
	// TimeField is -1 if not present.
	TimeField int
}

type SchemaField struct {
	Name string
	Type Type
}

func NewSchema(fields []SchemaField, timeField int) Schema {
	return Schema{
		Fields:    fields,
		TimeField: timeField,
	}
}

func (schema Schema) FieldIndex(name string) int {
	for i := range schema.Fields {
		if schema.Fields[i].Name == name {
			return i
		}
	}
	return -1
}
