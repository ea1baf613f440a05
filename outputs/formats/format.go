package formats

import (
	"github.com/tributary-sql/tributary/tributary"
)

// Format sinks the records of a scan into an output representation. SetSchema
// is called once before the first Write.
type Format interface {
	SetSchema(schema tributary.Schema)
	Write(values []tributary.Value) error
	Close() error
}
