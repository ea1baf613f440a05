package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type querySource struct {
	config *Config
	query  string
	args   []interface{}
	fields []tributary.SchemaField
}

func (s *querySource) Boundedness() Boundedness {
	return Bounded
}

func (s *querySource) Reader(ctx ExecutionContext) (SourceReader, error) {
	// The query isn't splittable, so one instance does all the work and the
	// others stay idle.
	if ctx.Instance != 0 {
		return &queryReader{}, nil
	}
	db, err := connect(s.config)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to database: %w", err)
	}
	return &queryReader{
		source: s,
		db:     db,
	}, nil
}

type queryReader struct {
	source *querySource
	db     *pgx.Conn
}

func (r *queryReader) Run(ctx ExecutionContext, produce ProduceFn) error {
	if r.db == nil {
		return nil
	}
	rows, err := r.db.QueryEx(ctx, r.source.query, nil, r.source.args...)
	if err != nil {
		return fmt.Errorf("couldn't execute query: %w", err)
	}

	for rows.Next() {
		raw, err := rows.Values()
		if err != nil {
			return fmt.Errorf("couldn't read row: %w", err)
		}
		values := make([]tributary.Value, len(r.source.fields))
		for i := range r.source.fields {
			value, err := getValue(r.source.fields[i].Type, raw[i])
			if err != nil {
				return fmt.Errorf("couldn't decode column '%s': %w", r.source.fields[i].Name, err)
			}
			values[i] = value
		}
		if err := produce(ProduceFromExecutionContext(ctx), NewRecord(values)); err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("couldn't read rows: %w", rows.Err())
	}
	return nil
}

func (r *queryReader) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func getValue(t tributary.Type, value interface{}) (tributary.Value, error) {
	if value == nil {
		return tributary.NewNull(), nil
	}
	if t.TypeID == tributary.TypeIDUnion {
		for _, alternative := range t.Union.Alternatives {
			if out, err := getValue(alternative, value); err == nil {
				return out, nil
			}
		}
		return tributary.Value{}, fmt.Errorf("value doesn't fit union type %s: %v", t, value)
	}
	switch value := value.(type) {
	case int:
		return tributary.NewInt(int64(value)), nil
	case int16:
		return tributary.NewInt(int64(value)), nil
	case int32:
		return tributary.NewInt(int64(value)), nil
	case int64:
		return tributary.NewInt(value), nil
	case float32:
		return tributary.NewFloat(float64(value)), nil
	case float64:
		return tributary.NewFloat(value), nil
	case bool:
		return tributary.NewBoolean(value), nil
	case string:
		return tributary.NewString(value), nil
	case time.Time:
		return tributary.NewTime(value), nil
	}
	return tributary.Value{}, fmt.Errorf("unsupported column value: %v", value)
}
