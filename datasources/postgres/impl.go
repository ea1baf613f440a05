package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type impl struct {
	config *Config
	table  string
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	where, args, err := renderPredicates(predicates, schema)
	if err != nil {
		return physical.ScanVariant{}, fmt.Errorf("couldn't render predicates: %w", err)
	}

	fieldNames := make([]string, len(schema.Fields))
	for j := range schema.Fields {
		fieldNames[j] = schema.Fields[j].Name
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(fieldNames, ", "), i.table)
	if where != "" {
		query = fmt.Sprintf("%s WHERE %s", query, where)
	}

	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeSourceReader,
		SourceReader: &physical.SourceReaderScan{
			Source: &querySource{
				config: i.config,
				query:  query,
				args:   args,
				fields: schema.Fields,
			},
		},
	}, nil
}

// renderPredicates turns pushed-down predicates into a WHERE clause.
// Only simple comparisons of a column against a constant qualify; anything
// else is an error, since accepted predicates must not reach the query
// result unapplied.
func renderPredicates(predicates []physical.Expression, schema tributary.Schema) (string, []interface{}, error) {
	var parts []string
	var args []interface{}
	for _, predicate := range predicates {
		if predicate.ExpressionType != physical.ExpressionTypeFunctionCall {
			return "", nil, fmt.Errorf("unsupported predicate shape")
		}
		call := predicate.FunctionCall
		switch call.Name {
		case "=", "<", ">", "<=", ">=", "<>":
		default:
			return "", nil, fmt.Errorf("unsupported predicate function: '%s'", call.Name)
		}
		if len(call.Arguments) != 2 {
			return "", nil, fmt.Errorf("unsupported predicate arity: %d", len(call.Arguments))
		}
		variable, constant := call.Arguments[0], call.Arguments[1]
		if variable.ExpressionType != physical.ExpressionTypeVariable || constant.ExpressionType != physical.ExpressionTypeConstant {
			return "", nil, fmt.Errorf("unsupported predicate argument shape")
		}
		if schema.FieldIndex(variable.Variable.Name) == -1 {
			return "", nil, fmt.Errorf("predicate references unknown column: '%s'", variable.Variable.Name)
		}
		args = append(args, constant.Constant.Value.ToRawGoValue())
		parts = append(parts, fmt.Sprintf("%s %s $%d", variable.Variable.Name, call.Name, len(args)))
	}
	return strings.Join(parts, " AND "), args, nil
}
