package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tributary-sql/tributary/dataflow"
	"github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/outputs"
	"github.com/tributary-sql/tributary/outputs/formats"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

var limit int

var scanCmd = &cobra.Command{
	Use:   "scan <table>",
	Short: "Read a table and print its records.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		plan, env, denv, err := planScan(ctx, args[0])
		if err != nil {
			return err
		}
		if limit > 0 {
			plan = &physical.Node{
				Schema:   plan.Schema,
				NodeType: physical.NodeTypeLimit,
				Limit: &physical.Limit{
					Source: *plan,
					Limit:  physical.NewConstant(tributary.NewInt(int64(limit))),
				},
			}
		}

		unit, err := plan.Materialize(ctx, env, denv)
		if err != nil {
			return fmt.Errorf("couldn't materialize plan: %w", err)
		}

		sink, err := newSink(unit)
		if err != nil {
			return err
		}
		sink.SetSchema(unit.OutputSchema)

		if err := dataflow.Run(ctx, unit, func(produceCtx execution.ProduceContext, record execution.Record) error {
			return sink.Write(record.Values)
		}); err != nil {
			return fmt.Errorf("couldn't run scan: %w", err)
		}
		return sink.Close()
	},
}

func init() {
	scanCmd.Flags().IntVar(&limit, "limit", 0, "stop after this many records")
	rootCmd.AddCommand(scanCmd)
}

// planScan resolves the table and builds the single-scan plan together with
// the environments lowering needs.
func planScan(ctx context.Context, table string) (*physical.Node, physical.Environment, *dataflow.Environment, error) {
	repository, err := buildRepository(ctx)
	if err != nil {
		return nil, physical.Environment{}, nil, err
	}

	impl, schema, err := repository.GetTable(ctx, table)
	if err != nil {
		return nil, physical.Environment{}, nil, fmt.Errorf("couldn't resolve table '%s': %w", table, err)
	}

	denv, err := dataflow.NewEnvironment(parallelism, breakChains)
	if err != nil {
		return nil, physical.Environment{}, nil, fmt.Errorf("couldn't create dataflow environment: %w", err)
	}

	var inputStrategy physical.InputReaderStrategy
	if streaming {
		inputStrategy = dataflow.NewStreamingInputStrategy(pollInterval)
	} else {
		inputStrategy = dataflow.NewBatchInputStrategy(denv)
	}

	env := physical.Environment{
		Datasources:   repository,
		InputStrategy: inputStrategy,
	}
	plan := &physical.Node{
		Schema:   schema,
		NodeType: physical.NodeTypeDatasource,
		Datasource: &physical.Datasource{
			Name:           table,
			Implementation: impl,
		},
	}
	return plan, env, denv, nil
}

func newSink(unit *dataflow.Unit) (formats.Format, error) {
	format, err := formatConstructor()
	if err != nil {
		return nil, err
	}
	if unit.Boundedness == execution.ContinuousUnbounded {
		return outputs.NewLivePrinter(format, 20), nil
	}
	sink := format(os.Stdout)
	return sink, nil
}

func formatConstructor() (func(io.Writer) formats.Format, error) {
	switch output {
	case "table":
		return func(w io.Writer) formats.Format { return formats.NewTableFormatter(w) }, nil
	case "csv":
		return func(w io.Writer) formats.Format { return formats.NewCSVFormatter(w) }, nil
	case "json":
		return func(w io.Writer) formats.Format { return formats.NewJSONFormatter(w) }, nil
	default:
		return nil, fmt.Errorf("unknown output format: '%s'", output)
	}
}
