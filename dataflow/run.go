package dataflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/tributary-sql/tributary/execution"
)

// Run executes the graph ending at the given unit locally: each unit runs
// with as many operator instances as its parallelism, records flow between
// units through channels. Records reaching the terminal unit are handed to
// produce. Run returns when the graph finishes, fails, or ctx is cancelled.
func Run(ctx context.Context, terminal *Unit, produce execution.ProduceFn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records, errs := runUnit(ctx, cancel, terminal)
	for record := range records {
		if err := produce(execution.ProduceContext{Context: ctx}, record); err != nil {
			cancel()
			for range records {
			}
			<-errs
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
	if err := <-errs; err != nil {
		return err
	}
	return nil
}

func runUnit(ctx context.Context, cancel context.CancelFunc, unit *Unit) (<-chan execution.Record, <-chan error) {
	out := make(chan execution.Record, 128)
	errs := make(chan error, 1)

	var inputRecords <-chan execution.Record
	var inputErrs <-chan error
	var stopInput context.CancelFunc
	if unit.Input != nil {
		inputCtx, cancelInput := context.WithCancel(ctx)
		stopInput = cancelInput
		inputRecords, inputErrs = runUnit(inputCtx, cancel, unit.Input)
	}

	var wg sync.WaitGroup
	var errOnce sync.Once
	fail := func(err error) {
		errOnce.Do(func() {
			errs <- err
			cancel()
		})
	}

	wg.Add(unit.Parallelism)
	for instance := 0; instance < unit.Parallelism; instance++ {
		execCtx := execution.ExecutionContext{
			Context:   ctx,
			Instance:  instance,
			Instances: unit.Parallelism,
		}
		operator := unit.Source
		if operator == nil {
			operator = unit.Wrap(newChannelInput(inputRecords))
		}
		go func(operator execution.Node, execCtx execution.ExecutionContext) {
			defer wg.Done()
			err := operator.Run(execCtx, func(produceCtx execution.ProduceContext, record execution.Record) error {
				select {
				case out <- record:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil && ctx.Err() == nil {
				fail(fmt.Errorf("couldn't run unit '%s': %w", unit.Name, err))
			}
		}(operator, execCtx)
	}

	go func() {
		wg.Wait()
		if inputErrs != nil {
			// This unit may have stopped reading before its input finished
			// (a downstream limit, for one). Stop the input subtree and
			// drain its output so its instances can exit instead of
			// blocking on a full channel forever.
			stopInput()
			for range inputRecords {
			}
			if err := <-inputErrs; err != nil {
				fail(err)
			}
		}
		errOnce.Do(func() {
			errs <- nil
		})
		close(out)
	}()

	return out, errs
}

// channelInput adapts the output channel of an upstream unit into an
// operator input. Instances of the downstream unit share the channel, which
// spreads records over them.
type channelInput struct {
	records <-chan execution.Record
}

func newChannelInput(records <-chan execution.Record) *channelInput {
	return &channelInput{records: records}
}

func (c *channelInput) Run(ctx execution.ExecutionContext, produce execution.ProduceFn) error {
	for {
		select {
		case record, ok := <-c.records:
			if !ok {
				return nil
			}
			if err := produce(execution.ProduceFromExecutionContext(ctx), record); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
