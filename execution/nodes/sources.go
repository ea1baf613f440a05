package nodes

import (
	"fmt"
	"time"

	. "github.com/tributary-sql/tributary/execution"
)

// FunctionSource adapts a legacy source function into an operator. The
// function is captured only after it's been cleaned for distribution.
type FunctionSource struct {
	function SourceFunction
}

func NewFunctionSource(function SourceFunction) *FunctionSource {
	return &FunctionSource{function: function}
}

func (s *FunctionSource) Run(ctx ExecutionContext, produce ProduceFn) error {
	if err := s.function.Run(ctx, produce); err != nil {
		return fmt.Errorf("couldn't run source function: %w", err)
	}
	return nil
}

// ReaderSource runs a unified source: one reader per parallel instance.
type ReaderSource struct {
	source Source
}

func NewReaderSource(source Source) *ReaderSource {
	return &ReaderSource{source: source}
}

func (s *ReaderSource) Run(ctx ExecutionContext, produce ProduceFn) error {
	reader, err := s.source.Reader(ctx)
	if err != nil {
		return fmt.Errorf("couldn't create source reader: %w", err)
	}
	defer reader.Close()

	if err := reader.Run(ctx, produce); err != nil {
		return fmt.Errorf("couldn't run source reader: %w", err)
	}
	return nil
}

// SplitSource reads a batch input, splits spread over the parallel instances
// round-robin.
type SplitSource struct {
	reader InputReader
	splits []InputSplit
}

func NewSplitSource(reader InputReader, splits []InputSplit) *SplitSource {
	return &SplitSource{
		reader: reader,
		splits: splits,
	}
}

func (s *SplitSource) Run(ctx ExecutionContext, produce ProduceFn) error {
	for i := range s.splits {
		if i%ctx.Instances != ctx.Instance {
			continue
		}
		if err := s.reader.Read(ctx, s.splits[i], produce); err != nil {
			return fmt.Errorf("couldn't read split %d: %w", s.splits[i].SplitID(), err)
		}
	}
	return nil
}

// PollingSource re-reads a batch input over and over, turning it into an
// unbounded stream. Runs as a single instance.
type PollingSource struct {
	reader   InputReader
	interval time.Duration
}

func NewPollingSource(reader InputReader, interval time.Duration) *PollingSource {
	return &PollingSource{
		reader:   reader,
		interval: interval,
	}
}

func (s *PollingSource) Run(ctx ExecutionContext, produce ProduceFn) error {
	for {
		splits, err := s.reader.Splits(1)
		if err != nil {
			return fmt.Errorf("couldn't create input splits: %w", err)
		}
		for i := range splits {
			if err := s.reader.Read(ctx, splits[i], produce); err != nil {
				return fmt.Errorf("couldn't read split %d: %w", splits[i].SplitID(), err)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
}
