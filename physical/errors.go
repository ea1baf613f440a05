package physical

import (
	"fmt"
)

// ResolutionError means a table descriptor failed to produce any recognized
// scan variant. That's a connector bug or misconfiguration, fatal to the
// current lowering pass, never retried.
type ResolutionError struct {
	Table string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("couldn't resolve scan variant for table '%s': %s", e.Table, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// InvalidParallelismError means a source declared a non-positive preferred
// parallelism. Never silently corrected.
type InvalidParallelismError struct {
	Table       string
	Parallelism int
}

func (e *InvalidParallelismError) Error() string {
	return fmt.Sprintf("table '%s' declared source parallelism %d, it must be greater than zero", e.Table, e.Parallelism)
}

// UnsupportedVariantError means a scan variant outside the closed set
// reached the execution-unit builder. That's version skew between the
// builder and the connector contract it trusts.
type UnsupportedVariantError struct {
	Table       string
	VariantType ScanVariantType
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("table '%s' resolved to unsupported scan variant %d", e.Table, e.VariantType)
}
