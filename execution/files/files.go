package files

import (
	"context"
	"fmt"

	"github.com/nxadm/tail"
)

// TailLines follows the file as it grows, reopening it on rotation, and
// hands every line to emit. It returns when ctx is cancelled or emit fails.
func TailLines(ctx context.Context, path string, emit func(line string) error) error {
	t, err := tail.TailFile(path, tail.Config{
		MustExist: true,
		Follow:    true,
		ReOpen:    true,
	})
	if err != nil {
		return fmt.Errorf("couldn't tail file: %w", err)
	}
	defer t.Cleanup()
	defer t.Stop()

	for {
		select {
		case line := <-t.Lines:
			if line == nil {
				return nil
			}
			if line.Err != nil {
				return fmt.Errorf("couldn't read line: %w", line.Err)
			}
			if err := emit(line.Text); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
