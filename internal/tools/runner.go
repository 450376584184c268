package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/specialistvlad/grmflow/internal/ctxlog"
)

// Runner abstracts process invocation so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner invokes tools as local child processes. A non-zero exit is an
// error carrying the tool name and the tail of its combined output; there
// is no retry and no partial-result mode.
type ExecRunner struct{}

// outputTailLimit bounds how much tool output is attached to an error.
const outputTailLimit = 2048

// Run implements Runner using os/exec.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Invoking external tool.", "tool", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w; output tail: %s", name, err, tail(output.Bytes()))
	}

	logger.Debug("External tool finished.", "tool", name)
	return nil
}

func tail(b []byte) string {
	if len(b) > outputTailLimit {
		b = b[len(b)-outputTailLimit:]
	}
	return string(b)
}

// formatFloat renders a numeric tool parameter without trailing noise.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
