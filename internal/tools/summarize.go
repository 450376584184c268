package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/grmflow/internal/ctxlog"
)

// Summarizer invokes the external spreadsheet-rendering script over the
// full set of REML result files. It is optional; when no script is
// configured the built-in TSV summary is the only aggregate output.
type Summarizer struct {
	Script string
	Runner Runner
}

// Summarize renders the spreadsheet from every .reml file under remlDir.
func (s *Summarizer) Summarize(ctx context.Context, remlDir, outPath string) error {
	if s.Script == "" {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Rendering summary spreadsheet", "output", outPath)

	pattern := filepath.Join(remlDir, "*.reml")
	if err := s.Runner.Run(ctx, s.Script, "--pattern", pattern, "-o", outPath); err != nil {
		return fmt.Errorf("rendering summary spreadsheet: %w", err)
	}

	logger.Info("✅ Summary spreadsheet rendered")
	return nil
}
