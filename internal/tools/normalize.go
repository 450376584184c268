package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/ctxlog"
	"github.com/specialistvlad/grmflow/internal/variant"
)

// Normalizer rewrites one raw call set into its normalized form by running
// the configured normalization script with the input and output paths as
// its two arguments.
type Normalizer struct {
	Script string
	Runner Runner
}

// Normalize processes one variant input. The output path is derived from
// the variant type, so the three normalizer invocations never collide.
func (n *Normalizer) Normalize(ctx context.Context, in variant.Input, outDir string) (artifact.Normalized, error) {
	logger := ctxlog.FromContext(ctx).With("variant", in.Type)
	logger.Info("▶️ Normalizing call set", "input", in.Path)

	out := filepath.Join(outDir, strings.ToLower(string(in.Type))+".vcf.gz")
	if err := n.Runner.Run(ctx, n.Script, in.Path, out); err != nil {
		return artifact.Normalized{}, fmt.Errorf("normalizing %s call set: %w", in.Type, err)
	}

	logger.Info("✅ Call set normalized", "output", out)
	return artifact.Normalized{Type: in.Type, Path: out}, nil
}
