package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/ctxlog"
)

// grmSuffixes are the files an LDAK-style kinship computation publishes
// under its output prefix. The prefix is the only handle downstream
// consumers need; the file list exists for bookkeeping and logs.
var grmSuffixes = []string{".grm.bin", ".grm.id", ".grm.details"}

// GRMBuilder computes one genomic-relationship matrix per normalized call
// set. The numeric parameters are forwarded verbatim; Threads is a
// resource hint for the tool, not a concurrency primitive of the pipeline.
type GRMBuilder struct {
	LDAK         string
	MinMAF       float64
	KinshipPower float64
	PruneR2      float64
	Threads      int
	Runner       Runner
}

// Build runs the kinship computation for one normalized call set and
// returns the resulting artifact group keyed by its symbolic prefix.
func (b *GRMBuilder) Build(ctx context.Context, in artifact.Normalized, grmDir string) (artifact.GRMGroup, error) {
	logger := ctxlog.FromContext(ctx).With("variant", in.Type)
	logger.Info("▶️ Computing GRM", "input", in.Path)

	prefix := filepath.Join(grmDir, strings.ToLower(string(in.Type)))
	args := []string{
		"--calc-kins-direct", prefix,
		"--vcf", in.Path,
		"--minmaf", formatFloat(b.MinMAF),
		"--power", formatFloat(b.KinshipPower),
		"--window-prune", formatFloat(b.PruneR2),
		"--max-threads", strconv.Itoa(b.Threads),
	}
	if err := b.Runner.Run(ctx, b.LDAK, args...); err != nil {
		return artifact.GRMGroup{}, fmt.Errorf("computing %s GRM: %w", in.Type, err)
	}

	files := make([]string, 0, len(grmSuffixes))
	for _, suffix := range grmSuffixes {
		files = append(files, prefix+suffix)
	}

	logger.Info("✅ GRM computed", "prefix", prefix)
	return artifact.GRMGroup{Type: in.Type, Prefix: prefix, Files: files}, nil
}
