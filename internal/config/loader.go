package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/grmflow/internal/ctxlog"
)

// Load parses and decodes the pipeline configuration file at path.
// Configuration expressions may reference process environment variables
// through the `env` map, e.g. `output_dir = "${env.SCRATCH}/results"`.
func Load(ctx context.Context, path string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline configuration.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	var pipeline Pipeline
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &pipeline); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %s", path, diags.Error())
	}

	pipeline.applyDefaults()
	logger.Debug("Pipeline configuration decoded.",
		"output_dir", pipeline.OutputDir,
		"min_maf", *pipeline.GRM.MinMAF,
		"kinship_power", *pipeline.GRM.KinshipPower,
		"prune_r2", *pipeline.GRM.PruneR2,
	)
	return &pipeline, nil
}

// evalContext builds the expression evaluation context available to the
// configuration file.
func evalContext() *hcl.EvalContext {
	envMap := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			envMap[k] = cty.StringVal(v)
		}
	}
	env := cty.EmptyObjectVal
	if len(envMap) > 0 {
		env = cty.ObjectVal(envMap)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
