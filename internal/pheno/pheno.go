// Package pheno enumerates and validates the phenotype measurement files
// the pipeline cross-joins against each GRM.
//
// Phenotype files are tab-separated with a three-column header: FID, IID,
// then a single trait column. Missing trait values are encoded as the
// literal sentinel "NA"; numeric sentinels are not accepted.
package pheno

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/grmflow/internal/fsutil"
)

// MissingSentinel is the only accepted encoding for a missing trait value.
const MissingSentinel = "NA"

// File is one discovered phenotype file. Name is the base name without the
// extension and is the key used in every downstream artifact name.
type File struct {
	Name string
	Path string
}

// Discover enumerates all .tsv files under dir, sorted by path so the task
// set is stable across runs. An empty result is a configuration error: a
// pipeline with no phenotypes has nothing to estimate.
func Discover(dir string) ([]File, error) {
	paths, err := fsutil.FindFilesByExtension(dir, ".tsv")
	if err != nil {
		return nil, fmt.Errorf("scanning phenotype directory %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no phenotype files (*.tsv) found in %s", dir)
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		base := filepath.Base(p)
		files = append(files, File{
			Name: strings.TrimSuffix(base, ".tsv"),
			Path: p,
		})
	}
	return files, nil
}

// SampleID identifies one individual by its family and within-family IDs,
// matching the FID/IID convention of the external genetics tools.
type SampleID struct {
	FID string
	IID string
}

func (s SampleID) String() string {
	return s.FID + "/" + s.IID
}

// Validation is the outcome of checking one phenotype file.
type Validation struct {
	Trait   string
	Samples []SampleID // samples carrying a non-missing trait value
	Missing int
}

// Validate checks the structure of a phenotype file: the FID/IID header,
// the single trait column, the missing-value sentinel, and that at least
// one non-missing value exists. Any violation is an error naming the file
// and line so the failure is actionable.
func Validate(path string) (*Validation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening phenotype file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("phenotype file %s is empty", path)
	}

	header := strings.Split(scanner.Text(), "\t")
	if len(header) != 3 {
		return nil, fmt.Errorf("phenotype file %s: expected 3 tab-separated header columns (FID, IID, trait), got %d", path, len(header))
	}
	if header[0] != "FID" || header[1] != "IID" {
		return nil, fmt.Errorf("phenotype file %s: header must start with FID and IID, got %q and %q", path, header[0], header[1])
	}

	v := &Validation{Trait: header[2]}
	line := 1
	for scanner.Scan() {
		line++
		row := strings.Split(scanner.Text(), "\t")
		if len(row) != 3 {
			return nil, fmt.Errorf("phenotype file %s line %d: expected 3 columns, got %d", path, line, len(row))
		}
		val := row[2]
		if val == MissingSentinel {
			v.Missing++
			continue
		}
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			return nil, fmt.Errorf("phenotype file %s line %d: trait value %q is neither numeric nor the %q sentinel", path, line, val, MissingSentinel)
		}
		v.Samples = append(v.Samples, SampleID{FID: row[0], IID: row[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading phenotype file %s: %w", path, err)
	}

	if len(v.Samples) == 0 {
		return nil, fmt.Errorf("phenotype file %s contains no non-missing trait values", path)
	}
	return v, nil
}

// SampleIDs reads the FID/IID pairs of a tab-separated file with an FID,
// IID header, such as a covariate file. Extra columns are allowed.
func SampleIDs(path string) (map[SampleID]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%s is empty", path)
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 2 || header[0] != "FID" || header[1] != "IID" {
		return nil, fmt.Errorf("%s: header must start with FID and IID columns", path)
	}

	ids := make(map[SampleID]struct{})
	for scanner.Scan() {
		row := strings.Split(scanner.Text(), "\t")
		if len(row) < 2 {
			continue
		}
		ids[SampleID{FID: row[0], IID: row[1]}] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ids, nil
}
