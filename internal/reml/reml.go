// Package reml parses the result files written by the variance-component
// estimation tool and renders the pipeline's aggregate summary table.
//
// A result file carries a `Converged YES|NO` line and a `Component` table
// whose rows (Her_K1, Her_K2, Her_K3, Her_All) hold the heritability
// estimate, its standard error, and related columns. Missing values are
// encoded as NA.
package reml

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// componentColumns is the number of numeric columns read per component
// row: Heritability, SE, Size, Mega_Intensity, SE.
const componentColumns = 5

// Value is a numeric table cell that may be NA.
type Value struct {
	Float float64
	OK    bool
}

func (v Value) String() string {
	if !v.OK {
		return "NA"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// Component is one row of the component table.
type Component struct {
	Name   string
	Values [componentColumns]Value
}

// Heritability returns the first column, the point estimate.
func (c Component) Heritability() Value { return c.Values[0] }

// SE returns the second column, the standard error of the estimate.
func (c Component) SE() Value { return c.Values[1] }

// Result is the parsed content of one .reml file.
type Result struct {
	Converged  string
	Components []Component
}

// ParseFile reads and parses one REML result file.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening REML result: %w", err)
	}
	defer f.Close()

	res := &Result{}
	inTable := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch {
		case strings.HasPrefix(line, "Converged"):
			if len(fields) >= 2 {
				res.Converged = fields[1]
			}
		case strings.HasPrefix(line, "Component"):
			inTable = true
		case inTable && strings.HasPrefix(fields[0], "Her_"):
			res.Components = append(res.Components, parseComponent(fields))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading REML result %s: %w", path, err)
	}

	if res.Converged == "" && len(res.Components) == 0 {
		return nil, fmt.Errorf("REML result %s has neither a Converged line nor a component table", path)
	}
	return res, nil
}

// parseComponent decodes one Her_* row. Unparsable or missing cells stay
// NA rather than failing the whole file, matching the tool's own output
// conventions.
func parseComponent(fields []string) Component {
	c := Component{Name: fields[0]}
	for i := 0; i < componentColumns && i+1 < len(fields); i++ {
		raw := fields[i+1]
		if raw == "NA" {
			continue
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Values[i] = Value{Float: f, OK: true}
		}
	}
	return c
}
