// Package tools wraps the external collaborators the pipeline drives: the
// VCF normalizer script, the LDAK-style kinship and REML computations, and
// the optional spreadsheet summarizer.
//
// Each wrapper builds one fixed command line per task and hands it to a
// Runner. The statistics themselves stay opaque; the wrappers only own
// argument construction and deterministic output naming.
package tools
