// Package app wires the application together: CLI-level configuration,
// logger construction, pipeline config loading, and the run lifecycle.
package app
