// Package cli parses command-line arguments into the application
// configuration and owns the process exit-code contract.
package cli
