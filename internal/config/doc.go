// Package config defines the pipeline configuration model and its HCL
// loader.
//
// A run is described by a single .hcl file naming the three variant call
// sets, the phenotype directory, the GRM parameters, and the external tool
// locations. The decoded Pipeline value is immutable and is threaded into
// every stage constructor; no stage reads ambient configuration state.
package config
