// Package dag implements the pipeline's task-dependency engine: a directed
// acyclic graph of named tasks and a concurrent executor that runs them on
// a fixed worker pool.
//
// Barrier semantics fall out of edge structure: a node only becomes ready
// when every dependency has completed, so fan-in stages need no locks of
// their own. A failing task cancels the run and skips its dependents; the
// run either completes fully or fails fast.
package dag
