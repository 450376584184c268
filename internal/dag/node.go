package dag

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task is the unit of work attached to a node. Tasks communicate only
// through artifact hand-off; the engine never inspects their results.
type Task func(ctx context.Context) error

// nodeState tracks a node through its lifecycle.
type nodeState int32

const (
	statePending nodeState = iota
	stateRunning
	stateDone
	stateFailed
)

// node is one task in the graph together with its wiring and runtime state.
type node struct {
	id         string
	run        Task
	deps       map[string]*node
	dependents map[string]*node

	// depCount is decremented as dependencies finish; the node becomes
	// ready when it reaches zero.
	depCount atomic.Int32
	state    atomic.Int32
	err      error
	skipOnce sync.Once
}

func (n *node) setState(s nodeState) {
	n.state.Store(int32(s))
}

func (n *node) is(s nodeState) bool {
	return n.state.Load() == int32(s)
}
