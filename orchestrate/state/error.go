package state

import (
	"errors"
	"fmt"
)

var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckpointDisabled = errors.New("checkpointing not enabled for this graph")

	// ErrRunComplete is returned by Resume when the checkpoint was taken at
	// an exit point.
	ErrRunComplete = errors.New("run already reached an exit point")
)

// ExecutionError captures context when graph execution fails.
//
// State is the state passed into the failing node, so re-running NodeName
// with State repeats exactly the failed step.
type ExecutionError[S any] struct {
	NodeName string
	State    S
	Path     []string
	Err      error
}

func (e *ExecutionError[S]) Error() string {
	return fmt.Sprintf("execution failed at node %s: %v", e.NodeName, e.Err)
}

func (e *ExecutionError[S]) Unwrap() error {
	return e.Err
}
