package modular

import (
	"context"
	"fmt"
)

// Initializer is implemented by module instances that need setup when the
// module starts. args are the extra arguments given to Start or StartAll.
type Initializer interface {
	Init(ctx context.Context, args ...any) error
}

// Destroyer is implemented by module instances that need teardown when the
// module stops.
type Destroyer interface {
	Destroy(ctx context.Context) error
}

// State is the lifecycle state of a module.
type State int

const (
	Unstarted State = iota
	Started
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Started:
		return "started"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	hookInit    = "init"
	hookDestroy = "destroy"
)
