package module

import (
	"errors"

	"github.com/replicanet/replica/module/irrecoverable"
)

// ErrMultipleStartup is the panic value of a second Start call.
var ErrMultipleStartup = errors.New("component may only be started once")

// ReadyDoneAware is implemented by components with a single start-stop cycle, such as the
// registry client and message routing.
type ReadyDoneAware interface {
	// Ready is closed once startup completed.
	Ready() <-chan struct{}
	// Done is closed once all workers exited.
	Done() <-chan struct{}
}

// Startable components run until the context passed to Start is cancelled. Fatal errors are
// thrown on that context.
type Startable interface {
	Start(irrecoverable.SignalerContext)
}
