package component

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/replicanet/replica/module"
	"github.com/replicanet/replica/module/irrecoverable"
	"github.com/replicanet/replica/module/util"
)

// Component can be started once and reports when it is ready and when it has shut down.
// After Start, Done is eventually closed, on cancellation or on an irrecoverable error.
type Component interface {
	module.Startable
	module.ReadyDoneAware
}

// ReadyFunc is called by a worker once it is ready. Calls after the first are ignored.
type ReadyFunc func()

// ComponentWorker is a long running routine of a component. It returns when ctx is cancelled and
// reports fatal errors through ctx.Throw.
type ComponentWorker func(ctx irrecoverable.SignalerContext, ready ReadyFunc)

// ComponentManager runs the workers of a component and implements Component for it.
// Ready is closed once every worker called its ReadyFunc, Done once every worker returned.
// An error thrown by any worker cancels the others and is rethrown on the context given to Start.
type ComponentManager struct {
	started     *atomic.Bool
	ready       chan struct{}
	done        chan struct{}
	workersDone chan struct{}
	shutdown    chan struct{}
	workers     []ComponentWorker
}

var _ Component = (*ComponentManager)(nil)

func NewComponentManager(workers ...ComponentWorker) *ComponentManager {
	return &ComponentManager{
		started:     atomic.NewBool(false),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
		workersDone: make(chan struct{}),
		shutdown:    make(chan struct{}),
		workers:     workers,
	}
}

// Start launches the workers. It panics with module.ErrMultipleStartup when called twice.
func (c *ComponentManager) Start(parent irrecoverable.SignalerContext) {
	if !c.started.CompareAndSwap(false, true) {
		panic(module.ErrMultipleStartup)
	}

	ctx, cancel := context.WithCancel(parent)
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	go func() {
		<-ctx.Done()
		close(c.shutdown)
	}()

	// done is closed only after a worker error reached the parent
	go func() {
		defer func() {
			cancel()
			<-c.workersDone
			close(c.done)
		}()
		if err := util.WaitError(errChan, c.workersDone); err != nil {
			cancel()
			parent.Throw(err)
		}
	}()

	var workersReady, workersDone sync.WaitGroup
	workersReady.Add(len(c.workers))
	workersDone.Add(len(c.workers))
	for _, worker := range c.workers {
		go func(worker ComponentWorker) {
			defer workersDone.Done()
			var once sync.Once
			worker(signalerCtx, func() { once.Do(workersReady.Done) })
		}(worker)
	}

	go func() {
		workersReady.Wait()
		close(c.ready)
	}()
	go func() {
		workersDone.Wait()
		close(c.workersDone)
	}()
}

// Ready never closes if a worker returns before calling its ReadyFunc.
func (c *ComponentManager) Ready() <-chan struct{} {
	return c.ready
}

func (c *ComponentManager) Done() <-chan struct{} {
	return c.done
}

// ShutdownSignal is closed once the start context is cancelled or a worker threw an error.
func (c *ComponentManager) ShutdownSignal() <-chan struct{} {
	return c.shutdown
}
