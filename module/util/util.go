package util

import (
	"sync"

	"github.com/replicanet/replica/module"
)

// AllReady returns a channel closed once every component is ready.
func AllReady(components ...module.ReadyDoneAware) <-chan struct{} {
	channels := make([]<-chan struct{}, 0, len(components))
	for _, c := range components {
		channels = append(channels, c.Ready())
	}
	return AllClosed(channels...)
}

// AllClosed returns a channel closed once every input channel is closed.
func AllClosed(channels ...<-chan struct{}) <-chan struct{} {
	all := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(len(channels))
	for _, ch := range channels {
		go func(ch <-chan struct{}) {
			defer wg.Done()
			<-ch
		}(ch)
	}
	go func() {
		wg.Wait()
		close(all)
	}()
	return all
}

// CheckClosed reports whether the channel is closed, without blocking.
func CheckClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// WaitError blocks until an error arrives or done is closed. An error that is already pending
// when done closes is still returned, since done may have been closed because of that error.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
	}
	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}
