package pool

import (
	"sync"

	"github.com/replicanet/replica/model/consensus"
)

// section is an in-memory HeightIndexedPool. Artifacts with equal keys are stored once.
// All sections of a pool share the pool's lock.
type section[T consensus.ConsensusMessage] struct {
	lock     *sync.RWMutex
	key      func(T) interface{}
	byHeight map[consensus.Height][]T
}

var _ HeightIndexedPool[*consensus.Finalization] = (*section[*consensus.Finalization])(nil)

func newSection[T consensus.ConsensusMessage](lock *sync.RWMutex, key func(T) interface{}) *section[T] {
	return &section[T]{
		lock:     lock,
		key:      key,
		byHeight: make(map[consensus.Height][]T),
	}
}

func (s *section[T]) GetByHeight(height consensus.Height) []T {
	s.lock.RLock()
	defer s.lock.RUnlock()

	items := s.byHeight[height]
	result := make([]T, len(items))
	copy(result, items)
	return result
}

func (s *section[T]) GetOnlyByHeight(height consensus.Height) (T, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.onlyAt(height)
}

func (s *section[T]) GetHighest() (T, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	height, ok := s.maxHeight()
	if !ok {
		var empty T
		return empty, ErrNotFound
	}
	return s.onlyAt(height)
}

func (s *section[T]) MaxHeight() (consensus.Height, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.maxHeight()
}

// insert adds the artifact unless an artifact with the same key is present. Returns true if the
// artifact was added. Callers hold the write lock.
func (s *section[T]) insert(item T) bool {
	height := item.Height()
	k := s.key(item)
	for _, existing := range s.byHeight[height] {
		if s.key(existing) == k {
			return false
		}
	}
	s.byHeight[height] = append(s.byHeight[height], item)
	return true
}

// remove deletes the artifact with the same key, if present. Callers hold the write lock.
func (s *section[T]) remove(item T) bool {
	height := item.Height()
	k := s.key(item)
	items := s.byHeight[height]
	for i, existing := range items {
		if s.key(existing) != k {
			continue
		}
		items = append(items[:i:i], items[i+1:]...)
		if len(items) == 0 {
			delete(s.byHeight, height)
		} else {
			s.byHeight[height] = items
		}
		return true
	}
	return false
}

// purgeBelow deletes all artifacts strictly below the height. Callers hold the write lock.
func (s *section[T]) purgeBelow(height consensus.Height) int {
	purged := 0
	for h, items := range s.byHeight {
		if h < height {
			purged += len(items)
			delete(s.byHeight, h)
		}
	}
	return purged
}

func (s *section[T]) onlyAt(height consensus.Height) (T, error) {
	var empty T
	items := s.byHeight[height]
	switch len(items) {
	case 0:
		return empty, ErrNotFound
	case 1:
		return items[0], nil
	default:
		return empty, ErrNotUnique
	}
}

func (s *section[T]) maxHeight() (consensus.Height, bool) {
	found := false
	var max consensus.Height
	for h := range s.byHeight {
		if !found || h > max {
			max = h
			found = true
		}
	}
	return max, found
}
