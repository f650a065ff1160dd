package credential

import "sync"

// Store is a watchable credential holder. It is safe for concurrent
// use. Watchers are coalescing: a slow watcher observes the latest
// value, not every intermediate one.
type Store struct {
	mu       sync.Mutex
	value    string
	watchers map[int]chan string
	nextID   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{watchers: make(map[int]chan string)}
}

// Get returns the current credential. Empty means no credential.
func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the credential and notifies watchers.
func (s *Store) Set(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == value {
		return
	}
	s.value = value
	for _, ch := range s.watchers {
		push(ch, value)
	}
}

// Clear removes the credential (logout).
func (s *Store) Clear() {
	s.Set("")
}

// Watch registers a watcher. The returned channel immediately carries
// the current value, then every subsequent change (coalesced). The
// cancel function unregisters the watcher and closes the channel.
func (s *Store) Watch() (<-chan string, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan string, 1)
	s.watchers[id] = ch
	ch <- s.value
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// push delivers value to a watcher channel, replacing any undelivered
// older value.
func push(ch chan string, value string) {
	for {
		select {
		case ch <- value:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
