package session

import "sync"

type subscribers struct {
	mu     sync.Mutex
	next   int
	closed bool
	chans  map[int]chan Snapshot
}

// Subscribe returns a channel that receives the current snapshot and then every
// later one. The channel holds only the latest snapshot, so a slow reader skips
// intermediate states but always observes the newest. The returned func
// unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.subs.mu.Lock()
	defer m.subs.mu.Unlock()

	if m.subs.closed {
		close(ch)

		return ch, func() {}
	}

	id := m.subs.next
	m.subs.next++
	m.subs.chans[id] = ch
	ch <- *m.current.Load()

	return ch, func() {
		m.subs.mu.Lock()
		defer m.subs.mu.Unlock()

		if c, ok := m.subs.chans[id]; ok {
			delete(m.subs.chans, id)
			close(c)
		}
	}
}

func (s *subscribers) notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	for _, ch := range s.chans {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *subscribers) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for id, ch := range s.chans {
		delete(s.chans, id)
		close(ch)
	}
}
