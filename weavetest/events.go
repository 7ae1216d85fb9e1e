package weavetest

import (
	"sync"

	"github.com/iov-one/supersig"
)

// EventSink is a supersig.EventSink that keeps all published events in
// memory.
type EventSink struct {
	mu     sync.Mutex
	events []supersig.Event
	// Err, if set, is returned by Publish and no event is recorded.
	Err error
}

var _ supersig.EventSink = (*EventSink)(nil)

func (s *EventSink) Publish(ctx supersig.Context, events []supersig.Event) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	s.events = append(s.events, events...)
	s.mu.Unlock()
	return nil
}

// Events returns all recorded events.
func (s *EventSink) Events() []supersig.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]supersig.Event(nil), s.events...)
}

// Types returns the type of every recorded event, in publishing order.
func (s *EventSink) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, len(s.events))
	for i, e := range s.events {
		types[i] = e.Type
	}
	return types
}

// Reset drops all recorded events.
func (s *EventSink) Reset() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}
