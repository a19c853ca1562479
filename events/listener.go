package events

import (
	"sort"
	"sync"

	"github.com/go-phorce/oneshot/algorithms/guid"
)

// Listener handles multiple events by name
type Listener struct {
	id     string
	lock   sync.RWMutex
	events map[string][]*subscriber
}

// NewListener creates a new listener
func NewListener() *Listener {
	return &Listener{
		id:     guid.MustCreateHex(),
		events: map[string][]*subscriber{},
	}
}

// On registers a function to the event.
// calls is the max number of function calls,
// any non positive number means unlimited calls.
func (l *Listener) On(event string, fn Handler, calls int) Subscription {
	s := newSubscriber(guid.MustCreateHex(), fn, calls)

	l.lock.Lock()
	list := l.events[event]
	// copy on write, Trigger may iterate the previous list
	l.events[event] = append(list[:len(list):len(list)], s)
	l.lock.Unlock()

	return &subscription{
		source: l.id + "/" + event,
		id:     s.id,
		unsub: func(id string) {
			l.Off(event, id)
		},
	}
}

// Off removes the subscription with id from the event
func (l *Listener) Off(event, id string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if list, ok := l.events[event]; ok {
		l.events[event] = remove(list, id)
	}
}

// Trigger calls all functions registered to the event with the provided arguments
func (l *Listener) Trigger(event string, args ...interface{}) {
	l.lock.RLock()
	list := l.events[event]
	l.lock.RUnlock()

	for _, s := range list {
		if s != nil && s.fn != nil && s.call(args...) {
			l.Off(event, s.id)
		}
	}
}

// RemoveAllListeners removes all functions registered to the events
func (l *Listener) RemoveAllListeners(events ...string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	for _, event := range events {
		if _, ok := l.events[event]; ok {
			l.events[event] = nil
		}
	}
}

// ClearListeners removes all registered functions from all the events
func (l *Listener) ClearListeners() {
	l.lock.Lock()
	defer l.lock.Unlock()
	for event := range l.events {
		l.events[event] = nil
	}
}

// ClearAll removes all the events
func (l *Listener) ClearAll() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.events = map[string][]*subscriber{}
}

// Count returns the number of functions registered to the event
func (l *Listener) Count(event string) int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return len(l.events[event])
}

// Events returns the sorted list of known events
func (l *Listener) Events() []string {
	l.lock.RLock()
	defer l.lock.RUnlock()

	list := make([]string, 0, len(l.events))
	for event := range l.events {
		list = append(list, event)
	}
	sort.Strings(list)
	return list
}
