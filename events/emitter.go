package events

import (
	"sync"

	"github.com/go-phorce/oneshot/algorithms/guid"
	"github.com/juju/errors"
)

// Emitter handles a single event by subscription
type Emitter struct {
	id          string
	lock        sync.RWMutex
	subscribers []*subscriber
	max         int
}

// NewEmitter creates a new emitter
func NewEmitter() *Emitter {
	return &Emitter{
		id: guid.MustCreateHex(),
	}
}

// ID returns the emitter ID
func (e *Emitter) ID() string {
	return e.id
}

// Subscribe subscribes a function.
// calls is the max number of function calls,
// any non positive number means unlimited calls.
func (e *Emitter) Subscribe(fn Handler, calls int) (Subscription, error) {
	if fn == nil {
		return nil, errors.NotValidf("nil handler")
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.max > 0 && len(e.subscribers) >= e.max {
		return nil, errors.QuotaLimitExceededf("max number of %d subscribers", e.max)
	}

	s := newSubscriber(guid.MustCreateHex(), fn, calls)
	// copy on write, Emit may iterate the previous list
	e.subscribers = append(e.subscribers[:len(e.subscribers):len(e.subscribers)], s)

	return &subscription{
		source: e.id,
		id:     s.id,
		unsub:  e.unsubscribe,
	}, nil
}

func (e *Emitter) unsubscribe(id string) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscribers = remove(e.subscribers, id)
}

// Emit calls all subscribed functions with the provided arguments
func (e *Emitter) Emit(args ...interface{}) {
	e.lock.RLock()
	list := e.subscribers
	e.lock.RUnlock()

	for _, s := range list {
		if s.call(args...) {
			e.unsubscribe(s.id)
		}
	}
}

// SetMax sets the max number of subscriptions,
// 0 or less means no limit
func (e *Emitter) SetMax(max int) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.max = max
}

// Clear removes all subscriptions
func (e *Emitter) Clear() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscribers = nil
}

// Count returns the number of subscriptions
func (e *Emitter) Count() int {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.subscribers)
}
