package events

import (
	"fmt"
	"sync/atomic"
)

// Handler is a function subscribed to an event
type Handler func(args ...interface{})

// Subscription maintains a reference to the subscription
type Subscription interface {
	// ID returns the subscription ID
	ID() string
	// Unsubscribe removes the subscription
	Unsubscribe()
	// String returns the subscription details
	String() string
}

// subscriber contains subscriber data
type subscriber struct {
	id string
	fn Handler
	// max number of calls, 0 means unlimited
	calls uint32
	total uint32
}

func newSubscriber(id string, fn Handler, calls int) *subscriber {
	s := &subscriber{
		id: id,
		fn: fn,
	}
	if calls > 0 {
		s.calls = uint32(calls)
	}
	return s
}

// call invokes the subscribed function and returns true
// when no more calls are available
func (s *subscriber) call(args ...interface{}) bool {
	if s.calls == 0 {
		s.fn(args...)
		return false
	}

	count := atomic.AddUint32(&s.total, 1)
	if count > s.calls {
		return true
	}
	s.fn(args...)
	return count == s.calls
}

type subscription struct {
	source string
	id     string
	unsub  func(id string)
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Unsubscribe() {
	s.unsub(s.id)
}

func (s *subscription) String() string {
	return fmt.Sprintf("source=%s, subscription=%s", s.source, s.id)
}

// remove returns the list without the subscriber with id
func remove(list []*subscriber, id string) []*subscriber {
	for i, s := range list {
		if s.id == id {
			res := make([]*subscriber, 0, len(list)-1)
			res = append(res, list[:i]...)
			return append(res, list[i+1:]...)
		}
	}
	return list
}
