// Package events provides simple fan-out of events to subscribed functions.
//
// Emitter handles a single event, Listener handles multiple events by name.
// A subscription may be limited by the number of calls,
// after that it is removed automatically.
package events
