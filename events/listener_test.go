package events_test

import (
	"testing"

	"github.com/go-phorce/oneshot/events"
	"github.com/stretchr/testify/assert"
)

func Test_Listener(t *testing.T) {
	l := events.NewListener()

	var started, stopped []interface{}
	subStart := l.On("start", func(args ...interface{}) {
		started = append(started, args...)
	}, 0)
	l.On("stop", func(args ...interface{}) {
		stopped = append(stopped, args...)
	}, 1)

	assert.Equal(t, []string{"start", "stop"}, l.Events())
	assert.Equal(t, 1, l.Count("start"))
	assert.Equal(t, 0, l.Count("unknown"))

	l.Trigger("start", "a")
	l.Trigger("stop", "b")
	l.Trigger("stop", "c")
	l.Trigger("unknown", "d")

	assert.Equal(t, []interface{}{"a"}, started)
	assert.Equal(t, []interface{}{"b"}, stopped)
	assert.Equal(t, 0, l.Count("stop"))

	subStart.Unsubscribe()
	l.Trigger("start", "e")
	assert.Len(t, started, 1)
	assert.Equal(t, 0, l.Count("start"))
}

func Test_ListenerOff(t *testing.T) {
	l := events.NewListener()

	count := 0
	sub := l.On("tick", func(...interface{}) { count++ }, 0)
	l.Trigger("tick")

	l.Off("tick", sub.ID())
	l.Off("unknown", sub.ID())
	l.Trigger("tick")
	assert.Equal(t, 1, count)
}

func Test_ListenerRemove(t *testing.T) {
	l := events.NewListener()

	count := 0
	fn := func(...interface{}) { count++ }
	l.On("one", fn, 0)
	l.On("one", fn, 0)
	l.On("two", fn, 0)
	l.On("three", fn, 0)

	assert.Equal(t, 2, l.Count("one"))

	l.RemoveAllListeners("one", "unknown")
	assert.Equal(t, 0, l.Count("one"))
	assert.Equal(t, 1, l.Count("two"))
	assert.Equal(t, []string{"one", "three", "two"}, l.Events())

	l.ClearListeners()
	assert.Equal(t, 0, l.Count("two"))
	assert.Equal(t, []string{"one", "three", "two"}, l.Events())

	l.Trigger("one")
	l.Trigger("two")
	assert.Equal(t, 0, count)

	l.ClearAll()
	assert.Empty(t, l.Events())
}
