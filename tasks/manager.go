package tasks

import (
	"sync"

	"github.com/coreos/pkg/capnslog"
	"github.com/go-phorce/oneshot/events"
	"github.com/go-phorce/oneshot/metrics"
	"github.com/juju/errors"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "tasks")

// Manager events, see Manager.On
const (
	// EventAdded is triggered when a task is registered
	EventAdded = "added"
	// EventRemoved is triggered when a task is removed by RemoveTask or Clear
	EventRemoved = "removed"
	// EventCompleted is triggered when a registered task is done
	// and removed from the manager
	EventCompleted = "completed"
)

// Manager is a registry of tasks.
// Done tasks are removed from the manager automatically.
type Manager struct {
	lock   sync.RWMutex
	tasks  map[string]*Task
	opts   []Option
	events *events.Listener
}

// NewManager creates a new manager,
// the options are applied to tasks created by NewTask
func NewManager(opts ...Option) *Manager {
	return &Manager{
		tasks:  map[string]*Task{},
		opts:   opts,
		events: events.NewListener(),
	}
}

// Size returns the number of registered tasks
func (m *Manager) Size() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.tasks)
}

// Tasks returns a snapshot of registered tasks
func (m *Manager) Tasks() []*Task {
	m.lock.RLock()
	defer m.lock.RUnlock()

	list := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		list = append(list, t)
	}
	return list
}

// AddTask adds a task to the manager
func (m *Manager) AddTask(t *Task) error {
	if t == nil {
		return errors.NotValidf("nil task")
	}

	m.lock.Lock()
	if _, ok := m.tasks[t.ID()]; ok {
		m.lock.Unlock()
		return errors.AlreadyExistsf("task %s", t.ID())
	}
	if err := t.bind(m); err != nil {
		m.lock.Unlock()
		return errors.Trace(err)
	}
	m.tasks[t.ID()] = t
	size := len(m.tasks)
	m.lock.Unlock()

	// a task may be completed before it was registered
	if t.IsDone() {
		m.TaskCompleted(t)
		return nil
	}

	metrics.SetGauge(keyForRegistrySize, float32(size))
	logger.Tracef("status=added, id=%s, task=%q, size=%d", t.ID(), t.Name(), size)
	m.events.Trigger(EventAdded, t)
	return nil
}

// NewTask creates a new task, adds it to the manager and returns it
func (m *Manager) NewTask(spec Spec) (*Task, error) {
	opts := append(append([]Option{}, m.opts...), WithNotifier(m))
	t, err := NewTask(spec, opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = m.AddTask(t); err != nil {
		return nil, errors.Trace(err)
	}
	return t, nil
}

// RemoveTask stops the task and removes it from the manager
func (m *Manager) RemoveTask(id string) (*Task, error) {
	m.lock.Lock()
	t, ok := m.tasks[id]
	if !ok {
		m.lock.Unlock()
		return nil, errors.NotFoundf("task %q", id)
	}
	delete(m.tasks, id)
	size := len(m.tasks)
	m.lock.Unlock()

	t.unbind(m)
	t.Stop()

	metrics.SetGauge(keyForRegistrySize, float32(size))
	logger.Tracef("status=removed, id=%s, task=%q, size=%d", t.ID(), t.Name(), size)
	m.events.Trigger(EventRemoved, t)
	return t, nil
}

// GetTask returns a task
func (m *Manager) GetTask(id string) (*Task, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, errors.NotFoundf("task %q", id)
	}
	return t, nil
}

// RunAll runs all the tasks which are not done
func (m *Manager) RunAll() {
	for _, t := range m.Tasks() {
		if t.IsDone() {
			continue
		}
		// the task can be done concurrently
		if err := t.Run(); err != nil {
			logger.Debugf("reason=run_failed, id=%s, task=%q, err=[%v]", t.ID(), t.Name(), err)
		}
	}
}

// StopAll stops all the tasks
func (m *Manager) StopAll() {
	for _, t := range m.Tasks() {
		t.Stop()
	}
}

// Clear stops and removes all the tasks
func (m *Manager) Clear() {
	m.StopAll()

	m.lock.Lock()
	removed := m.tasks
	m.tasks = map[string]*Task{}
	m.lock.Unlock()

	metrics.SetGauge(keyForRegistrySize, 0)
	for _, t := range removed {
		t.unbind(m)
		m.events.Trigger(EventRemoved, t)
	}
	logger.Tracef("status=cleared, removed=%d", len(removed))
}

// TaskCompleted removes the done task from the manager
func (m *Manager) TaskCompleted(t *Task) {
	m.lock.Lock()
	registered, ok := m.tasks[t.ID()]
	if !ok || registered != t {
		m.lock.Unlock()
		return
	}
	delete(m.tasks, t.ID())
	size := len(m.tasks)
	m.lock.Unlock()

	metrics.SetGauge(keyForRegistrySize, float32(size))
	logger.Tracef("status=completed, id=%s, task=%q, size=%d", t.ID(), t.Name(), size)
	m.events.Trigger(EventCompleted, t)
}

// On subscribes fn to the manager event: EventAdded, EventRemoved or EventCompleted.
// The handlers are called synchronously by the goroutine changing the registry,
// and must not block.
func (m *Manager) On(event string, fn func(*Task)) events.Subscription {
	return m.events.On(event, func(args ...interface{}) {
		if len(args) > 0 {
			if t, ok := args[0].(*Task); ok {
				fn(t)
			}
		}
	}, 0)
}
