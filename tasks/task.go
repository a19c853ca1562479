package tasks

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-phorce/oneshot/algorithms/guid"
	"github.com/go-phorce/oneshot/events"
	"github.com/go-phorce/oneshot/metrics"
	"github.com/juju/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// State specifies the lifecycle state of a task
type State int32

const (
	// Idle task is created or stopped, and can be run
	Idle State = iota
	// Running task is waiting for its time, or executing the callback
	Running
	// Done task has executed the callback, and can not be run again
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Spec describes a task to create.
// Exactly one of At or After must be set.
type Spec struct {
	// Name is an optional label for logs,
	// the function name is used if not provided
	Name string
	// Func is the function to call when the time is arrived,
	// it accepts zero or one parameter, and returns nothing or an error
	Func interface{}
	// Args is the payload passed to Func, if Func has a parameter
	Args interface{}
	// At specifies the time on which the task is executed
	At time.Time
	// After specifies the delay after Run to execute the task,
	// it must be a whole number of resolution units
	After time.Duration
}

func (s *Spec) timing() (Timing, error) {
	hasAt := !s.At.IsZero()
	hasAfter := s.After != 0
	switch {
	case hasAt && hasAfter:
		return Timing{}, errors.NotValidf("multiple timing methods")
	case hasAt:
		return At(s.At), nil
	case hasAfter:
		return After(s.After), nil
	}
	return Timing{}, errors.NotValidf("missing timing")
}

// Task is a one-shot scheduled function
type Task struct {
	id         string
	name       string
	timing     Timing
	resolution time.Duration

	// callback is the function to execute
	callback reflect.Value
	// params for the callback function
	params []reflect.Value

	state int32
	lock  sync.Mutex
	// stop is closed by Stop to release the waiting goroutine,
	// nil when the task is not waiting
	stop  chan struct{}
	owner Notifier
	done  *events.Emitter
	// err is the result of the callback
	err error
}

// NewTask creates a new task from spec
func NewTask(spec Spec, opts ...Option) (*Task, error) {
	o := newOptions(opts)

	callback, params, err := newCallback(spec.Func, spec.Args)
	if err != nil {
		return nil, errors.Trace(err)
	}

	timing, err := spec.timing()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = timing.Validate(o.resolution); err != nil {
		return nil, errors.Trace(err)
	}

	name := spec.Name
	if name == "" {
		name = filepath.Base(getFunctionName(spec.Func))
	}

	t := &Task{
		id:         guid.MustCreateHex(),
		name:       name,
		timing:     timing,
		resolution: o.resolution,
		callback:   callback,
		params:     params,
		state:      int32(Idle),
		owner:      o.notifier,
		done:       events.NewEmitter(),
	}

	metrics.IncrCounter(keyForTaskCreated, 1)
	logger.Tracef("status=created, id=%s, task=%q, timing=%q", t.id, t.name, t.timing)

	return t, nil
}

// newCallback validates the function and its arguments
func newCallback(fn interface{}, args interface{}) (reflect.Value, []reflect.Value, error) {
	if fn == nil {
		return reflect.Value{}, nil, errors.NotValidf("nil task function")
	}
	callback := reflect.ValueOf(fn)
	if callback.Kind() != reflect.Func {
		return reflect.Value{}, nil, errors.NotValidf("task function of type %T", fn)
	}
	if callback.IsNil() {
		return reflect.Value{}, nil, errors.NotValidf("nil task function")
	}

	typ := callback.Type()
	if typ.IsVariadic() || typ.NumIn() > 1 {
		return reflect.Value{}, nil, errors.NotValidf("task function %s", typ)
	}
	if typ.NumOut() > 1 || (typ.NumOut() == 1 && typ.Out(0) != errorType) {
		return reflect.Value{}, nil, errors.NotValidf("task function %s", typ)
	}

	if typ.NumIn() == 0 {
		if args != nil {
			return reflect.Value{}, nil, errors.NotValidf("arguments for task function %s", typ)
		}
		return callback, nil, nil
	}

	in := typ.In(0)
	if args == nil {
		return callback, []reflect.Value{reflect.Zero(in)}, nil
	}
	arg := reflect.ValueOf(args)
	if !arg.Type().AssignableTo(in) {
		return reflect.Value{}, nil, errors.NotValidf("argument of type %T for task function %s", args, typ)
	}
	return callback, []reflect.Value{arg}, nil
}

// for given function fn, get the name of function.
func getFunctionName(fn interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
}

// ID returns the unique ID of the task
func (t *Task) ID() string {
	return t.id
}

// Name returns the name of the task
func (t *Task) Name() string {
	return t.name
}

// Timing returns the timing of the task
func (t *Task) Timing() Timing {
	return t.timing
}

// State returns the current state of the task
func (t *Task) State() State {
	return State(atomic.LoadInt32(&t.state))
}

// IsRunning returns true if the task is waiting for its time,
// or executing the callback
func (t *Task) IsRunning() bool {
	return t.State() == Running
}

// IsDone returns true if the task has been already executed
func (t *Task) IsDone() bool {
	return t.State() == Done
}

// Err returns the error returned by the callback, or its recovered panic.
// It is nil until the task is done.
func (t *Task) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.err
}

func (t *Task) String() string {
	return fmt.Sprintf("%s@%s", t.name, t.id)
}

// OnDone subscribes fn to the completion of the task.
// If the task is already done, fn is called immediately.
// fn is called once.
func (t *Task) OnDone(fn func(*Task)) events.Subscription {
	t.lock.Lock()
	if t.State() == Done {
		t.lock.Unlock()
		fn(t)
		return doneSubscription(t.id)
	}
	// Done is set under the lock before the emit,
	// so the subscriber is always notified.
	// The emitter has no subscribers limit.
	sub, _ := t.done.Subscribe(func(...interface{}) { fn(t) }, 1)
	t.lock.Unlock()
	return sub
}

// doneSubscription is returned by OnDone for a task already done
type doneSubscription string

func (s doneSubscription) ID() string {
	return string(s)
}

func (s doneSubscription) Unsubscribe() {}

func (s doneSubscription) String() string {
	return "source=" + string(s) + ", subscription=done"
}

// Run starts the task timing.
// It is a no-op if the task is already running,
// and fails if the task is done.
func (t *Task) Run() error {
	t.lock.Lock()
	switch t.State() {
	case Running:
		t.lock.Unlock()
		return nil
	case Done:
		t.lock.Unlock()
		return AlreadyDonef("task %s", t.id)
	}

	atomic.StoreInt32(&t.state, int32(Running))

	if t.timing.Kind() == Absolute {
		now := time.Now()
		if t.timing.Reached(now) {
			t.lock.Unlock()
			if late := now.Sub(t.timing.Target()); late >= t.resolution {
				logger.Warningf("status=late, id=%s, task=%q, late=%s", t.id, t.name, late)
			}
			t.execute()
			return nil
		}
	}

	stop := make(chan struct{})
	t.stop = stop
	t.lock.Unlock()

	logger.Tracef("status=running, id=%s, task=%q, timing=%q, remaining=%s",
		t.id, t.name, t.timing, t.timing.Remaining(time.Now()))

	if t.timing.Kind() == Relative {
		go t.runAfter(stop)
	} else {
		go t.runAt(stop)
	}
	return nil
}

// Stop stops the task timing, and moves the running task back to Idle.
// It has no effect if the task is idle, done or already executing the callback.
func (t *Task) Stop() {
	t.lock.Lock()
	if t.stop == nil {
		t.lock.Unlock()
		return
	}
	close(t.stop)
	t.stop = nil
	atomic.StoreInt32(&t.state, int32(Idle))
	t.lock.Unlock()

	metrics.IncrCounter(keyForTaskStopped, 1)
	logger.Tracef("status=stopped, id=%s, task=%q", t.id, t.name)
}

// runAfter waits for the delay, unless stopped.
// A rerun starts waiting from the beginning.
func (t *Task) runAfter(stop chan struct{}) {
	timer := time.NewTimer(t.timing.Delay())
	defer timer.Stop()

	select {
	case <-stop:
		return
	case <-timer.C:
	}

	if t.claim(stop) {
		t.execute()
	}
}

// runAt polls the target once per resolution, unless stopped
func (t *Task) runAt(stop chan struct{}) {
	ticker := time.NewTicker(t.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.timing.Reached(time.Now()) {
				if t.claim(stop) {
					t.execute()
				}
				return
			}
		}
	}
}

// claim reserves the callback execution for the run identified by stop,
// after that Stop has no effect
func (t *Task) claim(stop chan struct{}) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.stop != stop || t.State() != Running {
		return false
	}
	t.stop = nil
	return true
}

// execute calls the callback, marks the task as Done and notifies the owner
func (t *Task) execute() {
	started := time.Now()
	logger.Infof("status=executing, id=%s, task=%q, timing=%q", t.id, t.name, t.timing)

	err := t.call()
	if err != nil {
		metrics.IncrCounter(keyForTaskFailed, 1)
		logger.Errorf("status=failed, id=%s, task=%q, err=[%v]", t.id, t.name, err)
	} else {
		metrics.IncrCounter(keyForTaskExecuted, 1)
	}
	metrics.MeasureSince(keyForTaskCallback, started)

	t.lock.Lock()
	t.err = err
	atomic.StoreInt32(&t.state, int32(Done))
	owner := t.owner
	t.lock.Unlock()

	logger.Tracef("status=done, id=%s, task=%q, elapsed=%s", t.id, t.name, time.Since(started))

	if owner != nil {
		owner.TaskCompleted(t)
	}
	t.done.Emit(t)
}

// call invokes the callback, the panic is recovered and returned as error
func (t *Task) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("status=panic, id=%s, task=%q, stack=%s", t.id, t.name, debug.Stack())
			err = errors.Errorf("panic: %v", r)
		}
	}()

	out := t.callback.Call(t.params)
	if len(out) == 1 && !out[0].IsNil() {
		err = out[0].Interface().(error)
	}
	return
}

// bind sets the owner of the task
func (t *Task) bind(owner Notifier) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.owner != nil && t.owner != owner {
		return errors.AlreadyExistsf("task %s with another owner", t.id)
	}
	t.owner = owner
	return nil
}

// unbind resets the owner of the task
func (t *Task) unbind(owner Notifier) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.owner == owner {
		t.owner = nil
	}
}
