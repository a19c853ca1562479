package tasks

// Notifier is the owner of a task, informed when the task is done.
// Each task holds its own owner, so multiple managers never share
// a completion path.
// The owner is compared by value, so it must be a comparable type,
// usually a pointer.
type Notifier interface {
	// TaskCompleted is called once, after the task moved to Done
	// and outside of any task lock
	TaskCompleted(t *Task)
}
