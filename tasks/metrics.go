package tasks

var (
	keyForTaskCreated  = []string{"tasks", "created"}
	keyForTaskExecuted = []string{"tasks", "executed"}
	keyForTaskFailed   = []string{"tasks", "failed"}
	keyForTaskStopped  = []string{"tasks", "stopped"}
	keyForTaskCallback = []string{"tasks", "callback"}
	keyForRegistrySize = []string{"tasks", "registry", "size"}
)
