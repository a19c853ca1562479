// Package tasks is a one-shot task scheduling package which lets you run Go functions
// once, at a specific time or after a delay.
/*
	manager := tasks.NewManager()

	// Do task after 5 seconds
	manager.NewTask(tasks.Spec{Func: task, After: 5 * time.Second})

	// Do task with params at specific time
	at, _ := tasks.BuildDate(map[string]int{"hour": 23, "minute": 59})
	manager.NewTask(tasks.Spec{Func: taskWithParams, Args: "hello", At: at})

	// Be notified when a task is done, it is removed from the manager
	manager.On(tasks.EventCompleted, func(t *tasks.Task) {
		fmt.Printf("%s is done", t.Name())
	})

	// Start all the tasks
	manager.RunAll()

	// Stop the tasks, they can be started again
	manager.StopAll()

	// Stop and remove all the tasks
	manager.Clear()

Relative tasks wait on a timer which is released immediately by Stop.
Absolute tasks check the target once per resolution unit,
see DefaultResolution and WithResolution.
Each waiting task uses its own goroutine.
*/
package tasks
