package testutil

import "github.com/thruflo/ralph-loop/internal/tasks"

// SampleTasks returns three incomplete tasks.
// Returns a new slice each time to prevent test interference.
func SampleTasks() []tasks.Task {
	return []tasks.Task{
		{
			Category:    "setup",
			Description: "Create configuration file",
			Steps:       []string{"Create config directory", "Write default config"},
			Passes:      false,
		},
		{
			Category:    "feature",
			Description: "Implement main logic",
			Steps:       []string{"Implement core function", "Add error handling"},
			Passes:      false,
		},
		{
			Category:    "test",
			Description: "Add unit tests",
			Steps:       []string{"Write test cases", "Verify coverage"},
			Passes:      false,
		},
	}
}

// SampleTasksPartiallyComplete returns tasks with the first one passing.
func SampleTasksPartiallyComplete() []tasks.Task {
	list := SampleTasks()
	list[0].Passes = true
	return list
}

// SampleTasksAllComplete returns tasks that all pass.
func SampleTasksAllComplete() []tasks.Task {
	list := SampleTasks()
	for i := range list {
		list[i].Passes = true
	}
	return list
}

// SampleStream is a cursor-agent stream-json transcript with a stray
// non-JSON diagnostic line in the middle.
const SampleStream = `{"type":"system","subtype":"init","model":"composer-1"}
{"type":"assistant","message":{"content":[{"text":"Looking at "}]}}
{"type":"assistant","message":{"content":[{"text":"the tasks"}]}}
warning: telemetry disabled
{"type":"tool_call","subtype":"started","tool_call":{"readToolCall":{"args":{"path":".ralph/tasks_list.json"}}}}
{"type":"tool_call","subtype":"completed","tool_call":{"readToolCall":{"args":{"path":".ralph/tasks_list.json"},"result":{"success":{"totalLines":42}}}}}
{"type":"tool_call","subtype":"started","tool_call":{"writeToolCall":{"args":{"path":"main.go"}}}}
{"type":"tool_call","subtype":"completed","tool_call":{"writeToolCall":{"args":{"path":"main.go"},"result":{"success":{"linesCreated":12,"fileSize":2048}}}}}
{"type":"result","duration_ms":1500}
`
