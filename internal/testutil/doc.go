// Package testutil provides shared test helpers for ralph-loop.
//
// # Fixtures
//
//   - SampleTasks(), SampleTasksPartiallyComplete(), SampleTasksAllComplete()
//   - SampleStream - a cursor-agent stream-json transcript
//
// # Environment Helpers
//
//   - WriteTasksFile(t, dir, tasks) - writes a task list and returns its path
//   - WriteTestFile(t, dir, name, content) - writes an arbitrary file
//   - WriteScript(t, dir, name, body) - writes an executable sh script
//
// # Assertions
//
//   - AssertTasksEqual(t, expected, actual)
//   - AssertTasksProgress(t, tasks, completed, total)
//
// # Timeouts
//
//   - AgentContext(t) - a context bounded by the test deadline
package testutil
