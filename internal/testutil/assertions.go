package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/ralph-loop/internal/tasks"
)

// AssertTasksEqual asserts that two task slices are equal field by field.
func AssertTasksEqual(t *testing.T, expected, actual []tasks.Task) {
	t.Helper()

	require.Len(t, actual, len(expected), "task count mismatch")

	for i := range expected {
		assert.Equal(t, expected[i].Category, actual[i].Category,
			"task[%d].Category mismatch", i)
		assert.Equal(t, expected[i].Description, actual[i].Description,
			"task[%d].Description mismatch", i)
		assert.Equal(t, expected[i].Steps, actual[i].Steps,
			"task[%d].Steps mismatch", i)
		assert.Equal(t, expected[i].Passes, actual[i].Passes,
			"task[%d].Passes mismatch", i)
	}
}

// AssertTasksProgress asserts the number of passing tasks and the total.
func AssertTasksProgress(t *testing.T, list []tasks.Task, expectedCompleted, expectedTotal int) {
	t.Helper()

	completed, total := tasks.Progress(list)
	assert.Equal(t, expectedCompleted, completed, "completed task count mismatch")
	assert.Equal(t, expectedTotal, total, "total task count mismatch")
}
