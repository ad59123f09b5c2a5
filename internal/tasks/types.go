package tasks

// Task is one entry of the task list file. Tasks have no identifier; the
// position in the list is the only identity they have.
type Task struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Passes      bool     `json:"passes"`
}

// record is the wire shape of a task. Pointer fields let the validator
// tell a missing field apart from a zero value such as "passes": false.
type record struct {
	Category    *string   `json:"category" validate:"required"`
	Description *string   `json:"description" validate:"required"`
	Steps       []*string `json:"steps" validate:"required,dive,required"`
	Passes      *bool     `json:"passes" validate:"required"`
}

func (r record) task() Task {
	steps := make([]string, len(r.Steps))
	for i, step := range r.Steps {
		steps[i] = *step
	}
	return Task{
		Category:    *r.Category,
		Description: *r.Description,
		Steps:       steps,
		Passes:      *r.Passes,
	}
}
