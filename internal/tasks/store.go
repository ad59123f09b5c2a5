// Package tasks reads the task list file that the agent works through.
//
// The file is owned by the agent: it may rewrite it (typically flipping a
// task's "passes" flag) between iterations, so every query re-reads it.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so errors match what the user sees in the file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Store provides read access to a task list file.
type Store struct {
	path string
}

// NewStore creates a Store for the task list at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the task list file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the task list file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ReadTasks reads and validates every task in the file. A single malformed
// record rejects the whole list.
func (s *Store) ReadTasks() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	return Parse(s.path, data)
}

// Parse decodes task list data. path is only used in error messages.
func Parse(path string, data []byte) ([]Task, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{
				Path:  path,
				Index: -1,
				Err:   fmt.Errorf("expected a list of tasks, got %s", typeErr.Value),
			}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if elems == nil {
		return nil, &SchemaError{Path: path, Index: -1, Err: errors.New("expected a list of tasks, got null")}
	}

	tasks := make([]Task, 0, len(elems))
	for i, elem := range elems {
		var rec record
		if err := json.Unmarshal(elem, &rec); err != nil {
			se := &SchemaError{Path: path, Index: i, Err: err}
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				se.Field = typeErr.Field
				if se.Field == "" {
					se.Err = fmt.Errorf("expected a task object, got %s", typeErr.Value)
				} else {
					se.Err = fmt.Errorf("expected %s, got %s", typeErr.Type, typeErr.Value)
				}
			}
			return nil, se
		}

		if err := validate.Struct(rec); err != nil {
			se := &SchemaError{Path: path, Index: i, Err: err}
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				se.Field = verrs[0].Field()
				se.Err = errors.New("required field is missing")
			}
			return nil, se
		}

		tasks = append(tasks, rec.task())
	}

	return tasks, nil
}

// CountIncomplete returns the number of tasks with passes == false.
func (s *Store) CountIncomplete() (int, error) {
	incomplete, err := s.Incomplete()
	if err != nil {
		return 0, err
	}
	return len(incomplete), nil
}

// CountComplete returns the number of tasks with passes == true.
func (s *Store) CountComplete() (int, error) {
	tasks, err := s.ReadTasks()
	if err != nil {
		return 0, err
	}
	completed, _ := Progress(tasks)
	return completed, nil
}

// Incomplete returns the tasks with passes == false, in file order.
func (s *Store) Incomplete() ([]Task, error) {
	tasks, err := s.ReadTasks()
	if err != nil {
		return nil, err
	}

	var incomplete []Task
	for _, t := range tasks {
		if !t.Passes {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, nil
}

// Progress returns the number of passing tasks and the total.
func Progress(tasks []Task) (completed, total int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Passes {
			completed++
		}
	}
	return completed, total
}
