package tool

import (
	"encoding/json"

	"github.com/kazz187/taskchat/internal/task"
)

// Result holds either a payload or an error, never both.
type Result[T any] struct {
	data T
	err  *Error
}

func Success[T any](data T) Result[T] {
	return Result[T]{data: data}
}

func Failure[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) OK() bool {
	return r.err == nil
}

func (r Result[T]) Data() T {
	return r.data
}

func (r Result[T]) Err() *Error {
	return r.err
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarshalJSON renders the {"success", "data" | "error"} envelope.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(envelope[T]{Success: false, Error: r.err.Msg})
	}
	return json.Marshal(envelope[T]{Success: true, Data: &r.data})
}

type TaskList struct {
	Tasks []*task.Task `json:"tasks"`
	Count int          `json:"count"`
}

type TaskPayload struct {
	Task *task.Task `json:"task"`
}

type Deleted struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}
