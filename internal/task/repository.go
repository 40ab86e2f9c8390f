package task

import "context"

type ListFilter struct {
	UserID string
	// Completed restricts the result to tasks in that state when set.
	Completed *bool
}

// Repository stores tasks. List returns newest first.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter ListFilter) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}
