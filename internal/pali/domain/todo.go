package domain

import "time"

const (
	DefaultTodoPriority = 2
	MinTodoPriority     = 1
	MaxTodoPriority     = 5
)

type Todo struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
	Priority    int
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoInput carries the fields accepted when creating a todo.
type TodoInput struct {
	Title       string
	Description *string
	Priority    *int
	DueDate     *time.Time
}

// TodoPatch carries a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
	DueDate     *time.Time
}

// Apply merges p into t and reports whether anything changed.
func (p TodoPatch) Apply(t *Todo) bool {
	changed := false
	if p.Title != nil {
		t.Title = *p.Title
		changed = true
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
		changed = true
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
		changed = true
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
		changed = true
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
		changed = true
	}
	return changed
}
