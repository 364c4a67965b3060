package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

// MinIDPrefixLength is the shortest prefix ResolveID accepts.
const MinIDPrefixLength = 4

// TodoService is the resource store gated by API keys.
type TodoService struct {
	Store     store.Store
	Validator *validator.Validate

	// Now defaults to time.Now.
	Now func() time.Time
}

type todoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=5"`
}

func (s *TodoService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Truncate(time.Second)
}

func (s *TodoService) validate(title, description *string, priority *int) error {
	v := s.Validator
	if v == nil {
		v = defaultValidator
	}
	if err := v.Struct(todoRequest{Title: title, Description: description, Priority: priority}); err != nil {
		return validationError(err)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func todoFailure(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTodoNotFound
	}
	return storeFailure(op, err)
}

// Create stores a new todo. Priority defaults to domain.DefaultTodoPriority.
func (s *TodoService) Create(ctx context.Context, in domain.TodoInput) (domain.Todo, error) {
	title := trimmed(&in.Title)
	if *title == "" {
		return domain.Todo{}, invalid("title is required")
	}
	if err := s.validate(title, in.Description, in.Priority); err != nil {
		return domain.Todo{}, err
	}

	now := s.now()
	todo := domain.Todo{
		ID:          uuid.NewString(),
		Title:       *title,
		Description: in.Description,
		Priority:    domain.DefaultTodoPriority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Priority != nil {
		todo.Priority = *in.Priority
	}

	if err := s.Store.Todos().CreateTodo(ctx, todo); err != nil {
		return domain.Todo{}, storeFailure("create todo", err)
	}

	slogx.FromContext(ctx).Debug("todo created", slog.String("todo_id", todo.ID))
	return todo, nil
}

// List returns todos, optionally filtered by completion.
func (s *TodoService) List(ctx context.Context, completed *bool) ([]domain.Todo, error) {
	todos, err := s.Store.Todos().ListTodos(ctx, completed)
	if err != nil {
		return nil, storeFailure("list todos", err)
	}
	return todos, nil
}

func (s *TodoService) Get(ctx context.Context, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().GetTodo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Todo{}, todoFailure("get todo", err)
	}
	return todo, nil
}

// Search matches q against titles and descriptions, ignoring case.
func (s *TodoService) Search(ctx context.Context, q string) ([]domain.Todo, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("search query is required")
	}
	todos, err := s.Store.Todos().SearchTodos(ctx, q)
	if err != nil {
		return nil, storeFailure("search todos", err)
	}
	return todos, nil
}

// Update applies a partial update. Fields left nil in patch are unchanged.
func (s *TodoService) Update(ctx context.Context, id string, patch domain.TodoPatch) (domain.Todo, error) {
	patch.Title = trimmed(patch.Title)
	if patch.Title != nil && *patch.Title == "" {
		return domain.Todo{}, invalid("title must not be empty")
	}
	if err := s.validate(patch.Title, patch.Description, patch.Priority); err != nil {
		return domain.Todo{}, err
	}

	return s.modify(ctx, "update todo", id, func(t *domain.Todo) bool {
		return patch.Apply(t)
	})
}

// Toggle flips the completed flag.
func (s *TodoService) Toggle(ctx context.Context, id string) (domain.Todo, error) {
	return s.modify(ctx, "toggle todo", id, func(t *domain.Todo) bool {
		t.Completed = !t.Completed
		return true
	})
}

// modify runs a read-merge-write of one todo inside a transaction.
func (s *TodoService) modify(ctx context.Context, op, id string, change func(*domain.Todo) bool) (domain.Todo, error) {
	var out domain.Todo
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		todo, err := tx.Todos().GetTodo(ctx, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if change(&todo) {
			todo.UpdatedAt = s.now()
			if err := tx.Todos().UpdateTodo(ctx, todo); err != nil {
				return err
			}
		}
		out = todo
		return nil
	})
	if err != nil {
		return domain.Todo{}, todoFailure(op, err)
	}
	return out, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Todos().DeleteTodo(ctx, strings.TrimSpace(id)); err != nil {
		return todoFailure("delete todo", err)
	}
	slogx.FromContext(ctx).Debug("todo deleted", slog.String("todo_id", id))
	return nil
}

// ResolveID expands a unique id prefix into the full todo id.
func (s *TodoService) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < MinIDPrefixLength {
		return "", invalid("ID prefix must be at least %d characters", MinIDPrefixLength)
	}

	ids, err := s.Store.Todos().FindTodoIDsByPrefix(ctx, prefix, 2)
	if err != nil {
		return "", storeFailure("resolve todo id", err)
	}
	switch len(ids) {
	case 0:
		return "", ErrTodoNotFound
	case 1:
		return ids[0], nil
	default:
		return "", ErrAmbiguousID
	}
}
