package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/jmoiron/sqlx"
)

const todoColumns = `id, title, description, completed, priority, due_date, created_at, updated_at`

const todoOrder = ` ORDER BY priority DESC, created_at DESC, id DESC`

type todoRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Completed   int64          `db:"completed"`
	Priority    int64          `db:"priority"`
	DueDate     sql.NullInt64  `db:"due_date"`
	CreatedAt   int64          `db:"created_at"`
	UpdatedAt   int64          `db:"updated_at"`
}

func encodeTodo(t domain.Todo) todoRow {
	return todoRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: encodeOptionalString(t.Description),
		Completed:   encodeBool(t.Completed),
		Priority:    int64(t.Priority),
		DueDate:     encodeOptionalTime(t.DueDate),
		CreatedAt:   encodeTime(t.CreatedAt),
		UpdatedAt:   encodeTime(t.UpdatedAt),
	}
}

func (r todoRow) decode() domain.Todo {
	return domain.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: decodeOptionalString(r.Description),
		Completed:   decodeBool(r.Completed),
		Priority:    int(r.Priority),
		DueDate:     decodeOptionalTime(r.DueDate),
		CreatedAt:   decodeTime(r.CreatedAt),
		UpdatedAt:   decodeTime(r.UpdatedAt),
	}
}

func decodeTodos(rows []todoRow) []domain.Todo {
	out := make([]domain.Todo, len(rows))
	for i, row := range rows {
		out[i] = row.decode()
	}
	return out
}

type todosRepo struct {
	q       sqlx.ExtContext
	dialect Dialect
}

func (r *todosRepo) CreateTodo(ctx context.Context, t domain.Todo) error {
	row := encodeTodo(t)
	_, err := r.q.ExecContext(ctx,
		r.q.Rebind(`INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		row.ID, row.Title, row.Description, row.Completed, row.Priority, row.DueDate, row.CreatedAt, row.UpdatedAt,
	)
	return r.dialect.mapWriteError(err)
}

func (r *todosRepo) GetTodo(ctx context.Context, id string) (domain.Todo, error) {
	var row todoRow
	err := sqlx.GetContext(ctx, r.q, &row,
		r.q.Rebind(`SELECT `+todoColumns+` FROM todos WHERE id = ?`), id)
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return row.decode(), nil
}

func (r *todosRepo) ListTodos(ctx context.Context, completed *bool) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	var args []any
	if completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, encodeBool(*completed))
	}

	var rows []todoRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query+todoOrder), args...); err != nil {
		return nil, err
	}
	return decodeTodos(rows), nil
}

func (r *todosRepo) SearchTodos(ctx context.Context, query string) ([]domain.Todo, error) {
	pattern := containsPattern(query)

	var rows []todoRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(`SELECT `+todoColumns+` FROM todos
WHERE LOWER(title) LIKE ? ESCAPE '\'
   OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'`+todoOrder),
		pattern, pattern,
	)
	if err != nil {
		return nil, err
	}
	return decodeTodos(rows), nil
}

func (r *todosRepo) UpdateTodo(ctx context.Context, t domain.Todo) error {
	row := encodeTodo(t)
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`UPDATE todos
SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ?
WHERE id = ?`),
		row.Title, row.Description, row.Completed, row.Priority, row.DueDate, row.UpdatedAt, row.ID,
	)
	return exactlyOne(res, err)
}

func (r *todosRepo) DeleteTodo(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	return exactlyOne(res, err)
}

func (r *todosRepo) FindTodoIDsByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.q, &ids,
		r.q.Rebind(`SELECT id FROM todos WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT ?`),
		prefixPattern(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
