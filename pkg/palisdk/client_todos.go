package palisdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func todoPath(id string) string { return "/todos/" + url.PathEscape(id) }

func (c *Client) CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	todo, err := do[Todo](ctx, c, http.MethodPost, "/todos", req, nil)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListTodos lists todos; a nil completed returns all of them.
func (c *Client) ListTodos(ctx context.Context, completed *bool) ([]Todo, error) {
	path := "/todos"
	if completed != nil {
		path += "?completed=" + strconv.FormatBool(*completed)
	}
	return do[[]Todo](ctx, c, http.MethodGet, path, nil, nil)
}

func (c *Client) SearchTodos(ctx context.Context, query string) ([]Todo, error) {
	return do[[]Todo](ctx, c, http.MethodGet, "/todos/search?q="+url.QueryEscape(query), nil, nil)
}

func (c *Client) GetTodo(ctx context.Context, id string) (*Todo, error) {
	todo, err := do[Todo](ctx, c, http.MethodGet, todoPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*Todo, error) {
	todo, err := do[Todo](ctx, c, http.MethodPut, todoPath(id), req, nil)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ToggleTodo(ctx context.Context, id string) (*Todo, error) {
	todo, err := do[Todo](ctx, c, http.MethodPatch, todoPath(id)+"/toggle", nil, nil)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, todoPath(id), nil, nil)
	return err
}

// ResolveTodoID expands a unique id prefix (at least 4 characters).
func (c *Client) ResolveTodoID(ctx context.Context, prefix string) (string, error) {
	res, err := do[IDResolution](ctx, c, http.MethodGet, "/todos/resolve/"+url.PathEscape(prefix), nil, nil)
	if err != nil {
		return "", err
	}
	return res.FullID, nil
}
