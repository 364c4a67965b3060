package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

// TodosHandler serves the todo collection. Any active key may use it.
type TodosHandler struct {
	TodoService *service.TodoService
}

// HandleCreate handles POST /todos
//
//	@Summary		Create todo
//	@Tags			Todos
//	@Accept			json
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			request	body		palisdk.CreateTodoRequest		true	"title is required; priority 1-5, default 2"
//	@Success		200		{object}	palisdk.Envelope[palisdk.Todo]	"created todo"
//	@Failure		400		{object}	palisdk.Envelope[any]			"invalid request"
//	@Failure		401		{object}	palisdk.Envelope[any]			"missing or invalid API key"
//	@Router			/todos [post].
func (h *TodosHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req palisdk.CreateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.TodoService.Create(r.Context(), domain.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     timePtr(req.DueDate),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoView(todo))
}

// HandleList handles GET /todos
//
//	@Summary		List todos
//	@Description	Ordered by priority then creation time, both descending. An unparsable completed value is ignored.
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			completed	query		bool								false	"filter by completion"
//	@Success		200			{object}	palisdk.Envelope[[]palisdk.Todo]	"todos"
//	@Failure		401			{object}	palisdk.Envelope[any]				"missing or invalid API key"
//	@Router			/todos [get].
func (h *TodosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var completed *bool
	if v, err := strconv.ParseBool(r.URL.Query().Get("completed")); err == nil {
		completed = &v
	}

	todos, err := h.TodoService.List(r.Context(), completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoViews(todos))
}

// HandleSearch handles GET /todos/search
//
//	@Summary		Search todos
//	@Description	Case-insensitive substring match on title and description.
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			q	query		string								true	"search text"
//	@Success		200	{object}	palisdk.Envelope[[]palisdk.Todo]	"matching todos"
//	@Failure		400	{object}	palisdk.Envelope[any]				"missing query"
//	@Failure		401	{object}	palisdk.Envelope[any]				"missing or invalid API key"
//	@Router			/todos/search [get].
func (h *TodosHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("q") {
		httpx.WriteError(w, http.StatusBadRequest, "Missing 'q' query parameter")
		return
	}

	todos, err := h.TodoService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoViews(todos))
}

// HandleResolve handles GET /todos/resolve/{prefix}
//
//	@Summary		Resolve todo ID prefix
//	@Description	Expands a prefix of at least 4 characters into the single todo ID it matches.
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			prefix	path		string									true	"ID prefix"
//	@Success		200		{object}	palisdk.Envelope[palisdk.IDResolution]	"full ID"
//	@Failure		400		{object}	palisdk.Envelope[any]					"prefix too short"
//	@Failure		404		{object}	palisdk.Envelope[any]					"no match"
//	@Failure		409		{object}	palisdk.Envelope[any]					"ambiguous prefix"
//	@Router			/todos/resolve/{prefix} [get].
func (h *TodosHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id, err := h.TodoService.ResolveID(r.Context(), r.PathValue("prefix"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, palisdk.IDResolution{FullID: id})
}

// HandleGet handles GET /todos/{id}
//
//	@Summary		Get todo
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			id	path		string							true	"todo ID"
//	@Success		200	{object}	palisdk.Envelope[palisdk.Todo]	"todo"
//	@Failure		401	{object}	palisdk.Envelope[any]			"missing or invalid API key"
//	@Failure		404	{object}	palisdk.Envelope[any]			"not found"
//	@Router			/todos/{id} [get].
func (h *TodosHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	todo, err := h.TodoService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoView(todo))
}

// HandleUpdate handles PUT /todos/{id}
//
//	@Summary		Update todo
//	@Description	Only fields present in the body change.
//	@Tags			Todos
//	@Accept			json
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			id		path		string							true	"todo ID"
//	@Param			request	body		palisdk.UpdateTodoRequest		true	"fields to change"
//	@Success		200		{object}	palisdk.Envelope[palisdk.Todo]	"updated todo"
//	@Failure		400		{object}	palisdk.Envelope[any]			"invalid request"
//	@Failure		401		{object}	palisdk.Envelope[any]			"missing or invalid API key"
//	@Failure		404		{object}	palisdk.Envelope[any]			"not found"
//	@Router			/todos/{id} [put].
func (h *TodosHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req palisdk.UpdateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.TodoService.Update(r.Context(), r.PathValue("id"), domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     timePtr(req.DueDate),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoView(todo))
}

// HandleToggle handles PATCH /todos/{id}/toggle
//
//	@Summary		Toggle todo completion
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			id	path		string							true	"todo ID"
//	@Success		200	{object}	palisdk.Envelope[palisdk.Todo]	"updated todo"
//	@Failure		401	{object}	palisdk.Envelope[any]			"missing or invalid API key"
//	@Failure		404	{object}	palisdk.Envelope[any]			"not found"
//	@Router			/todos/{id}/toggle [patch].
func (h *TodosHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	todo, err := h.TodoService.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, todoView(todo))
}

// HandleDelete handles DELETE /todos/{id}
//
//	@Summary		Delete todo
//	@Tags			Todos
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			id	path		string					true	"todo ID"
//	@Success		200	{object}	palisdk.Envelope[any]	"deleted"
//	@Failure		401	{object}	palisdk.Envelope[any]	"missing or invalid API key"
//	@Failure		404	{object}	palisdk.Envelope[any]	"not found"
//	@Router			/todos/{id} [delete].
func (h *TodosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.TodoService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, nil)
}
