package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
)

type createTodoInput struct {
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	State       models.TodoState  `json:"state"`
	Visibility  models.Visibility `json:"visibility"`
}

// ListTodos godoc
// @Summary List a user's todos
// @Tags Todos
// @Produce json
// @Param user_id path string true "Owner id"
// @Success 200 {array} models.Todo
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/todos/{user_id} [get]
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.GetTodosForUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, todos)
}

// CreateTodo godoc
// @Summary Create a todo
// @Tags Todos
// @Accept json
// @Produce json
// @Param body body createTodoInput true "New todo"
// @Success 200 {object} models.Todo
// @Failure 400 {object} utils.ErrorPayload "Missing fields or invalid state/visibility"
// @Failure 404 {object} utils.ErrorPayload "User not found"
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/todos [post]
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input createTodoInput
	if err := decodeJSON(r.Body, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserID == "" || input.Title == "" || input.State == "" || input.Visibility == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if !input.State.IsValid() {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid state")
		return
	}
	if !input.Visibility.IsValid() {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid visibility")
		return
	}

	todo := models.Todo{
		ID:          utils.NewID(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		State:       input.State,
		Visibility:  input.Visibility,
	}
	if err := h.store.CreateTodo(r.Context(), &todo); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			utils.ErrorResponse(w, http.StatusNotFound, "User not found")
			return
		}
		storeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, todo)
}

// UpdateTodo godoc
// @Summary Patch a todo
// @Description Only title, description, state and visibility can be changed.
// @Tags Todos
// @Accept json
// @Produce json
// @Param id path string true "Todo id"
// @Param body body models.TodoPatch true "Fields to change"
// @Success 200 {object} map[string]any
// @Failure 400 {object} utils.ErrorPayload "Invalid input"
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/todos/{id} [patch]
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch models.TodoPatch
	if err := decodeJSON(r.Body, &patch); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := patch.Validate(); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateTodo(r.Context(), id, patch); err != nil {
		storeError(w, r, err)
		return
	}

	resp := patch.Columns()
	resp["id"] = id
	utils.JSONResponse(w, http.StatusOK, resp)
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Tags Todos
// @Produce json
// @Param id path string true "Todo id"
// @Success 200 {object} successResponse
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/todos/{id} [delete]
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTodo(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, successResponse{Success: true})
}
