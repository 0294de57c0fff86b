package handler

import (
	"net/http"

	"github.com/msomdec/todo-api/internal/service"
)

// TaskHandler serves the owner-scoped /todos endpoints. Every handler sits
// behind RequireAuth and acts only on the caller's own tasks.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
}

// HandleCreate creates a task owned by the caller.
// POST /todos
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	task, err := h.tasks.Create(r.Context(), UserIDFromContext(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, r, err, "Error creating task")
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// HandleList returns every task owned by the caller.
// GET /todos
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching tasks")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// HandleGet returns one of the caller's tasks.
// GET /todos/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Get(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching task")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleUpdate replaces every editable field of one of the caller's tasks.
// PUT /todos/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	task, err := h.tasks.Update(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, r, err, "Error updating task")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleUpdateStatus changes only the status of one of the caller's tasks.
// PATCH /todos/{id}
// Request: {"status":"done"}
func (h *TaskHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err, "Error updating task status")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleDelete removes one of the caller's tasks.
// DELETE /todos/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Error deleting task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
