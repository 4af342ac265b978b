package tasks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Pagination limits for task listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Handler handles HTTP requests for the tasks module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new tasks handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the tasks module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})
}

// CreateRequest represents the request body for creating a task.
type CreateRequest struct {
	ProjectID    *string    `json:"project_id"`
	AssignedToID *string    `json:"assigned_to_id"`
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Status       string     `json:"status" validate:"omitempty,oneof=todo in_progress in_review done"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateRequest represents the request body for updating a task.
type UpdateRequest struct {
	ProjectID    *string    `json:"project_id"`
	AssignedToID *string    `json:"assigned_to_id"`
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Status       string     `json:"status" validate:"required,oneof=todo in_progress in_review done"`
	Priority     string     `json:"priority" validate:"required,oneof=low medium high critical"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateStatusRequest represents the request body for moving a task through
// the workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress in_review done"`
}

// Create handles POST /tasks request.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), CreateInput{
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.TaskStatus(req.Status),
		Priority:     domain.Priority(req.Priority),
		DueDate:      req.DueDate,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, task)
}

// Get handles GET /tasks/{id} request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, task)
}

// List handles GET /tasks request.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParsePagination(r, DefaultPageSize, MaxPageSize)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := ListFilter{
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}

	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		filter.ProjectID = &projectID
	}

	if assignedTo := r.URL.Query().Get("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}

	if status := r.URL.Query().Get("status"); status != "" {
		parsed := domain.TaskStatus(status)
		if !parsed.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = &parsed
	}

	if priority := r.URL.Query().Get("priority"); priority != "" {
		parsed := domain.Priority(priority)
		if !parsed.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid priority filter")
			return
		}
		filter.Priority = &parsed
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, httputil.PaginatedResponse{
		Items:    list,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Update handles PUT /tasks/{id} request.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.TaskStatus(req.Status),
		Priority:     domain.Priority(req.Priority),
		DueDate:      req.DueDate,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, task)
}

// UpdateStatus handles PATCH /tasks/{id}/status request.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.TaskStatus(req.Status))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id} request.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var serviceErrorMappings = []httputil.ErrorMapping{
	{Error: ErrTaskNotFound, Status: http.StatusNotFound},
	{Error: ErrProjectNotFound, Status: http.StatusBadRequest},
	{Error: ErrAssigneeNotFound, Status: http.StatusBadRequest},
	{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
	{Error: ErrInvalidPriority, Status: http.StatusBadRequest},
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, serviceErrorMappings)
}
