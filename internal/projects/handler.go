package projects

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Pagination limits for project listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Handler handles HTTP requests for the projects module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new projects handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the projects module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/members/{userID}", h.AddMember)
		r.Delete("/{id}/members/{userID}", h.RemoveMember)
	})
}

// CreateRequest represents the request body for creating a project.
type CreateRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" validate:"omitempty,oneof=planning active on_hold completed archived"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}

// UpdateRequest represents the request body for updating a project.
type UpdateRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" validate:"required,oneof=planning active on_hold completed archived"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high critical"`
}

// Create handles POST /projects request.
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

	project, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: httputil.GetUserID(r.Context()),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, project)
}

// Get handles GET /projects/{id} request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, project)
}

// List handles GET /projects request.
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

	if status := r.URL.Query().Get("status"); status != "" {
		parsed := domain.ProjectStatus(status)
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

	if createdBy := r.URL.Query().Get("created_by"); createdBy != "" {
		filter.CreatedBy = &createdBy
	}

	if memberID := r.URL.Query().Get("member_id"); memberID != "" {
		filter.MemberID = &memberID
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

// Update handles PUT /projects/{id} request. Only the project creator or an
// administrator may change a project.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.creatorOrAdmin(w, r, id) {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	project, err := h.service.Update(r.Context(), id, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id} request.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.creatorOrAdmin(w, r, id) {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /projects/{id}/members/{userID} request.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.creatorOrAdmin(w, r, id) {
		return
	}

	project, err := h.service.AddMember(r.Context(), id, chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, project)
}

// RemoveMember handles DELETE /projects/{id}/members/{userID} request.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.creatorOrAdmin(w, r, id) {
		return
	}

	project, err := h.service.RemoveMember(r.Context(), id, chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, project)
}

// creatorOrAdmin authorizes project mutations for the creator or an
// administrator. Writes the error response itself and reports the verdict.
func (h *Handler) creatorOrAdmin(w http.ResponseWriter, r *http.Request, id string) bool {
	project, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(r, w, err)
		return false
	}

	if project.CreatedByID == httputil.GetUserID(r.Context()) {
		return true
	}
	if httputil.GetRole(r.Context()).HasPermission(domain.RoleAdmin) {
		return true
	}

	httputil.Error(w, http.StatusForbidden, "insufficient permissions")
	return false
}

var serviceErrorMappings = []httputil.ErrorMapping{
	{Error: ErrProjectNotFound, Status: http.StatusNotFound},
	{Error: ErrMemberNotFound, Status: http.StatusNotFound},
	{Error: ErrAlreadyMember, Status: http.StatusConflict},
	{Error: ErrNotMember, Status: http.StatusConflict},
	{Error: ErrInvalidDateRange, Status: http.StatusBadRequest},
	{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
	{Error: ErrInvalidPriority, Status: http.StatusBadRequest},
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, serviceErrorMappings)
}
