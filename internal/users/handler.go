package users

import (
	"encoding/json"
	"net/http"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/identity/password"
	"github.com/avelius/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Pagination limits for user listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Handler handles HTTP requests for the users module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers routes available to any authenticated user.
// Per-object authorization (self or admin) happens inside the handlers.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}", h.Get)
	r.Put("/users/{id}", h.UpdateProfile)
	r.Put("/users/{id}/password", h.ChangePassword)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.List)
	r.Delete("/users/{id}", h.Delete)
	r.Put("/users/{id}/role", h.ChangeRole)
	r.Put("/users/{id}/status", h.SetActive)
}

// UpdateProfileRequest represents the request body for updating a profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// ChangePasswordRequest represents the request body for changing a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangeRoleRequest represents the request body for assigning a role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// SetActiveRequest represents the request body for changing account status.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// List handles GET /users request (admin only).
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

	if role := r.URL.Query().Get("role"); role != "" {
		parsed := domain.Role(role)
		if !parsed.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid role filter")
			return
		}
		filter.Role = &parsed
	}

	if active := r.URL.Query().Get("is_active"); active != "" {
		if active != "true" && active != "false" {
			httputil.Error(w, http.StatusBadRequest, "is_active must be true or false")
			return
		}
		isActive := active == "true"
		filter.IsActive = &isActive
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

// Get handles GET /users/{id} request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.selfOrAdmin(w, r, id) {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /users/{id} request.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.selfOrAdmin(w, r, id) {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// ChangePassword handles PUT /users/{id}/password request. Only the account
// owner may change the password, admins included: an admin resets accounts
// through the status and role endpoints instead.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if httputil.GetUserID(r.Context()) != id {
		httputil.Error(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /users/{id} request (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actorID := httputil.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeRole handles PUT /users/{id}/role request (admin only).
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actorID := httputil.GetUserID(r.Context())

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.ChangeRole(r.Context(), actorID, id, domain.Role(req.Role))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// SetActive handles PUT /users/{id}/status request (admin only).
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actorID := httputil.GetUserID(r.Context())

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.SetActive(r.Context(), actorID, id, *req.IsActive)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// selfOrAdmin authorizes access to a user resource for the account owner or
// an administrator. Writes the error response itself and reports the verdict.
func (h *Handler) selfOrAdmin(w http.ResponseWriter, r *http.Request, id string) bool {
	if httputil.GetUserID(r.Context()) == id {
		return true
	}
	if httputil.GetRole(r.Context()).HasPermission(domain.RoleAdmin) {
		return true
	}
	httputil.Error(w, http.StatusForbidden, "insufficient permissions")
	return false
}

var serviceErrorMappings = []httputil.ErrorMapping{
	{Error: ErrUserNotFound, Status: http.StatusNotFound},
	{Error: ErrSelfAction, Status: http.StatusConflict},
	{Error: ErrInvalidCurrentPassword, Status: http.StatusBadRequest},
	{Error: ErrInvalidRole, Status: http.StatusBadRequest},
	{Error: password.ErrEmptyPassword, Status: http.StatusBadRequest},
	{Error: password.ErrPasswordTooLong, Status: http.StatusBadRequest},
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, serviceErrorMappings)
}
