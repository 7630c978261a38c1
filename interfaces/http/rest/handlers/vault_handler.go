package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vault-backend/application/services"
	"vault-backend/domain/core/entities"
	"vault-backend/pkg/auth"
	"vault-backend/pkg/common"
	pkgerrors "vault-backend/pkg/errors"
	"vault-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// VaultHandler handles the context and project HTTP endpoints
type VaultHandler struct {
	service *services.VaultService
	logger  *zap.Logger
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(service *services.VaultService, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitContextRequest is the body for POST /context
type SubmitContextRequest struct {
	Project string `json:"project" validate:"required,excludesall=0x2C"`
	Content string `json:"content" validate:"required"`
}

// AddProjectRequest is the body for POST /projects
type AddProjectRequest struct {
	Project string `json:"project" validate:"required,max=100,excludesall=0x2C"`
}

// contextResponse is one entry as rendered to clients; the record identifier
// is stripped, only the semantic fields go out
type contextResponse struct {
	User    string `json:"user"`
	Project string `json:"project"`
	Content string `json:"content"`
}

// userResponse is a registry record as rendered to clients
type userResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Projects  []string `json:"projects"`
	CreatedAt int64    `json:"createdAt"`
}

// GetContext handles GET /context?p=<project>.
// Results are unordered; a just-submitted entry may lag behind the index.
func (h *VaultHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("p")
	if project == "" {
		common.RespondEmptyObject(w)
		return
	}

	entries, err := h.service.GetContextByProject(r.Context(), project)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response := make([]contextResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, contextResponse{
			User:    entry.User(),
			Project: entry.Project(),
			Content: entry.Content(),
		})
	}
	common.RespondJSON(w, http.StatusOK, response)
}

// SubmitContext handles POST /context
func (h *VaultHandler) SubmitContext(w http.ResponseWriter, r *http.Request) {
	var req SubmitContextRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	entry, err := h.service.SubmitContext(r.Context(), user.UserID, req.Project, req.Content)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			common.RespondEmptyObject(w)
			return
		}
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": entry.ID()})
}

// ListProjects handles GET /projects
func (h *VaultHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	projects, err := h.service.ListUserProjects(r.Context(), user.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, projects)
}

// AddProject handles POST /projects. An unknown caller identity yields the
// neutral empty object: registry records are established by the identity
// provider, not by this endpoint.
func (h *VaultHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	var req AddProjectRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	updated, err := h.service.AddProject(r.Context(), user.UserID, req.Project)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			common.RespondEmptyObject(w)
			return
		}
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toUserResponse(updated))
}

// GetUser handles GET /user
func (h *VaultHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	profile, err := h.service.GetUserProfile(r.Context(), user.UserID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			common.RespondEmptyObject(w)
			return
		}
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toUserResponse(profile))
}

// respondError maps service errors onto the wire. Absence of data never
// reaches here; only validation failures and storage trouble do.
func (h *VaultHandler) respondError(w http.ResponseWriter, err error) {
	status := pkgerrors.HTTPStatusFor(err)
	code := "INTERNAL_ERROR"
	message := "internal error"

	switch {
	case pkgerrors.IsValidation(err):
		code = "VALIDATION_ERROR"
		message = err.Error()
	case pkgerrors.IsUnavailable(err):
		code = "STORAGE_UNAVAILABLE"
		message = "storage unavailable, retry later"
	case pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict):
		code = "CONFLICT"
		message = "concurrent modification, retry the request"
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
	}

	common.RespondError(w, status, code, message)
}

func toUserResponse(user *entities.User) userResponse {
	return userResponse{
		ID:        user.ID(),
		Name:      user.Name(),
		Projects:  user.Projects(),
		CreatedAt: user.CreatedAt().Unix(),
	}
}
