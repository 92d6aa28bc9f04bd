package handler

import (
	"context"
	"net/http"

	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/go-chi/chi/v5"
)

// ProfileService is the profile logic the profile handler serves.
type ProfileService interface {
	Me(ctx context.Context, userID string) (*model.Profile, error)
	ByUser(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	Upsert(ctx context.Context, userID string, req model.ProfileRequest) (*model.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
	AddExperience(ctx context.Context, userID string, req model.ExperienceRequest) (*model.Profile, error)
	DeleteExperience(ctx context.Context, userID, expID string) (*model.Profile, error)
	AddEducation(ctx context.Context, userID string, req model.EducationRequest) (*model.Profile, error)
	DeleteEducation(ctx context.Context, userID, eduID string) (*model.Profile, error)
}

// ProfileHandler handles HTTP requests for developer profiles.
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleMe handles GET /api/profile/me requests.
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	respond(w, r)(h.service.Me(r.Context(), userID))
}

// HandleUpsert handles POST /api/profile requests.
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respond(w, r)(h.service.Upsert(r.Context(), userID, req))
}

// HandleList handles GET /api/profile requests.
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleByUser handles GET /api/profile/user/{user_id} requests.
func (h *ProfileHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	respond(w, r)(h.service.ByUser(r.Context(), chi.URLParam(r, "user_id")))
}

// HandleDeleteAccount handles DELETE /api/profile requests.
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("User deleted."))
}

// HandleAddExperience handles PUT /api/profile/experience requests.
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respond(w, r)(h.service.AddExperience(r.Context(), userID, req))
}

// HandleDeleteExperience handles DELETE /api/profile/experience/{exp_id} requests.
func (h *ProfileHandler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	respond(w, r)(h.service.DeleteExperience(r.Context(), userID, chi.URLParam(r, "exp_id")))
}

// HandleAddEducation handles PUT /api/profile/education requests.
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.EducationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respond(w, r)(h.service.AddEducation(r.Context(), userID, req))
}

// HandleDeleteEducation handles DELETE /api/profile/education/{edu_id} requests.
func (h *ProfileHandler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	respond(w, r)(h.service.DeleteEducation(r.Context(), userID, chi.URLParam(r, "edu_id")))
}

// callerID returns the guarded caller's user id, answering 401 when the
// route was mounted without the guard.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse(middleware.MsgMissingToken))
		return "", false
	}
	return id.UserID, true
}

func respond(w http.ResponseWriter, r *http.Request) func(*model.Profile, error) {
	return func(p *model.Profile, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
