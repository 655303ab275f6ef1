package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"community-service/internal/middleware"
	"community-service/internal/service"
	"community-service/pkg/apierror"
)

type GamificationHandler struct {
	service *service.GamificationService
}

func NewGamificationHandler(service *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{service: service}
}

func (h *GamificationHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Catalog(), nil)
}

func (h *GamificationHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "user_id is required", "", http.StatusBadRequest))
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}

// CheckBadges runs the award pass for the authenticated user. Checking
// someone else's badges is rejected outright.
func (h *GamificationHandler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	userID := chi.URLParam(r, "user_id")
	if userID != claims.UserID {
		writeError(w, apierror.New("FORBIDDEN", "cannot check badges for another user", userID, http.StatusForbidden))
		return
	}

	newly, err := h.service.CheckAndAwardBadges(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"new_achievements": newly}, nil)
}
