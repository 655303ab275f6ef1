package handler

import (
	"net/http"

	"community-service/internal/database"
)

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		writeSuccess(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"}, nil)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"status": "ok"}, nil)
}
