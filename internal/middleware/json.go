package middleware

import (
	"encoding/json"
	"net/http"

	"community-service/internal/model"
)

// writeJSON renders the standard error envelope for responses produced
// inside the middleware chain, before a handler ever runs.
func writeJSON(w http.ResponseWriter, status int, resp model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
