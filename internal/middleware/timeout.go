package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"community-service/internal/model"
)

// Timeout cuts off handlers that run past the deadline and answers with
// the standard error envelope. http.TimeoutHandler wants the body as a
// string, so it is rendered once up front.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "Request took too long to process",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
