package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"community-service/internal/model"
)

func TestWriteError_RefreshFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	// Unknown, expired and reused tokens all present the same way; only
	// the server-side logs tell them apart.
	bodies := map[string]string{}
	for name, err := range map[string]error{
		"not found": model.ErrTokenNotFound,
		"expired":   model.ErrTokenExpired,
		"revoked":   model.ErrTokenRevoked,
	} {
		rec := httptest.NewRecorder()
		writeError(rec, err)

		require.Equal(t, http.StatusUnauthorized, rec.Code, name)

		var resp model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), name)
		require.False(t, resp.Success, name)
		require.NotNil(t, resp.Error, name)
		require.Equal(t, "UNAUTHORIZED", resp.Error.Code, name)

		bodies[name] = rec.Body.String()
	}

	require.Equal(t, bodies["not found"], bodies["expired"])
	require.Equal(t, bodies["expired"], bodies["revoked"])
}

func TestWriteError_UnknownErrorsAre500(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, errors.New("connection reset"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
