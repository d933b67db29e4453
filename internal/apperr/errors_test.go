package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondAPIError(t *testing.T) {
	w, body := respond(t, NotFound("Project not found"))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Project not found", body["error"])
	require.Equal(t, "not_found", body["code"])
}

func TestRespondQuotaDetails(t *testing.T) {
	w, body := respond(t, QuotaExceeded("Contribution limit exceeded", 2))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "quota_exceeded", body["code"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 2, details["slotsRemaining"])
}

func TestRespondRecordNotFound(t *testing.T) {
	w, body := respond(t, gorm.ErrRecordNotFound)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "not_found", body["code"])
}

func TestRespondUnknownErrorIsOpaque(t *testing.T) {
	w, body := respond(t, errors.New("pq: connection reset"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal server error", body["error"])
	require.NotContains(t, body, "details")
}

func TestWrappedErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("vote transaction: %w", Forbidden("Access denied"))
	w, body := respond(t, wrapped)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "forbidden", body["code"])
}
