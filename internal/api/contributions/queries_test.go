package contributions

import (
	"errors"
	"testing"

	"collabcanvas-app/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func quotaDetails(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apperr.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "quota_exceeded", apiErr.Code)
	details, ok := apiErr.Details.(gin.H)
	require.True(t, ok)
	remaining, ok := details["slotsRemaining"].(int)
	require.True(t, ok)
	return remaining
}

func TestQuotaAllowsUpToCap(t *testing.T) {
	require.NoError(t, quotaError(0, 1))
	require.NoError(t, quotaError(9, 1))
	require.NoError(t, quotaError(0, 10))
}

func TestQuotaRejectsOverflowingBatch(t *testing.T) {
	// 9 existing leaves one slot: a batch of 2 must not be partially applied.
	err := quotaError(9, 2)
	require.Error(t, err)
	require.Equal(t, 1, quotaDetails(t, err))
}

func TestQuotaRejectsAtCap(t *testing.T) {
	err := quotaError(10, 1)
	require.Error(t, err)
	require.Equal(t, 0, quotaDetails(t, err))

	var apiErr *apperr.Error
	require.True(t, errors.As(err, &apiErr))
	require.Contains(t, apiErr.Message, "reached the contribution limit")
}
