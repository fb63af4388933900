package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/utils"
)

func respondErrorRecorded(t *testing.T, err error) (int, utils.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, err)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

// ============================================================================
// respondError
// ============================================================================

func TestRespondError_QuotaExceeded(t *testing.T) {
	err := subscription.NewQuotaExceededError(subscription.DimensionValue, 30000)

	status, body := respondErrorRecorded(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "unprocessable", body.Error.Type)
	assert.Contains(t, body.Error.Message, "value dimension")
	assert.Contains(t, body.Error.Details, "30000")
}

func TestRespondError_NotFoundSentinels(t *testing.T) {
	for _, err := range []error{
		subscription.ErrSubscriptionNotFound,
		subscription.ErrPlanNotFound,
		preorder.ErrPreOrderNotFound,
		preorder.ErrProductNotFound,
	} {
		status, body := respondErrorRecorded(t, err)
		assert.Equal(t, http.StatusNotFound, status, "sentinel %v", err)
		require.NotNil(t, body.Error)
		assert.Equal(t, "not_found", body.Error.Type)
	}
}

func TestRespondError_DuplicateSubscription(t *testing.T) {
	status, body := respondErrorRecorded(t, subscription.ErrDuplicateSubscription)

	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "conflict", body.Error.Type)
}

func TestRespondError_PaymentFailed(t *testing.T) {
	status, body := respondErrorRecorded(t, subscription.ErrPaymentFailed)

	assert.Equal(t, http.StatusPaymentRequired, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "payment_required", body.Error.Type)
}

func TestRespondError_AdmissionRejections(t *testing.T) {
	for _, err := range []error{
		subscription.ErrSubscriptionNotActive,
		preorder.ErrProductNotEligible,
		preorder.ErrOutsideAvailabilityWindow,
		preorder.ErrInsufficientInventory,
	} {
		status, _ := respondErrorRecorded(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, status, "sentinel %v", err)
	}
}

func TestRespondError_UnclassifiedErrorIsOpaque(t *testing.T) {
	status, body := respondErrorRecorded(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.NotContains(t, body.Error.Message, "pq:", "internal details never leak")
}
