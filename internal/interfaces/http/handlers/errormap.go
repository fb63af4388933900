package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	vo "sokogate/internal/domain/subscription/valueobjects"
	apperrors "sokogate/internal/shared/errors"
	"sokogate/internal/shared/utils"
)

// respondError translates domain sentinels into API error responses. Errors
// already carrying an AppError pass through untouched.
func respondError(c *gin.Context, err error) {
	utils.ErrorResponseWithError(c, classify(err))
}

func classify(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}

	if qe, ok := subscription.AsQuotaExceeded(err); ok {
		return apperrors.NewUnprocessableError(
			fmt.Sprintf("preorder quota exceeded on %s dimension", qe.Dimension),
			fmt.Sprintf("remaining: %d", qe.Remaining),
		)
	}

	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound),
		errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, subscription.ErrLedgerEntryNotFound),
		errors.Is(err, preorder.ErrPreOrderNotFound),
		errors.Is(err, preorder.ErrProductNotFound),
		errors.Is(err, customer.ErrCustomerNotFound):
		return apperrors.NewNotFoundError(err.Error())

	case errors.Is(err, subscription.ErrDuplicateSubscription):
		return apperrors.NewConflictError(err.Error())

	case errors.Is(err, subscription.ErrPaymentFailed):
		return apperrors.NewPaymentRequiredError("payment was declined", err.Error())

	case errors.Is(err, subscription.ErrSubscriptionNotActive),
		errors.Is(err, preorder.ErrProductNotEligible),
		errors.Is(err, preorder.ErrOutsideAvailabilityWindow),
		errors.Is(err, preorder.ErrInsufficientInventory):
		return apperrors.NewUnprocessableError(err.Error())

	case errors.Is(err, vo.ErrInvalidBillingCycle):
		return apperrors.NewValidationError(err.Error())
	}

	return err
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid %s: %s", name, raw))
	}
	return uint(id), nil
}
