package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/billing/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

// BillingHandler exposes a manual trigger for the billing sweep. The
// scheduler runs the same use case on its interval.
type BillingHandler struct {
	runSweepUC *usecases.RunBillingSweepUseCase
	logger     logger.Interface
}

func NewBillingHandler(runSweepUC *usecases.RunBillingSweepUseCase) *BillingHandler {
	return &BillingHandler{
		runSweepUC: runSweepUC,
		logger:     logger.NewLogger(),
	}
}

func (h *BillingHandler) RunSweep(c *gin.Context) {
	result, err := h.runSweepUC.Execute(c.Request.Context(), usecases.RunBillingSweepCommand{
		Now: time.Now().UTC(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Billing sweep completed", gin.H{
		"processed":       result.Processed,
		"renewed":         result.Renewed,
		"marked_past_due": result.MarkedPastDue,
		"cancelled":       result.Cancelled,
	})
}
