package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/subscription/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

type SubscriptionHandler struct {
	createSubscriptionUC *usecases.CreateSubscriptionUseCase
	getSubscriptionUC    *usecases.GetSubscriptionUseCase
	pauseSubscriptionUC  *usecases.PauseSubscriptionUseCase
	resumeSubscriptionUC *usecases.ResumeSubscriptionUseCase
	cancelSubscriptionUC *usecases.CancelSubscriptionUseCase
	getUsageUC           *usecases.GetUsageUseCase
	logger               logger.Interface
}

func NewSubscriptionHandler(
	createSubscriptionUC *usecases.CreateSubscriptionUseCase,
	getSubscriptionUC *usecases.GetSubscriptionUseCase,
	pauseSubscriptionUC *usecases.PauseSubscriptionUseCase,
	resumeSubscriptionUC *usecases.ResumeSubscriptionUseCase,
	cancelSubscriptionUC *usecases.CancelSubscriptionUseCase,
	getUsageUC *usecases.GetUsageUseCase,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createSubscriptionUC: createSubscriptionUC,
		getSubscriptionUC:    getSubscriptionUC,
		pauseSubscriptionUC:  pauseSubscriptionUC,
		resumeSubscriptionUC: resumeSubscriptionUC,
		cancelSubscriptionUC: cancelSubscriptionUC,
		getUsageUC:           getUsageUC,
		logger:               logger.NewLogger(),
	}
}

type CreateSubscriptionRequest struct {
	CustomerID    uint   `json:"customer_id" binding:"required" validate:"required"`
	PlanCode      string `json:"plan_code" validate:"omitempty,min=1,max=64"`
	PlanID        uint   `json:"plan_id"`
	BillingCycle  string `json:"billing_cycle" binding:"required" validate:"required,oneof=monthly quarterly annually"`
	PaymentMethod string `json:"payment_method" binding:"required" validate:"required,min=1,max=128"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		respondError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, err)
		return
	}

	cmd := usecases.CreateSubscriptionCommand{
		CustomerID:    req.CustomerID,
		PlanID:        req.PlanID,
		PlanCode:      req.PlanCode,
		BillingCycle:  req.BillingCycle,
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.createSubscriptionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"subscription":  toSubscriptionDTO(result.Subscription),
		"plan":          toPlanDTO(result.Plan),
		"charged_cents": result.ChargedCents,
	}, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.getSubscriptionUC.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.pauseSubscriptionUC.Execute(c.Request.Context(), usecases.PauseSubscriptionCommand{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription paused", toSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.resumeSubscriptionUC.Execute(c.Request.Context(), usecases.ResumeSubscriptionCommand{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription resumed", toSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.cancelSubscriptionUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", gin.H{
		"subscription":        toSubscriptionDTO(result.Subscription),
		"cancelled_preorders": result.CancelledPreOrders,
	})
}

func (h *SubscriptionHandler) GetUsage(c *gin.Context) {
	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := h.getUsageUC.Execute(c.Request.Context(), usecases.GetUsageCommand{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}
