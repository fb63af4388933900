package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/preorder/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

type PreOrderHandler struct {
	createPreOrderUC *usecases.CreatePreOrderUseCase
	cancelPreOrderUC *usecases.CancelPreOrderUseCase
	listPreOrdersUC  *usecases.ListPreOrdersUseCase
	getPreOrderUC    *usecases.GetPreOrderUseCase
	logger           logger.Interface
}

func NewPreOrderHandler(
	createPreOrderUC *usecases.CreatePreOrderUseCase,
	cancelPreOrderUC *usecases.CancelPreOrderUseCase,
	listPreOrdersUC *usecases.ListPreOrdersUseCase,
	getPreOrderUC *usecases.GetPreOrderUseCase,
) *PreOrderHandler {
	return &PreOrderHandler{
		createPreOrderUC: createPreOrderUC,
		cancelPreOrderUC: cancelPreOrderUC,
		listPreOrdersUC:  listPreOrdersUC,
		getPreOrderUC:    getPreOrderUC,
		logger:           logger.NewLogger(),
	}
}

type CreatePreOrderRequest struct {
	SubscriptionID uint `json:"subscription_id" binding:"required" validate:"required"`
	ProductID      uint `json:"product_id" binding:"required" validate:"required"`
	Quantity       int  `json:"quantity" binding:"required" validate:"required,min=1"`
	PriorityLevel  int  `json:"priority_level" validate:"omitempty,min=1,max=5"`
}

func (h *PreOrderHandler) CreatePreOrder(c *gin.Context) {
	var req CreatePreOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create preorder", "error", err)
		respondError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, err)
		return
	}

	cmd := usecases.CreatePreOrderCommand{
		SubscriptionID: req.SubscriptionID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		PriorityLevel:  req.PriorityLevel,
	}

	result, err := h.createPreOrderUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, toPreOrderDTO(result.PreOrder), "Preorder confirmed")
}

func (h *PreOrderHandler) CancelPreOrder(c *gin.Context) {
	preorderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	po, err := h.cancelPreOrderUC.Execute(c.Request.Context(), usecases.CancelPreOrderCommand{
		PreOrderID: preorderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Preorder cancelled", toPreOrderDTO(po))
}

func (h *PreOrderHandler) ListPreOrders(c *gin.Context) {
	cmd := usecases.ListPreOrdersCommand{
		Status: c.Query("status"),
	}
	if raw := c.Query("subscription_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, err)
			return
		}
		cmd.SubscriptionID = uint(id)
	}

	orders, err := h.listPreOrdersUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]PreOrderDTO, 0, len(orders))
	for _, po := range orders {
		dtos = append(dtos, toPreOrderDTO(po))
	}
	utils.SuccessResponse(c, http.StatusOK, "", dtos)
}

func (h *PreOrderHandler) GetPreOrder(c *gin.Context) {
	preorderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	po, err := h.getPreOrderUC.Execute(c.Request.Context(), preorderID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toPreOrderDTO(po))
}
