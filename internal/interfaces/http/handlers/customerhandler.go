package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/customer/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

type CustomerHandler struct {
	createCustomerUC *usecases.CreateCustomerUseCase
	getCustomerUC    *usecases.GetCustomerUseCase
	logger           logger.Interface
}

func NewCustomerHandler(
	createCustomerUC *usecases.CreateCustomerUseCase,
	getCustomerUC *usecases.GetCustomerUseCase,
) *CustomerHandler {
	return &CustomerHandler{
		createCustomerUC: createCustomerUC,
		getCustomerUC:    getCustomerUC,
		logger:           logger.NewLogger(),
	}
}

type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required" validate:"required,min=1,max=255"`
	Email string `json:"email" binding:"required" validate:"required,email"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create customer", "error", err)
		respondError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.createCustomerUC.Execute(c.Request.Context(), usecases.CreateCustomerCommand{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, toCustomerDTO(result), "Customer created successfully")
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.getCustomerUC.Execute(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toCustomerDTO(result))
}
