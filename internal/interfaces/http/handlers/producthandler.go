package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/preorder/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

type ProductHandler struct {
	createProductUC *usecases.CreateProductUseCase
	listProductsUC  *usecases.ListProductsUseCase
	getProductUC    *usecases.GetProductUseCase
	logger          logger.Interface
}

func NewProductHandler(
	createProductUC *usecases.CreateProductUseCase,
	listProductsUC *usecases.ListProductsUseCase,
	getProductUC *usecases.GetProductUseCase,
) *ProductHandler {
	return &ProductHandler{
		createProductUC: createProductUC,
		listProductsUC:  listProductsUC,
		getProductUC:    getProductUC,
		logger:          logger.NewLogger(),
	}
}

type CreateProductRequest struct {
	SKU              string     `json:"sku" binding:"required" validate:"required,min=1,max=64"`
	Name             string     `json:"name" binding:"required" validate:"required,min=1,max=255"`
	PreorderEligible bool       `json:"preorder_eligible"`
	WindowStart      time.Time  `json:"window_start"`
	WindowEnd        *time.Time `json:"window_end"`
	BasePriceCents   int64      `json:"base_price_cents" binding:"required" validate:"required,min=1"`
	InventoryLimit   int        `json:"inventory_limit" validate:"omitempty,min=0"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create product", "error", err)
		respondError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, err)
		return
	}

	cmd := usecases.CreateProductCommand{
		SKU:              req.SKU,
		Name:             req.Name,
		PreorderEligible: req.PreorderEligible,
		WindowStart:      req.WindowStart,
		BasePriceCents:   req.BasePriceCents,
		InventoryLimit:   req.InventoryLimit,
	}
	if req.WindowEnd != nil {
		cmd.WindowEnd = *req.WindowEnd
	}

	product, err := h.createProductUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, toProductDTO(product), "Product created successfully")
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.listProductsUC.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toProductDTO(product))
	}
	utils.SuccessResponse(c, http.StatusOK, "", dtos)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.getProductUC.Execute(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toProductDTO(product))
}
