package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokogate/internal/application/subscription/usecases"
	"sokogate/internal/shared/logger"
	"sokogate/internal/shared/utils"
)

type PlanHandler struct {
	listPlansUC *usecases.ListPlansUseCase
	getPlanUC   *usecases.GetPlanUseCase
	logger      logger.Interface
}

func NewPlanHandler(
	listPlansUC *usecases.ListPlansUseCase,
	getPlanUC *usecases.GetPlanUseCase,
) *PlanHandler {
	return &PlanHandler{
		listPlansUC: listPlansUC,
		getPlanUC:   getPlanUC,
		logger:      logger.NewLogger(),
	}
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]PlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, toPlanDTO(plan))
	}
	utils.SuccessResponse(c, http.StatusOK, "", dtos)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.getPlanUC.Execute(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toPlanDTO(plan))
}
