package handler

import (
	"net/http"

	"github.com/ManuJB023/inventory-dashboard/internal/apierror"
	"github.com/ManuJB023/inventory-dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
