package report

import (
	"errors"
	"net/http"
	"time"

	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the report endpoints; the group is expected to be
// admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/reports/utilization", h.Utilization)
}

func (h *Handler) Utilization(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "from must be RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "to must be RFC3339")
		return
	}

	report, err := h.service.Utilization(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}
