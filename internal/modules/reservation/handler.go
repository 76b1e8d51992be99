package reservation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.Create)
	rg.POST("/reservations/recurring", h.CreateRecurring)
	rg.GET("/reservations/mine", h.ListMine)
	rg.GET("/reservations/:id", h.Get)
	rg.POST("/reservations/:id/approve", h.transition(EventApprove))
	rg.POST("/reservations/:id/reject", h.transition(EventReject))
	rg.POST("/reservations/:id/cancel", h.transition(EventCancel))
	rg.GET("/rooms/:id/availability", h.CheckAvailability)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.Role(c.GetString("role")),
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

func (h *Handler) CreateRecurring(c *gin.Context) {
	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	weekdays := make([]time.Weekday, 0, len(req.Recurrence.Weekdays))
	for _, d := range req.Recurrence.Weekdays {
		weekdays = append(weekdays, time.Weekday(d))
	}
	pattern := domain.RecurrencePattern{
		Type:     domain.RecurrenceType(req.Recurrence.Type),
		Interval: req.Recurrence.Interval,
		Weekdays: weekdays,
		Until:    req.Recurrence.Until,
	}

	created, err := h.service.CreateRecurring(c.Request.Context(), req.CreateRequest, pattern)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservations": created})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	actor := actorFrom(c)
	if !actor.IsAdmin() && actor.UserID != res.UserID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your reservation")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) transition(event Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
			return
		}

		var req TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
				return
			}
		}

		res, err := h.service.Transition(c.Request.Context(), id, event, actorFrom(c), req.Comment)
		if err != nil {
			h.writeError(c, err)
			return
		}

		response.Success(c, http.StatusOK, gin.H{"reservation": res})
	}
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INTERVAL", "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INTERVAL", "end must be RFC3339")
		return
	}

	var excludeID int64
	if raw := c.Query("exclude"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid exclude id")
			return
		}
	}

	free, err := h.service.CheckAvailability(c.Request.Context(), roomID, domain.TimeInterval{Start: start, End: end}, excludeID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"available": free})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		response.Error(c, http.StatusBadRequest, "INVALID_INTERVAL", err.Error())
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
