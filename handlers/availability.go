package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiobook/services/availability"
	"studiobook/utils"
)

type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetFinalSlotsHandler returns the merged week containing ?weekStart=.
func (h *AvailabilityHandler) GetFinalSlotsHandler(c *gin.Context) {
	artistID := c.Param("artistID")
	weekStart := c.Query("weekStart")
	if weekStart == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing weekStart", "weekStart must be a date in YYYY-MM-DD format")
		return
	}

	week, err := h.Service.GetFinalSlots(c.Request.Context(), artistID, weekStart)
	if err != nil {
		getLogger(c).Debug("Final slots lookup failed", zap.String("artistID", artistID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *AvailabilityHandler) GetOriginalSlotsHandler(c *gin.Context) {
	artistID := c.Param("artistID")
	weekStart := c.Query("weekStart")
	if weekStart == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing weekStart", "weekStart must be a date in YYYY-MM-DD format")
		return
	}

	week, err := h.Service.GetOriginalWorkingSlots(c.Request.Context(), artistID, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// GetAvailableSlotsHandler lists bookable windows for
// ?serviceId=&date=&duration= (minutes).
func (h *AvailabilityHandler) GetAvailableSlotsHandler(c *gin.Context) {
	artistID := c.Param("artistID")
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing query parameters", "serviceId and date are required")
		return
	}
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid duration", "duration must be a whole number of minutes")
		return
	}

	windows, err := h.Service.GetAvailableSlots(c.Request.Context(), artistID, serviceID, date, duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"artistId":  artistID,
		"serviceId": serviceID,
		"date":      date,
		"duration":  duration,
		"windows":   windows,
	})
}
