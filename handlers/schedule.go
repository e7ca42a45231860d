package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/schedule"
	"studiobook/utils"
)

type ScheduleHandler struct {
	Service schedule.ScheduleService
}

func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

func bindFailed(c *gin.Context, err error) {
	getLogger(c).Warn("Invalid request payload", zap.Error(err))
	utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
}

// Working templates.

func (h *ScheduleHandler) AddTemplateHandler(c *gin.Context) {
	var req models.WorkingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	t, err := h.Service.AddWorkingTemplate(c.Request.Context(), c.Param("artistID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Working template created", zap.String("artistID", t.ArtistID), zap.String("templateID", t.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "Working template created", "template": t})
}

func (h *ScheduleHandler) UpdateTemplateHandler(c *gin.Context) {
	var req models.WorkingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	t, err := h.Service.UpdateWorkingTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working template updated", "template": t})
}

func (h *ScheduleHandler) DeleteTemplateHandler(c *gin.Context) {
	t, err := h.Service.DeleteWorkingTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working template deleted", "template": t})
}

// Overrides.

func (h *ScheduleHandler) AddOverrideHandler(c *gin.Context) {
	var req models.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	o, err := h.Service.AddOverride(c.Request.Context(), c.Param("artistID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Override created", "override": o})
}

func (h *ScheduleHandler) UpdateOverrideHandler(c *gin.Context) {
	var req models.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	o, err := h.Service.UpdateOverride(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override updated", "override": o})
}

func (h *ScheduleHandler) DeleteOverrideHandler(c *gin.Context) {
	o, err := h.Service.DeleteOverride(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override deleted", "override": o})
}

// Blocked ranges.

func (h *ScheduleHandler) AddBlockedHandler(c *gin.Context) {
	var req models.BlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	b, err := h.Service.AddBlocked(c.Request.Context(), c.Param("artistID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Blocked range created", "blocked": b})
}

func (h *ScheduleHandler) UpdateBlockedHandler(c *gin.Context) {
	var req models.BlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	b, err := h.Service.UpdateBlocked(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blocked range updated", "blocked": b})
}

func (h *ScheduleHandler) DeleteBlockedHandler(c *gin.Context) {
	b, err := h.Service.DeleteBlocked(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blocked range deleted", "blocked": b})
}
