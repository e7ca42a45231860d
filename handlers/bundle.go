// File: studiobook/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"studiobook/utils"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Health *utils.HealthMonitor

	// Availability endpoints
	GetFinalSlotsHandler    gin.HandlerFunc
	GetOriginalSlotsHandler gin.HandlerFunc
	GetAvailableSlots       gin.HandlerFunc

	// Working template endpoints
	AddTemplateHandler    gin.HandlerFunc
	UpdateTemplateHandler gin.HandlerFunc
	DeleteTemplateHandler gin.HandlerFunc

	// Override endpoints
	AddOverrideHandler    gin.HandlerFunc
	UpdateOverrideHandler gin.HandlerFunc
	DeleteOverrideHandler gin.HandlerFunc

	// Blocked range endpoints
	AddBlockedHandler    gin.HandlerFunc
	UpdateBlockedHandler gin.HandlerFunc
	DeleteBlockedHandler gin.HandlerFunc
}

// NewHandlerBundle wires the availability and schedule handlers.
func NewHandlerBundle(avail *AvailabilityHandler, sched *ScheduleHandler, health *utils.HealthMonitor) *HandlerBundle {
	return &HandlerBundle{
		Health: health,

		GetFinalSlotsHandler:    avail.GetFinalSlotsHandler,
		GetOriginalSlotsHandler: avail.GetOriginalSlotsHandler,
		GetAvailableSlots:       avail.GetAvailableSlotsHandler,

		AddTemplateHandler:    sched.AddTemplateHandler,
		UpdateTemplateHandler: sched.UpdateTemplateHandler,
		DeleteTemplateHandler: sched.DeleteTemplateHandler,

		AddOverrideHandler:    sched.AddOverrideHandler,
		UpdateOverrideHandler: sched.UpdateOverrideHandler,
		DeleteOverrideHandler: sched.DeleteOverrideHandler,

		AddBlockedHandler:    sched.AddBlockedHandler,
		UpdateBlockedHandler: sched.UpdateBlockedHandler,
		DeleteBlockedHandler: sched.DeleteBlockedHandler,
	}
}
