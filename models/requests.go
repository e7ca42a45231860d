package models

import "time"

type WorkingTemplateRequest struct {
	Weekday   *int   `json:"weekday" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Note      string `json:"note"`
}

type OverrideRequest struct {
	StartAt time.Time `json:"startAt" binding:"required"`
	EndAt   time.Time `json:"endAt" binding:"required"`
	Note    string    `json:"note"`
}

type BlockedRequest struct {
	StartAt time.Time `json:"startAt" binding:"required"`
	EndAt   time.Time `json:"endAt" binding:"required"`
	Reason  string    `json:"reason"`
}
