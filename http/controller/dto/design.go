package dto

import "github.com/google/uuid"

type UpdateStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	AdminComments *string `json:"admin_comments"`
}

type PinRequest struct {
	XPercent   float64 `json:"x_percent"`
	YPercent   float64 `json:"y_percent"`
	PageNumber int     `json:"page_number"`
	ZoomLevel  float64 `json:"zoom_level"`
}

type CreateCommentRequest struct {
	Text         string      `json:"text" binding:"required"`
	LinkedTaskID *uuid.UUID  `json:"linked_task_id"`
	Pin          *PinRequest `json:"pin"`
}

type ResolveCommentRequest struct {
	Resolved bool `json:"resolved"`
}
