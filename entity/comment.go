package entity

import (
	"time"

	"github.com/google/uuid"
)

// DesignComment is an append-only review comment on a design file.
// Text and pin are immutable after creation; IsResolved is the one
// mutable field.
type DesignComment struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FileID   uuid.UUID `json:"file_id" gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Text     string    `json:"text" gorm:"type:text;not null"`

	// Pin coordinates are percentages in [0,100] of the rendered
	// viewport, so a pin stays anchored across zoom levels and screen
	// sizes. All four fields are set together or not at all.
	XPercent   *float64 `json:"x_percent,omitempty"`
	YPercent   *float64 `json:"y_percent,omitempty"`
	PageNumber *int     `json:"page_number,omitempty"`
	ZoomLevel  *float64 `json:"zoom_level,omitempty"`

	LinkedTaskID *uuid.UUID `json:"linked_task_id,omitempty" gorm:"type:uuid"`
	IsResolved   bool       `json:"is_resolved" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
}

// HasPin reports whether the comment is anchored to a location.
func (c *DesignComment) HasPin() bool {
	return c.XPercent != nil
}

// Pin is the optional spatial anchor supplied at comment creation.
type Pin struct {
	XPercent   float64 `json:"x_percent"`
	YPercent   float64 `json:"y_percent"`
	PageNumber int     `json:"page_number"`
	ZoomLevel  float64 `json:"zoom_level"`
}
