package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ApprovalEvent is one row of the approval audit trail: every status
// transition and freeze toggle is recorded with its payload.
type ApprovalEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FileID    uuid.UUID      `json:"file_id" gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID      `json:"actor_id" gorm:"type:uuid;not null"`
	Action    string         `json:"action" gorm:"type:varchar(64);not null"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
}
