package repository

import (
	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalEventRepository struct {
	db *gorm.DB
}

func NewApprovalEventRepository(db *gorm.DB) *ApprovalEventRepository {
	return &ApprovalEventRepository{db: db}
}

func (r *ApprovalEventRepository) Create(event *entity.ApprovalEvent) error {
	return r.db.Create(event).Error
}

func (r *ApprovalEventRepository) FindByFileID(fileID uuid.UUID) ([]entity.ApprovalEvent, error) {
	var events []entity.ApprovalEvent
	err := r.db.Where("file_id = ?", fileID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
