package repository

import (
	"errors"
	"fmt"

	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *entity.DesignComment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uuid.UUID) (*entity.DesignComment, error) {
	var comment entity.DesignComment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %s", entity.ErrNotFound, id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) FindByFileID(fileID uuid.UUID) ([]entity.DesignComment, error) {
	var comments []entity.DesignComment
	err := r.db.Where("file_id = ?", fileID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// SetResolved toggles the one mutable field on an otherwise immutable
// comment.
func (r *CommentRepository) SetResolved(id uuid.UUID, resolved bool) (*entity.DesignComment, error) {
	var comment entity.DesignComment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %s", entity.ErrNotFound, id)
		}
		return nil, err
	}

	if err := r.db.Model(&comment).Update("is_resolved", resolved).Error; err != nil {
		return nil, err
	}

	comment.IsResolved = resolved
	return &comment, nil
}
