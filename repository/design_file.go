package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DesignFileRepository struct {
	db *gorm.DB
}

func NewDesignFileRepository(db *gorm.DB) *DesignFileRepository {
	return &DesignFileRepository{db: db}
}

// CreateWithNextVersion allocates the next version number for the
// file's (project, category) lineage and inserts the record in a
// single transaction. The composite unique index is the backstop for
// two concurrent uploads reading the same max: the loser's insert
// fails and is reported as entity.ErrVersionConflict, never retried
// here.
func (r *DesignFileRepository) CreateWithNextVersion(file *entity.DesignFile) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		// Unscoped: soft-deleted rows still hold their version slots,
		// so numbers are never reused across deletions.
		err := tx.Unscoped().Model(&entity.DesignFile{}).
			Where("project_id = ? AND category = ?", file.ProjectID, file.Category).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}

		file.VersionNumber = maxVersion + 1
		return tx.Create(file).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: project %s category %q version %d",
				entity.ErrVersionConflict, file.ProjectID, file.Category, file.VersionNumber)
		}
		return err
	}
	return nil
}

// Create inserts a record with a caller-chosen version number. Used
// when the caller already allocated the version; collisions map to
// entity.ErrVersionConflict.
func (r *DesignFileRepository) Create(file *entity.DesignFile) error {
	err := r.db.Create(file).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: project %s category %q version %d",
			entity.ErrVersionConflict, file.ProjectID, file.Category, file.VersionNumber)
	}
	return err
}

func (r *DesignFileRepository) FindByID(id uuid.UUID) (*entity.DesignFile, error) {
	var file entity.DesignFile
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
		}
		return nil, err
	}
	return &file, nil
}

func (r *DesignFileRepository) FindByProjectID(projectID uuid.UUID) ([]entity.DesignFile, error) {
	var files []entity.DesignFile
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("project_id = ?", projectID).
		Order("category ASC").
		Order("version_number DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *DesignFileRepository) FindByCategory(projectID uuid.UUID, category string) ([]entity.DesignFile, error) {
	var files []entity.DesignFile
	err := r.db.Where("project_id = ? AND category = ?", projectID, category).
		Order("version_number DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// NextVersion computes max+1 from the current snapshot. Informational
// only; the authoritative allocation happens in CreateWithNextVersion.
func (r *DesignFileRepository) NextVersion(projectID uuid.UUID, category string) (int, error) {
	var maxVersion int
	err := r.db.Unscoped().Model(&entity.DesignFile{}).
		Where("project_id = ? AND category = ?", projectID, category).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

// PromoteCurrentApproved marks the file approved and current, and
// clears is_current_approved on every sibling in the same
// (project, category), all inside one transaction. A reader never
// observes two current-approved files in a category.
func (r *DesignFileRepository) PromoteCurrentApproved(id uuid.UUID, approvedBy uuid.UUID, approvedAt time.Time) (*entity.DesignFile, error) {
	var file entity.DesignFile
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&file).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
			}
			return err
		}

		err := tx.Model(&entity.DesignFile{}).
			Where("project_id = ? AND category = ? AND id <> ?", file.ProjectID, file.Category, file.ID).
			Update("is_current_approved", false).Error
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"approval_status":     entity.ApprovalStatusApproved,
			"is_current_approved": true,
			"approved_by":         approvedBy,
			"approved_at":         approvedAt,
		}
		if err := tx.Model(&file).Updates(updates).Error; err != nil {
			return err
		}

		file.ApprovalStatus = entity.ApprovalStatusApproved
		file.IsCurrentApproved = true
		file.ApprovedBy = &approvedBy
		file.ApprovedAt = &approvedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// UpdateStatus applies a reject/needs_changes outcome. Current-approved
// flags are untouched: an older approved version, if any, stays
// authoritative.
func (r *DesignFileRepository) UpdateStatus(id uuid.UUID, status entity.ApprovalStatus, adminComments *string) (*entity.DesignFile, error) {
	var file entity.DesignFile
	if err := r.db.Where("id = ?", id).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"approval_status": status,
		"admin_comments":  adminComments,
	}
	if err := r.db.Model(&file).Updates(updates).Error; err != nil {
		return nil, err
	}

	file.ApprovalStatus = status
	file.AdminComments = adminComments
	return &file, nil
}

func (r *DesignFileRepository) SetFrozen(id uuid.UUID, frozen bool) (*entity.DesignFile, error) {
	var file entity.DesignFile
	if err := r.db.Where("id = ?", id).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
		}
		return nil, err
	}

	if err := r.db.Model(&file).Update("is_frozen", frozen).Error; err != nil {
		return nil, err
	}

	file.IsFrozen = frozen
	return &file, nil
}

// Delete soft-deletes the record. The version slot is never reclaimed:
// allocation reads MAX over unscoped rows, so the next upload still
// lands above the historical maximum.
func (r *DesignFileRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&entity.DesignFile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}
	return nil
}

// AnyFrozenInCategory is the category-wide freeze query: one frozen
// file locks the whole lineage.
func (r *DesignFileRepository) AnyFrozenInCategory(projectID uuid.UUID, category string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.DesignFile{}).
		Where("project_id = ? AND category = ? AND is_frozen = ?", projectID, category, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DesignFileRepository) AnyFrozenInProject(projectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&entity.DesignFile{}).
		Where("project_id = ? AND is_frozen = ?", projectID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
