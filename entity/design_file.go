package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalStatus is the review state of a single design file version.
// The lifecycle is per-version and terminal: the only way out of a
// terminal state is uploading a new version, which starts at pending.
type ApprovalStatus string

const (
	ApprovalStatusPending      ApprovalStatus = "pending"
	ApprovalStatusApproved     ApprovalStatus = "approved"
	ApprovalStatusRejected     ApprovalStatus = "rejected"
	ApprovalStatusNeedsChanges ApprovalStatus = "needs_changes"
)

// ParseApprovalStatus rejects unknown values at the boundary instead of
// storing arbitrary strings.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusNeedsChanges:
		return ApprovalStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown approval status %q", ErrValidation, s)
	}
}

// IsTerminal reports whether no further status transition is allowed.
func (s ApprovalStatus) IsTerminal() bool {
	return s != ApprovalStatusPending
}

// FileType is a coarse classification used by the viewer layer.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

// FileTypeFromContentType maps an upload's MIME type to a FileType.
func FileTypeFromContentType(contentType string) FileType {
	switch {
	case contentType == "application/pdf":
		return FileTypePDF
	case len(contentType) > 6 && contentType[:6] == "image/":
		return FileTypeImage
	default:
		return FileTypeOther
	}
}

// DesignFile is one uploaded design artifact. Version numbers are
// unique and monotonically increasing within (project_id, category);
// the composite unique index is the hard backstop against two
// concurrent uploads allocating the same number.
type DesignFile struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID      uuid.UUID      `json:"project_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_project_category_version"`
	Category       string         `json:"category" gorm:"type:varchar(255);not null;uniqueIndex:idx_project_category_version"`
	VersionNumber  int            `json:"version_number" gorm:"not null;uniqueIndex:idx_project_category_version"`
	FileName       string         `json:"file_name" gorm:"type:varchar(512);not null"`
	FileURL        string         `json:"file_url" gorm:"type:varchar(1024);not null"`
	FileType       FileType       `json:"file_type" gorm:"type:varchar(16);not null;default:'other'"`
	FileSize       int64          `json:"file_size" gorm:"not null;default:0"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(32);not null;default:'pending';index"`

	// IsCurrentApproved is true for at most one file per
	// (project_id, category), and only while ApprovalStatus is
	// approved. A superseded version keeps status approved but loses
	// the flag.
	IsCurrentApproved bool `json:"is_current_approved" gorm:"not null;default:false"`

	// IsFrozen lives on individual rows, but its effective meaning is
	// category-wide: any frozen file locks the whole category against
	// new uploads.
	IsFrozen bool `json:"is_frozen" gorm:"not null;default:false"`

	UploadedBy    uuid.UUID  `json:"uploaded_by" gorm:"type:uuid;not null;index"`
	ApprovedBy    *uuid.UUID `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	AdminComments *string    `json:"admin_comments,omitempty" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`

	// Soft delete keeps the row occupying its version slot: numbers
	// are never reclaimed or renumbered after deletion.
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Comments []DesignComment `json:"comments" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}
