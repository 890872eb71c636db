package service

import (
	"context"
	"io"
	"time"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
)

// DesignStore is the persistence surface the workflow needs. The gorm
// repository satisfies it in production; tests use an in-memory fake.
type DesignStore interface {
	CreateWithNextVersion(file *entity.DesignFile) error
	FindByID(id uuid.UUID) (*entity.DesignFile, error)
	FindByProjectID(projectID uuid.UUID) ([]entity.DesignFile, error)
	FindByCategory(projectID uuid.UUID, category string) ([]entity.DesignFile, error)
	NextVersion(projectID uuid.UUID, category string) (int, error)
	PromoteCurrentApproved(id uuid.UUID, approvedBy uuid.UUID, approvedAt time.Time) (*entity.DesignFile, error)
	UpdateStatus(id uuid.UUID, status entity.ApprovalStatus, adminComments *string) (*entity.DesignFile, error)
	SetFrozen(id uuid.UUID, frozen bool) (*entity.DesignFile, error)
	Delete(id uuid.UUID) error
	AnyFrozenInCategory(projectID uuid.UUID, category string) (bool, error)
	AnyFrozenInProject(projectID uuid.UUID) (bool, error)
}

type CommentStore interface {
	Create(comment *entity.DesignComment) error
	FindByID(id uuid.UUID) (*entity.DesignComment, error)
	FindByFileID(fileID uuid.UUID) ([]entity.DesignComment, error)
	SetResolved(id uuid.UUID, resolved bool) (*entity.DesignComment, error)
}

type EventStore interface {
	Create(event *entity.ApprovalEvent) error
	FindByFileID(fileID uuid.UUID) ([]entity.ApprovalEvent, error)
}

// ObjectStorage is the external object store: bytes in, retrievable
// URL out.
type ObjectStorage interface {
	Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error)
}

// PermissionChecker is the external capability check consumed per
// action.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, action string) (bool, error)
}

// EventPublisher emits workflow events for the notification module.
// Best effort only; a publish failure never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, msg produce.DesignEventMessage) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// DesignService implements the design file version and approval
// workflow: grouped listings, sequential batch uploads with automatic
// version allocation, the per-version approval state machine, the
// category-wide freeze lock and pinned review comments.
type DesignService struct {
	files     DesignStore
	comments  CommentStore
	events    EventStore
	storage   ObjectStorage
	perms     PermissionChecker
	publisher EventPublisher
	logger    Logger
}

func NewDesignService(
	files DesignStore,
	comments CommentStore,
	events EventStore,
	storage ObjectStorage,
	perms PermissionChecker,
	publisher EventPublisher,
	logger Logger,
) *DesignService {
	return &DesignService{
		files:     files,
		comments:  comments,
		events:    events,
		storage:   storage,
		perms:     perms,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *DesignService) requirePermission(ctx context.Context, userID uuid.UUID, action string) error {
	allowed, err := s.perms.HasPermission(ctx, userID, action)
	if err != nil {
		return err
	}
	if !allowed {
		return entity.ErrForbidden
	}
	return nil
}

func (s *DesignService) publish(ctx context.Context, msg produce.DesignEventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.WarningWithContextf(ctx, "[Events] Failed to publish %s for file %s: %v", msg.Type, msg.FileID, err)
	}
}
