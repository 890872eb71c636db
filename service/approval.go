package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SetApprovalStatus runs the per-version approval state machine. The
// only legal transitions are pending to approved, rejected or
// needs_changes; terminal states are immutable. Correcting a rejected
// design means uploading a new version, not reopening the old one.
//
// Approving promotes the file to current-approved and clears the flag
// on every sibling in the category in one atomic unit. Rejecting or
// requesting changes stores the reviewer comment and leaves
// current-approved flags untouched, so an older approved version stays
// authoritative.
func (s *DesignService) SetApprovalStatus(ctx context.Context, actorID, fileID uuid.UUID, newStatus entity.ApprovalStatus, adminComments *string) (*entity.DesignFile, error) {
	if err := s.requirePermission(ctx, actorID, infra.ActionDesignsApprove); err != nil {
		return nil, err
	}

	file, err := s.files.FindByID(fileID)
	if err != nil {
		return nil, err
	}

	if newStatus == entity.ApprovalStatusPending {
		return nil, fmt.Errorf("%w: cannot transition back to pending", entity.ErrInvalidTransition)
	}
	if file.ApprovalStatus.IsTerminal() {
		return nil, fmt.Errorf("%w: file %s is already %s", entity.ErrInvalidTransition, fileID, file.ApprovalStatus)
	}

	var updated *entity.DesignFile
	switch newStatus {
	case entity.ApprovalStatusApproved:
		updated, err = s.files.PromoteCurrentApproved(fileID, actorID, time.Now().UTC())
	case entity.ApprovalStatusRejected, entity.ApprovalStatusNeedsChanges:
		updated, err = s.files.UpdateStatus(fileID, newStatus, adminComments)
	default:
		return nil, fmt.Errorf("%w: unknown approval status %q", entity.ErrValidation, newStatus)
	}
	if err != nil {
		return nil, err
	}

	s.recordApprovalEvent(ctx, actorID, updated, adminComments)

	s.publish(ctx, produce.DesignEventMessage{
		Type:          approvalEventType(newStatus),
		FileID:        updated.ID.String(),
		ProjectID:     updated.ProjectID.String(),
		Category:      updated.Category,
		VersionNumber: updated.VersionNumber,
		ActorID:       actorID.String(),
	})

	return updated, nil
}

// ApprovalTrail returns the audit trail for a file, oldest first.
func (s *DesignService) ApprovalTrail(fileID uuid.UUID) ([]entity.ApprovalEvent, error) {
	if _, err := s.files.FindByID(fileID); err != nil {
		return nil, err
	}
	return s.events.FindByFileID(fileID)
}

func (s *DesignService) recordApprovalEvent(ctx context.Context, actorID uuid.UUID, file *entity.DesignFile, adminComments *string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"status":         file.ApprovalStatus,
		"admin_comments": adminComments,
	})
	event := &entity.ApprovalEvent{
		ID:      uuid.New(),
		FileID:  file.ID,
		ActorID: actorID,
		Action:  string(file.ApprovalStatus),
		Payload: datatypes.JSON(payload),
	}
	if err := s.events.Create(event); err != nil {
		s.logger.WarningWithContextf(ctx, "[Approval] Failed to record audit event for file %s: %v", file.ID, err)
	}
}

func approvalEventType(status entity.ApprovalStatus) string {
	switch status {
	case entity.ApprovalStatusApproved:
		return produce.EventDesignApproved
	case entity.ApprovalStatusRejected:
		return produce.EventDesignRejected
	default:
		return produce.EventDesignNeedsChanges
	}
}
