package service

import (
	"context"
	"encoding/json"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Freeze sets the freeze flag on a single file. The flag lives on the
// row, but the lock it implies is category-wide: any frozen file
// blocks every new upload into its category.
func (s *DesignService) Freeze(ctx context.Context, actorID, fileID uuid.UUID) (*entity.DesignFile, error) {
	return s.setFrozen(ctx, actorID, fileID, true)
}

// Unfreeze clears the flag on a single file. If no other file in the
// category is frozen, the category accepts uploads again.
func (s *DesignService) Unfreeze(ctx context.Context, actorID, fileID uuid.UUID) (*entity.DesignFile, error) {
	return s.setFrozen(ctx, actorID, fileID, false)
}

func (s *DesignService) setFrozen(ctx context.Context, actorID, fileID uuid.UUID, frozen bool) (*entity.DesignFile, error) {
	if err := s.requirePermission(ctx, actorID, infra.ActionDesignsFreeze); err != nil {
		return nil, err
	}

	file, err := s.files.SetFrozen(fileID, frozen)
	if err != nil {
		return nil, err
	}

	action := produce.EventDesignUnfrozen
	if frozen {
		action = produce.EventDesignFrozen
	}

	payload, _ := json.Marshal(map[string]interface{}{"is_frozen": frozen})
	event := &entity.ApprovalEvent{
		ID:      uuid.New(),
		FileID:  file.ID,
		ActorID: actorID,
		Action:  action,
		Payload: datatypes.JSON(payload),
	}
	if err := s.events.Create(event); err != nil {
		s.logger.WarningWithContextf(ctx, "[Freeze] Failed to record audit event for file %s: %v", file.ID, err)
	}

	s.publish(ctx, produce.DesignEventMessage{
		Type:          action,
		FileID:        file.ID.String(),
		ProjectID:     file.ProjectID.String(),
		Category:      file.Category,
		VersionNumber: file.VersionNumber,
		ActorID:       actorID.String(),
	})

	return file, nil
}

// IsCategoryFrozen reports whether any file in the category carries
// the freeze flag.
func (s *DesignService) IsCategoryFrozen(projectID uuid.UUID, category string) (bool, error) {
	return s.files.AnyFrozenInCategory(projectID, category)
}

// IsProjectFrozen reports whether any file anywhere in the project is
// frozen.
func (s *DesignService) IsProjectFrozen(projectID uuid.UUID) (bool, error) {
	return s.files.AnyFrozenInProject(projectID)
}
