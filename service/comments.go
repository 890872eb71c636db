package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
)

// AddComment appends an immutable review comment to a design file,
// optionally pinned to a normalized viewport position. Pin percentages
// must be within [0,100]; the page number defaults to 1 for
// single-page and image files.
func (s *DesignService) AddComment(ctx context.Context, authorID, fileID uuid.UUID, text string, linkedTaskID *uuid.UUID, pin *entity.Pin) (*entity.DesignComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", entity.ErrValidation)
	}

	if _, err := s.files.FindByID(fileID); err != nil {
		return nil, err
	}

	comment := &entity.DesignComment{
		ID:           uuid.New(),
		FileID:       fileID,
		AuthorID:     authorID,
		Text:         text,
		LinkedTaskID: linkedTaskID,
	}

	if pin != nil {
		if pin.XPercent < 0 || pin.XPercent > 100 || pin.YPercent < 0 || pin.YPercent > 100 {
			return nil, fmt.Errorf("%w: pin coordinates must be within [0,100]", entity.ErrValidation)
		}
		page := pin.PageNumber
		if page < 1 {
			page = 1
		}
		x, y, zoom := pin.XPercent, pin.YPercent, pin.ZoomLevel
		comment.XPercent = &x
		comment.YPercent = &y
		comment.PageNumber = &page
		comment.ZoomLevel = &zoom
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	s.logger.InfoWithContextf(ctx, "[Comment] Added comment %s to file %s (pinned=%t)", comment.ID, fileID, comment.HasPin())

	return comment, nil
}

// ResolveComment toggles the resolution flag, the one mutable field on
// a comment.
func (s *DesignService) ResolveComment(ctx context.Context, commentID uuid.UUID, resolved bool) (*entity.DesignComment, error) {
	comment, err := s.comments.SetResolved(commentID, resolved)
	if err != nil {
		return nil, err
	}
	s.logger.InfoWithContextf(ctx, "[Comment] Comment %s resolved=%t", commentID, resolved)
	return comment, nil
}

// HasPinnedComments reports whether any comment on the file carries a
// spatial pin. Informational for reviewers; never a gate on approval.
func (s *DesignService) HasPinnedComments(fileID uuid.UUID) (bool, error) {
	comments, err := s.comments.FindByFileID(fileID)
	if err != nil {
		return false, err
	}
	for i := range comments {
		if comments[i].HasPin() {
			return true, nil
		}
	}
	return false, nil
}
