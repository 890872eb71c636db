package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
)

// UploadFile is one file of a batch upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// FailedUpload reports a per-file failure inside a batch. The batch
// itself continues.
type FailedUpload struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// BatchResult is the per-file outcome of a batch upload. Partial
// success is expected and reported, never treated as a fatal batch
// failure.
type BatchResult struct {
	Succeeded []entity.DesignFile `json:"succeeded"`
	Failed    []FailedUpload      `json:"failed"`
}

// UploadProgress is an observability side effect for progress bars; it
// has no bearing on correctness.
type UploadProgress struct {
	CurrentIndex         int     `json:"current_index"`
	TotalFiles           int     `json:"total_files"`
	PercentOfCurrentFile float64 `json:"percent_of_current_file"`
}

type ProgressReporter func(ctx context.Context, progress UploadProgress)

// UploadBatch uploads files into a category, sequentially on purpose:
// serializing version allocation per category is the single-writer
// discipline that makes distributed locking unnecessary at this write
// volume. For each file the object store write happens first; only on
// storage success is the version allocated and the record inserted,
// with status pending. A storage failure or version conflict skips the
// file and the batch continues.
func (s *DesignService) UploadBatch(ctx context.Context, uploaderID, projectID uuid.UUID, category string, files []UploadFile, report ProgressReporter) (*BatchResult, error) {
	if err := s.requirePermission(ctx, uploaderID, infra.ActionDesignsUpload); err != nil {
		return nil, err
	}

	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category is required", entity.ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", entity.ErrValidation)
	}

	frozen, err := s.files.AnyFrozenInCategory(projectID, category)
	if err != nil {
		return nil, err
	}
	if frozen {
		return nil, fmt.Errorf("%w: category %q", entity.ErrCategoryFrozen, category)
	}

	result := &BatchResult{
		Succeeded: []entity.DesignFile{},
		Failed:    []FailedUpload{},
	}

	for i, upload := range files {
		// Caller disconnect: stop issuing further uploads. Files
		// already accepted by the object store are not rolled back.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if report != nil {
			report(ctx, UploadProgress{CurrentIndex: i, TotalFiles: len(files), PercentOfCurrentFile: 0})
		}

		if upload.Name == "" {
			result.Failed = append(result.Failed, FailedUpload{FileName: upload.Name, Reason: "file name is required"})
			continue
		}

		fileID := uuid.New()
		path := fmt.Sprintf("projects/%s/designs/%s/%s", projectID, fileID, upload.Name)

		url, err := s.storage.Put(ctx, path, upload.Reader, upload.Size, upload.ContentType)
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Upload] Storage write failed for %q (%d/%d)", upload.Name, i+1, len(files))
			result.Failed = append(result.Failed, FailedUpload{
				FileName: upload.Name,
				Reason:   fmt.Errorf("%w: %v", entity.ErrStorageFailure, err).Error(),
			})
			continue
		}

		file := &entity.DesignFile{
			ID:             fileID,
			ProjectID:      projectID,
			Category:       category,
			FileName:       upload.Name,
			FileURL:        url,
			FileType:       entity.FileTypeFromContentType(upload.ContentType),
			FileSize:       upload.Size,
			ApprovalStatus: entity.ApprovalStatusPending,
			UploadedBy:     uploaderID,
		}

		if err := s.files.CreateWithNextVersion(file); err != nil {
			if errors.Is(err, entity.ErrVersionConflict) {
				// The loser of a concurrent allocation race. Reported,
				// not retried; the caller may resubmit with a fresh
				// version.
				s.logger.WarningWithContextf(ctx, "[Upload] Version conflict for %q in category %q", upload.Name, category)
				result.Failed = append(result.Failed, FailedUpload{FileName: upload.Name, Reason: err.Error()})
				continue
			}
			return result, err
		}

		if report != nil {
			report(ctx, UploadProgress{CurrentIndex: i, TotalFiles: len(files), PercentOfCurrentFile: 100})
		}

		s.logger.InfoWithContextf(ctx, "[Upload] Stored %q as v%d in category %q (project %s)",
			upload.Name, file.VersionNumber, category, projectID)

		s.publish(ctx, produce.DesignEventMessage{
			Type:          produce.EventDesignUploaded,
			FileID:        file.ID.String(),
			ProjectID:     projectID.String(),
			Category:      category,
			VersionNumber: file.VersionNumber,
			ActorID:       uploaderID.String(),
		})

		result.Succeeded = append(result.Succeeded, *file)
	}

	return result, nil
}

// DeleteFile removes a design file record. Permitted to the original
// uploader or to holders of the delete capability. The version slot is
// never reclaimed or renumbered.
func (s *DesignService) DeleteFile(ctx context.Context, actorID, fileID uuid.UUID) error {
	file, err := s.files.FindByID(fileID)
	if err != nil {
		return err
	}

	if file.UploadedBy != actorID {
		if err := s.requirePermission(ctx, actorID, infra.ActionDesignsDelete); err != nil {
			return err
		}
	}

	if err := s.files.Delete(fileID); err != nil {
		return err
	}

	s.logger.InfoWithContextf(ctx, "[Upload] Deleted file %s (v%d, category %q)", fileID, file.VersionNumber, file.Category)

	s.publish(ctx, produce.DesignEventMessage{
		Type:          produce.EventDesignDeleted,
		FileID:        file.ID.String(),
		ProjectID:     file.ProjectID.String(),
		Category:      file.Category,
		VersionNumber: file.VersionNumber,
		ActorID:       actorID.String(),
	})

	return nil
}
