package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/http/controller/dto"
	"github.com/draftdeck/design-service/service"
	"github.com/draftdeck/design-service/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const uploadProgressTTL = 10 * time.Minute

func uploadProgressKey(batchID uuid.UUID) string {
	return fmt.Sprintf("upload:progress:%s", batchID)
}

// ListProjectFiles returns the project's design files grouped by
// category, latest version first, each file with its comments.
func (ctrl *Controller) ListProjectFiles(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := ctrl.parseUUIDParam(c, "project_id")
	if !ok {
		return
	}

	groups, err := ctrl.Service.ListProjectFiles(projectID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Failed to list files for project %s", projectID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"project_id":     projectID,
		"categories":     groups,
		"category_count": len(groups),
	})
}

// UploadDesignFiles handles a multipart batch upload into one
// category. Files are processed sequentially; per-file failures are
// reported in the response, not fatal to the batch.
func (ctrl *Controller) UploadDesignFiles(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := ctrl.parseUUIDParam(c, "project_id")
	if !ok {
		return
	}

	category := c.PostForm("category")
	if category == "" {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Design] Upload without category for project %s", projectID)
		utils.JSON400(c, "category is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.JSON400(c, "Failed to parse multipart form: "+err.Error())
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		utils.JSON400(c, "at least one file is required")
		return
	}

	uploads := make([]service.UploadFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		reader, err := header.Open()
		if err != nil {
			utils.JSON400(c, "Failed to open file: "+header.Filename)
			return
		}
		defer reader.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		uploads = append(uploads, service.UploadFile{
			Name:        header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Reader:      reader,
		})
	}

	batchID := uuid.New()
	report := func(pctx context.Context, progress service.UploadProgress) {
		if err := ctrl.Infra.Redis.Set(pctx, uploadProgressKey(batchID), progress, uploadProgressTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(pctx, "[Design] Failed to store progress for batch %s: %v", batchID, err)
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Design] Uploading %d files to category %q (project %s, batch %s)",
		len(uploads), category, projectID, batchID)

	result, err := ctrl.Service.UploadBatch(ctx, userID, projectID, category, uploads, report)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Batch upload failed for project %s", projectID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"batch_id":      batchID,
		"succeeded":     result.Succeeded,
		"failed":        result.Failed,
		"success_count": len(result.Succeeded),
		"failure_count": len(result.Failed),
	})
}

// UpdateApprovalStatus runs an approval transition on a pending file.
func (ctrl *Controller) UpdateApprovalStatus(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := entity.ParseApprovalStatus(req.Status)
	if err != nil {
		utils.JSON400(c, err.Error())
		return
	}

	file, err := ctrl.Service.SetApprovalStatus(ctx, userID, fileID, status, req.AdminComments)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Status transition to %s failed for file %s", status, fileID)
		respondError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Design] File %s transitioned to %s by %s", fileID, status, userID)
	utils.JSON200(c, file)
}

// DeleteDesignFile removes a record; the version slot is never
// renumbered.
func (ctrl *Controller) DeleteDesignFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.Service.DeleteFile(ctx, userID, fileID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Failed to delete file %s", fileID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"deleted": fileID})
}

// ListApprovalEvents returns the approval audit trail for a file.
func (ctrl *Controller) ListApprovalEvents(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	events, err := ctrl.Service.ApprovalTrail(fileID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Failed to list events for file %s", fileID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"file_id": fileID, "events": events})
}

// GetUploadProgress returns the latest progress snapshot for a batch.
func (ctrl *Controller) GetUploadProgress(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, ok := ctrl.parseUUIDParam(c, "batch_id")
	if !ok {
		return
	}

	var progress service.UploadProgress
	if err := ctrl.Infra.Redis.Get(ctx, uploadProgressKey(batchID), &progress); err != nil {
		utils.JSON404(c, "No progress found for batch")
		return
	}

	utils.JSON200(c, gin.H{"batch_id": batchID, "progress": progress})
}

// GetBucketLimits reports the object store quota. Informational only.
func (ctrl *Controller) GetBucketLimits(c *gin.Context) {
	ctx := c.Request.Context()

	limits, err := ctrl.Infra.Minio.GetBucketLimits(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Failed to get bucket limits")
		utils.JSON500(c, "Failed to get bucket limits")
		return
	}

	utils.JSON200(c, limits)
}

func (ctrl *Controller) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	ctx := c.Request.Context()

	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Design] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Design] Invalid user_id format: %v", err)
		utils.JSON400(c, "Invalid user_id format")
		return uuid.Nil, false
	}

	return userID, true
}

func (ctrl *Controller) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	if raw == "" {
		utils.JSON400(c, name+" is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		utils.JSON400(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}

	return id, true
}
