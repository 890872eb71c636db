package controller

import (
	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/http/controller/dto"
	"github.com/draftdeck/design-service/utils"
	"github.com/gin-gonic/gin"
)

// CreateComment appends a review comment to a design file, optionally
// pinned to a position on the rendered document.
func (ctrl *Controller) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	var pin *entity.Pin
	if req.Pin != nil {
		pin = &entity.Pin{
			XPercent:   req.Pin.XPercent,
			YPercent:   req.Pin.YPercent,
			PageNumber: req.Pin.PageNumber,
			ZoomLevel:  req.Pin.ZoomLevel,
		}
	}

	comment, err := ctrl.Service.AddComment(ctx, userID, fileID, req.Text, req.LinkedTaskID, pin)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Comment] Failed to add comment to file %s", fileID)
		respondError(c, err)
		return
	}

	utils.JSON201(c, comment)
}

// ResolveComment toggles the resolution flag on a comment.
func (ctrl *Controller) ResolveComment(c *gin.Context) {
	ctx := c.Request.Context()

	commentID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	comment, err := ctrl.Service.ResolveComment(ctx, commentID, req.Resolved)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Comment] Failed to resolve comment %s", commentID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, comment)
}
