package controller

import (
	"github.com/draftdeck/design-service/utils"
	"github.com/gin-gonic/gin"
)

// FreezeDesignFile sets the freeze flag on one file, locking its whole
// category against new uploads.
func (ctrl *Controller) FreezeDesignFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	file, err := ctrl.Service.Freeze(ctx, userID, fileID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Freeze] Failed to freeze file %s", fileID)
		respondError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Freeze] File %s frozen by %s (category %q locked)", fileID, userID, file.Category)
	utils.JSON200(c, file)
}

// UnfreezeDesignFile clears the flag; the category unlocks once no
// file in it is frozen.
func (ctrl *Controller) UnfreezeDesignFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := ctrl.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	file, err := ctrl.Service.Unfreeze(ctx, userID, fileID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Freeze] Failed to unfreeze file %s", fileID)
		respondError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Freeze] File %s unfrozen by %s", fileID, userID)
	utils.JSON200(c, file)
}

// GetFreezeStatus reports whether uploads are locked, project-wide or
// scoped to one category via the query parameter.
func (ctrl *Controller) GetFreezeStatus(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := ctrl.parseUUIDParam(c, "project_id")
	if !ok {
		return
	}

	category := c.Query("category")

	var frozen bool
	var err error
	if category != "" {
		frozen, err = ctrl.Service.IsCategoryFrozen(projectID, category)
	} else {
		frozen, err = ctrl.Service.IsProjectFrozen(projectID)
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Freeze] Failed to query freeze status for project %s", projectID)
		respondError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"project_id": projectID,
		"category":   category,
		"is_frozen":  frozen,
	})
}
