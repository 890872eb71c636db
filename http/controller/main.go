package controller

import (
	"errors"

	"github.com/draftdeck/design-service/config"
	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra"
	"github.com/draftdeck/design-service/repository"
	"github.com/draftdeck/design-service/service"
	"github.com/draftdeck/design-service/utils"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Service    *service.DesignService
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	svc := service.NewDesignService(
		repo.DesignFileRepo,
		repo.CommentRepo,
		repo.ApprovalEventRepo,
		infra.Minio,
		infra.AuthorizationService,
		infra.Produce.DesignEvents,
		infra.Logger,
	)

	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Service:    svc,
	}
}

// respondError maps the workflow error taxonomy to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation):
		utils.JSON400(c, err.Error())
	case errors.Is(err, entity.ErrForbidden):
		utils.JSON403(c, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, entity.ErrInvalidTransition):
		utils.JSON409(c, err.Error())
	case errors.Is(err, entity.ErrVersionConflict):
		utils.JSON409(c, err.Error())
	case errors.Is(err, entity.ErrCategoryFrozen):
		utils.JSON423(c, err.Error())
	default:
		utils.JSON500(c, "Internal server error")
	}
}
