package routes

import (
	"github.com/draftdeck/design-service/http/controller"
	middlewares "github.com/draftdeck/design-service/http/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/designs")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		projectRoutes := apiRoutes.Group("/projects")
		{
			projectRoutes.GET("/:project_id/files", ctrl.ListProjectFiles)
			projectRoutes.POST("/:project_id/files", ctrl.UploadDesignFiles)
			projectRoutes.GET("/:project_id/frozen", ctrl.GetFreezeStatus)
		}

		fileRoutes := apiRoutes.Group("/files")
		{
			fileRoutes.PUT("/:id/status", ctrl.UpdateApprovalStatus)
			fileRoutes.DELETE("/:id", ctrl.DeleteDesignFile)
			fileRoutes.POST("/:id/freeze", ctrl.FreezeDesignFile)
			fileRoutes.DELETE("/:id/freeze", ctrl.UnfreezeDesignFile)
			fileRoutes.POST("/:id/comments", ctrl.CreateComment)
			fileRoutes.GET("/:id/events", ctrl.ListApprovalEvents)
		}

		apiRoutes.PUT("/comments/:id/resolve", ctrl.ResolveComment)
		apiRoutes.GET("/uploads/:batch_id/progress", ctrl.GetUploadProgress)
		apiRoutes.GET("/limits", ctrl.GetBucketLimits)
	}

	return r
}
