package routes

import (
	"contrahub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupPipelineRoutes sets up the fetch/analyze/reply API
func SetupPipelineRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/posts", controllers.ListPostsHandler)
		api.POST("/analyze", controllers.AnalyzePostHandler)
		api.POST("/reply", controllers.ReplyHandler)
	}
}
