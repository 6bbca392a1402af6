package routes

import (
	"debatedojo/controllers"

	"github.com/gin-gonic/gin"
)

// SetupDebateRoutes sets up the debate trainer endpoints
func SetupDebateRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/debate", controllers.DebateTurn)
		api.GET("/session", controllers.CreateSessionToken)
	}
}
