package routes

import (
	"github.com/danbi-app/danbi-backend/internal/handler"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	reportHandler *handler.ReportHandler,
	commentHandler *handler.CommentHandler,
	membershipHandler *handler.MembershipHandler,
	profileHandler *handler.ProfileHandler,
	pushHandler *handler.PushHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))

	// Current user
	api.GET("/me", profileHandler.Me)

	// Reports (알림장)
	reports := api.Group("/reports")
	{
		reports.GET("", reportHandler.ListReports)
		reports.POST("", reportHandler.CreateReport)
		reports.GET("/unread-count", reportHandler.UnreadCount)

		reports.GET("/:id", reportHandler.GetReport)
		reports.PATCH("/:id", reportHandler.UpdateReport)
		reports.DELETE("/:id", reportHandler.DeleteReport)
		reports.POST("/:id/read", reportHandler.MarkRead)
		reports.POST("/:id/remind", middleware.RequireAdmin(), reportHandler.Remind)

		// Realtime comment events (WebSocket)
		reports.GET("/:id/events", wsHandler.HandleReportEvents)

		comments := reports.Group("/:id/comments")
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.CreateComment)
			comments.PATCH("/:commentId", commentHandler.UpdateComment)
			comments.DELETE("/:commentId", commentHandler.DeleteComment)
		}
	}

	// Memberships (원아 등록 요청)
	memberships := api.Group("/memberships")
	{
		memberships.GET("", membershipHandler.ListMine)
		memberships.POST("", membershipHandler.Join)
		memberships.PATCH("/:id", middleware.RequireAdmin(), membershipHandler.Decide)
		memberships.DELETE("/:id", membershipHandler.Delete)
	}

	// Group-scoped pending requests (admin)
	api.GET("/groups/:id/requests", middleware.RequireAdmin(), membershipHandler.ListPending)

	// Web push subscriptions
	pushGroup := api.Group("/push")
	{
		pushGroup.POST("/subscribe", pushHandler.Subscribe)
		pushGroup.POST("/unsubscribe", pushHandler.Unsubscribe)
	}
}
