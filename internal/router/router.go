package router

import (
	"citylink/internal/handlers"
	"citylink/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, feed *services.FeedService) {
	feedHandler := handlers.NewFeedHandler(feed)

	api := r.Group("/api")
	{
		api.GET("/feed", feedHandler.List)       // 信息流列表
		api.POST("/feed", feedHandler.Create)    // 发布内容
		api.GET("/feed/:id", feedHandler.Detail) // 内容详情

		api.POST("/feed/:id/view", feedHandler.View)              // 浏览量 +1
		api.POST("/feed/:id/reaction", feedHandler.React)         // 点赞/表态
		api.POST("/feed/:id/poll/vote", feedHandler.VotePoll)     // 投票
		api.POST("/feed/:id/survey/vote", feedHandler.VoteSurvey) // 提交问卷
	}
}
