package main

import (
	"github.com/gin-gonic/gin"

	"succession-go/internal/handler"
	"succession-go/internal/middleware"
	"succession-go/pkg/metrics"
	"succession-go/pkg/token"
)

// setupRouter 注册全部路由。查询接口公开访问，变更接口需要管理员 token。
func setupRouter(memberHandler *handler.MemberHandler, jwtManager *token.JWTManager, recorder *metrics.Recorder) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/metrics", gin.WrapH(recorder.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		members := apiV1.Group("/members")
		{
			members.GET("", memberHandler.ListMembers)
			members.GET("/tree", memberHandler.GetMemberTree)
			members.GET("/compare", memberHandler.CompareRank)
			members.GET("/:id", memberHandler.GetMember)
			members.GET("/:id/subordinates", memberHandler.GetSubordinates)
			members.GET("/:id/big-boss", memberHandler.IsBigBoss)

			// 管理员路由，需要同时通过认证和管理员授权两个中间件
			admin := members.Group("")
			admin.Use(middleware.AuthMiddleware(jwtManager), middleware.AdminAuthMiddleware())
			{
				admin.POST("", memberHandler.AddMember)
				admin.POST("/load", memberHandler.LoadRoster)
				admin.POST("/reload", memberHandler.ReloadRoster)
				admin.POST("/:id/remove", memberHandler.RemoveMember)
				admin.POST("/:id/restore", memberHandler.RestoreMember)
			}
		}
	}
	return r
}
