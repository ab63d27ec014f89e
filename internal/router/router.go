package router

import (
	"Ink_Blog/internal/handler"
	"Ink_Blog/internal/middleware"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

// InitRouter 路由表。公开页挂 CurrentUser（可选身份），
// 写操作挂 LoginRequired（匿名 302 跳登录页并带 next）。
func InitRouter(db *gorm.DB, smtp pkg.SMTPConfig, cache *redis.PageCache) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(db, smtp)
	post := handler.NewPostHandler(db, cache)
	comment := handler.NewCommentHandler(db)
	follow := handler.NewFollowHandler(db)
	group := handler.NewGroupHandler(db)

	// 公开页
	r.GET("/", middleware.CurrentUser(), post.Index)
	r.GET("/group/:slug/", middleware.CurrentUser(), post.GroupPosts)
	r.GET("/groups/", middleware.CurrentUser(), group.List)
	r.GET("/profile/:username/", middleware.CurrentUser(), post.Profile)
	r.GET("/posts/:id/", middleware.CurrentUser(), post.Detail)

	// 登录态操作
	authed := r.Group("")
	authed.Use(middleware.LoginRequired())
	{
		authed.GET("/create/", post.CreateForm)
		authed.POST("/create/", post.Create)
		authed.GET("/posts/:id/edit/", post.EditForm)
		authed.POST("/posts/:id/edit/", post.Edit)
		authed.POST("/posts/:id/comment", comment.Add)
		authed.POST("/posts/:id/delete/", post.Delete)
		authed.GET("/profile/:username/follow/", follow.Follow)
		authed.GET("/profile/:username/unfollow/", follow.Unfollow)
		authed.GET("/follow/", follow.Feed)
	}

	// 管理操作
	admin := r.Group("")
	admin.Use(middleware.LoginRequired(), middleware.AdminRequired())
	{
		admin.POST("/cache/flush/", post.FlushCache)
		admin.POST("/groups/create/", group.Create)
		admin.POST("/groups/:id/delete/", group.Delete)
	}

	// 认证相关接口
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup/", user.Signup)
		authGroup.GET("/login/", user.LoginForm)
		authGroup.POST("/login/", user.Login)
		authGroup.POST("/logout/", middleware.CurrentUser(), user.Logout)
		authGroup.POST("/refresh/", user.TokenRefresh)
		authGroup.POST("/password-reset/code/", user.SendResetCode)
		authGroup.POST("/password-reset/", user.ResetPassword)
		authGroup.POST("/change-password/", middleware.LoginRequired(), user.ChangePassword)
	}

	r.NoRoute(func(c *gin.Context) {
		handler.NotFound(c)
	})

	return r
}
