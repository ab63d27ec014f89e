package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"

	SessionCookie = "session"
	LoginPath     = "/auth/login/"
)

// sessionToken 取会话凭证：优先 Authorization 头，退回 session cookie
func sessionToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// resolve 校验 token 并比对 redis 登录态，通过则返回 claims
func resolve(c *gin.Context) (*pkg.Claims, bool) {
	tokenStr := sessionToken(c)
	if tokenStr == "" {
		return nil, false
	}

	claims, err := pkg.ParseAccess(tokenStr)
	if err != nil {
		return nil, false
	}

	// redis校验是否是正确的token（异地登录会顶掉旧 token）
	sessions := &redis.SessionRepository{}
	origin, err := sessions.Get(claims.UserID)
	if err != nil || origin != tokenStr {
		return nil, false
	}

	// 校验通过后更新过期时间
	_ = sessions.Extend(claims.UserID)
	return claims, true
}

// LoginRequired 登录门槛：匿名请求 302 跳登录页并带上 next 参数
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolve(c)
		if !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, LoginPath+"?next="+next)
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// CurrentUser 公开页用：有会话就注入身份，没有也放行
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := resolve(c); ok {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextUserRoleKey, claims.Role)
		}
		c.Next()
	}
}

// AdminRequired 管理操作门槛，需在 LoginRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, ok := c.Get(ContextUserRoleKey)
		if !ok || roleAny.(int) < 1 {
			c.JSON(http.StatusForbidden, gin.H{"msg": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID 从上下文取当前用户，匿名返回 0
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
