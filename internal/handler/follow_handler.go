package handler

import (
	"errors"
	"fmt"
	"net/http"

	"Ink_Blog/internal/middleware"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/service"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(db *gorm.DB) *FollowHandler {
	return &FollowHandler{svc: service.NewFollowService(db)}
}

// Follow 新建关注边跳订阅流；自关注/重复关注跳回作者主页
func (h *FollowHandler) Follow(c *gin.Context) {
	uid := middleware.UserID(c)
	username := c.Param("username")

	changed, err := h.svc.Follow(c.Request.Context(), uid, username)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "follow failed"})
		return
	}
	if changed {
		c.Redirect(http.StatusFound, "/follow/")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// Unfollow 删边跳订阅流；本来就没有边时跳回作者主页
func (h *FollowHandler) Unfollow(c *gin.Context) {
	uid := middleware.UserID(c)
	username := c.Param("username")

	changed, err := h.svc.Unfollow(c.Request.Context(), uid, username)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "unfollow failed"})
		return
	}
	if changed {
		c.Redirect(http.StatusFound, "/follow/")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// Feed 订阅流
func (h *FollowHandler) Feed(c *gin.Context) {
	uid := middleware.UserID(c)

	list, pg, err := h.svc.ListFeed(uid, pageParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "feed failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list, "page": pg})
}
