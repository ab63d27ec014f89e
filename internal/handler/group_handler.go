package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/service"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

type GroupHandler struct {
	svc *service.GroupService
}

type GroupCreateReq struct {
	Title       string `form:"title" json:"title"`
	Slug        string `form:"slug" json:"slug"`
	Description string `form:"description" json:"description"`
}

func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{svc: service.NewGroupService(db)}
}

// Create 建栏目（管理操作）
func (h *GroupHandler) Create(c *gin.Context) {
	var req GroupCreateReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	group, err := h.svc.CreateGroup(req.Title, req.Slug, req.Description)
	if errors.Is(err, pkg.ErrTitleRequired) {
		c.JSON(http.StatusOK, gin.H{"form": req, "errors": gin.H{"title": err.Error()}})
		return
	}
	if errors.Is(err, pkg.ErrSlugTaken) {
		c.JSON(http.StatusOK, gin.H{"form": req, "errors": gin.H{"slug": err.Error()}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": group.ID})
}

// List 栏目列表
func (h *GroupHandler) List(c *gin.Context) {
	list, pg, err := h.svc.ListGroups(pageParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": list, "page": pg})
}

// Delete 删栏目（管理操作），引用它的帖子保留
func (h *GroupHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid group id"})
		return
	}
	if err := h.svc.DeleteGroup(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
