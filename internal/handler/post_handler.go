package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Ink_Blog/internal/middleware"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"
	"Ink_Blog/internal/service"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

const indexView = "index"

type PostHandler struct {
	svc      *service.PostService
	groupSvc *service.GroupService
	cache    *redis.PageCache
}

// PostForm 发帖/编辑表单。模板渲染在外部，这里收表单或 JSON 均可。
type PostForm struct {
	Text    string  `form:"text" json:"text"`
	GroupID *uint64 `form:"group_id" json:"group_id"`
	Image   string  `form:"image" json:"image"`
}

func NewPostHandler(db *gorm.DB, cache *redis.PageCache) *PostHandler {
	return &PostHandler{
		svc:      service.NewPostService(db),
		groupSvc: service.NewGroupService(db),
		cache:    cache,
	}
}

func pageParam(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return page
}

// fieldErrors 校验错误映射到表单字段。按约定返回 200 + errors，
// 对应表单重渲染，而不是错误页。
func fieldErrors(err error) (gin.H, bool) {
	switch {
	case errors.Is(err, pkg.ErrTextRequired):
		return gin.H{"text": err.Error()}, true
	case errors.Is(err, pkg.ErrGroupInvalid):
		return gin.H{"group": err.Error()}, true
	}
	return nil, false
}

// Index 首页。整页缓存：命中直接回旧字节，TTL 窗口内的脏读是设计取舍。
// 缓存只按视图名存，不区分 page 参数；写路径不做失效。
func (h *PostHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	if blob, err := h.cache.Get(ctx, indexView); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", blob)
		return
	}

	list, pg, err := h.svc.ListPosts(pageParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	body, err := json.Marshal(gin.H{"posts": list, "page": pg})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "render failed"})
		return
	}
	_ = h.cache.Set(ctx, indexView, body)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GroupPosts 栏目页，slug 不存在 404
func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, list, pg, err := h.svc.ListByGroup(c.Param("slug"), pageParam(c))
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "posts": list, "page": pg})
}

// Profile 个人主页 + 关注状态
func (h *PostHandler) Profile(c *gin.Context) {
	viewerID := middleware.UserID(c)
	profile, err := h.svc.ListByAuthor(c.Request.Context(), c.Param("username"), viewerID, pageParam(c))
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "profile failed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Detail 帖子详情 + 评论 + 评论表单占位
func (h *PostHandler) Detail(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	detail, err := h.svc.GetPost(id)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "detail failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":              detail.Post,
		"author_post_count": detail.AuthorPostCount,
		"comments":          detail.Comments,
		"form":              gin.H{"text": ""},
	})
}

// CreateForm GET /create/ 的表单数据
func (h *PostHandler) CreateForm(c *gin.Context) {
	groups, _, err := h.groupSvc.ListGroups(1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "form failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": gin.H{"text": "", "group_id": nil, "image": ""}, "groups": groups})
}

// Create 发帖成功后跳作者主页
func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(userID, form.Text, form.GroupID, form.Image)
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			c.JSON(http.StatusOK, gin.H{"form": form, "errors": fields})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "create failed"})
		return
	}

	username, err := h.svc.Username(post.AuthorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "create failed"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// EditForm GET 编辑表单；非作者直接跳详情页
func (h *PostHandler) EditForm(c *gin.Context) {
	userID := middleware.UserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	detail, err := h.svc.GetPost(id)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "edit failed"})
		return
	}
	if detail.Post.AuthorID != userID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
		return
	}

	groups, _, err := h.groupSvc.ListGroups(1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "edit failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form": gin.H{
			"text":     detail.Post.Text,
			"group_id": detail.Post.GroupID,
			"image":    detail.Post.Image,
		},
		"groups":  groups,
		"is_edit": true,
	})
}

// Edit 非作者不报错，静默跳回详情页；成功也跳详情页
func (h *PostHandler) Edit(c *gin.Context) {
	userID := middleware.UserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	_, owned, err := h.svc.EditPost(id, userID, form.Text, form.GroupID, form.Image)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if !owned {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
		return
	}
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			c.JSON(http.StatusOK, gin.H{"form": form, "errors": fields, "is_edit": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "edit failed"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
}

// Delete 删除自己的帖子后跳回主页；非作者跳详情页
func (h *PostHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	owned, err := h.svc.DeletePost(id, userID)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "delete failed"})
		return
	}
	if !owned {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
		return
	}

	username, err := h.svc.Username(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "delete failed"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// FlushCache 管理操作：显式清空页缓存
func (h *PostHandler) FlushCache(c *gin.Context) {
	if err := h.cache.Flush(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "flush failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "flushed"})
}

// NotFound 统一的 404 页
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"msg": "page not found"})
}
