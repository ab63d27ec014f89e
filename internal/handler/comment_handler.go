package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Ink_Blog/internal/middleware"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/service"

	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CommentForm struct {
	Text string `form:"text" json:"text"`
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{svc: service.NewCommentService(db)}
}

// Add 评论成功后跳回帖子详情
func (h *CommentHandler) Add(c *gin.Context) {
	userID := middleware.UserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	_, err := h.svc.AddComment(postID, userID, form.Text)
	if errors.Is(err, pkg.ErrNotFound) {
		NotFound(c)
		return
	}
	if errors.Is(err, pkg.ErrTextRequired) {
		c.JSON(http.StatusOK, gin.H{"form": form, "errors": gin.H{"text": err.Error()}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "comment failed"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", postID))
}
