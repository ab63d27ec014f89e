package service

import (
	"errors"
	"strings"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo     *mysql.CommentRepository
	postRepo *mysql.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:     &mysql.CommentRepository{DB: db},
		postRepo: &mysql.PostRepository{DB: db},
	}
}

// AddComment 帖子不存在 ErrNotFound；text 必填。
// 登录门槛在路由层，这里不重复校验。
func (s *CommentService) AddComment(postID, authorID uint64, text string) (*model.Comment, error) {
	post, err := s.postRepo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, pkg.ErrTextRequired
	}

	comment := &model.Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   post.ID,
	}
	if err = s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}
