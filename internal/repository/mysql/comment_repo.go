package mysql

import (
	"Ink_Blog/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

// ListByPost 帖子下全部评论，最新在前
func (r *CommentRepository) ListByPost(postID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) CountByPost(postID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
