package mysql

import (
	"Ink_Blog/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// List 全量帖子，最新在前
func (r *PostRepository) List(offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByGroup(groupID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByGroup(groupID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Where("group_id = ?", groupID).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByAuthor(authorID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByAuthor(authorID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// ListFeed 订阅流：关注作者的帖子并集，最新在前
func (r *PostRepository) ListFeed(userID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.Model(&model.Post{}).
		Joins("JOIN follow ON follow.author_id = posts.author_id").
		Where("follow.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountFeed(userID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).
		Joins("JOIN follow ON follow.author_id = posts.author_id").
		Where("follow.user_id = ?", userID).
		Count(&n).Error
	return n, err
}

// Update 原地更新，id 和 author 不变
func (r *PostRepository) Update(post *model.Post) error {
	return r.DB.Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Delete 硬删除，评论一并删除
func (r *PostRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}
