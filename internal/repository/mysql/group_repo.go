package mysql

import (
	"Ink_Blog/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func (r *GroupRepository) Create(g *model.Group) error {
	return r.DB.Create(g).Error
}

func (r *GroupRepository) FindByID(id uint64) (*model.Group, error) {
	var group model.Group
	err := r.DB.First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindBySlug(slug string) (*model.Group, error) {
	var group model.Group
	err := r.DB.Where("slug = ?", slug).First(&group).Error
	return &group, err
}

func (r *GroupRepository) List(offset, limit int) ([]model.Group, error) {
	var list []model.Group
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *GroupRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Group{}).Count(&n).Error
	return n, err
}

// DeleteByID 删除 group，引用它的帖子保留，group_id 置空
func (r *GroupRepository) DeleteByID(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		// 幂等：已不存在也视为成功
		return tx.Delete(&model.Group{}, id).Error
	})
}
