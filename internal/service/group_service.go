package service

import (
	"errors"
	"strings"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/mysql"

	"gorm.io/gorm"
)

type GroupService struct {
	repo *mysql.GroupRepository
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{
		repo: &mysql.GroupRepository{DB: db},
	}
}

// CreateGroup slug 可空；给了就必须唯一
func (s *GroupService) CreateGroup(title, slug, desc string) (*model.Group, error) {
	if strings.TrimSpace(title) == "" {
		return nil, pkg.ErrTitleRequired
	}

	group := &model.Group{
		Title:       title,
		Description: desc,
	}
	if slug = strings.TrimSpace(slug); slug != "" {
		if _, err := s.repo.FindBySlug(slug); err == nil {
			return nil, pkg.ErrSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		group.Slug = &slug
	}

	if err := s.repo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetBySlug(slug string) (*model.Group, error) {
	group, err := s.repo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return group, err
}

func (s *GroupService) ListGroups(page int) ([]model.Group, pkg.Page, error) {
	total, err := s.repo.Count()
	if err != nil {
		return nil, pkg.Page{}, err
	}
	pg := pkg.Paginate(total, pkg.DefaultPageSize, page)
	list, err := s.repo.List(pg.Offset(), pg.Size)
	return list, pg, err
}

// DeleteGroup 幂等；引用它的帖子 group 置空
func (s *GroupService) DeleteGroup(id uint64) error {
	return s.repo.DeleteByID(id)
}
