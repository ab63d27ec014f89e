package service

import (
	"context"
	"errors"
	"strings"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo        *mysql.PostRepository
	groupRepo   *mysql.GroupRepository
	userRepo    *mysql.UserRepository
	commentRepo *mysql.CommentRepository
	followRepo  *mysql.FollowRepository
}

// Profile 个人主页数据：帖子分页 + 总数 + 当前浏览者是否已关注
type Profile struct {
	Author    *model.User  `json:"author"`
	Posts     []model.Post `json:"posts"`
	Page      pkg.Page     `json:"page"`
	PostCount int64        `json:"post_count"`
	Following bool         `json:"following"`
}

// PostDetail 帖子详情数据
type PostDetail struct {
	Post            *model.Post     `json:"post"`
	AuthorPostCount int64           `json:"author_post_count"`
	Comments        []model.Comment `json:"comments"`
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:        &mysql.PostRepository{DB: db},
		groupRepo:   &mysql.GroupRepository{DB: db},
		userRepo:    &mysql.UserRepository{DB: db},
		commentRepo: &mysql.CommentRepository{DB: db},
		followRepo:  &mysql.FollowRepository{DB: db},
	}
}

// ListPosts 首页列表，最新在前
func (s *PostService) ListPosts(page int) ([]model.Post, pkg.Page, error) {
	total, err := s.repo.Count()
	if err != nil {
		return nil, pkg.Page{}, err
	}
	pg := pkg.Paginate(total, pkg.DefaultPageSize, page)
	list, err := s.repo.List(pg.Offset(), pg.Size)
	return list, pg, err
}

// ListByGroup slug 不存在返回 ErrNotFound
func (s *PostService) ListByGroup(slug string, page int) (*model.Group, []model.Post, pkg.Page, error) {
	group, err := s.groupRepo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkg.Page{}, pkg.ErrNotFound
	}
	if err != nil {
		return nil, nil, pkg.Page{}, err
	}

	total, err := s.repo.CountByGroup(group.ID)
	if err != nil {
		return nil, nil, pkg.Page{}, err
	}
	pg := pkg.Paginate(total, pkg.DefaultPageSize, page)
	list, err := s.repo.ListByGroup(group.ID, pg.Offset(), pg.Size)
	return group, list, pg, err
}

// ListByAuthor 个人主页。viewerID 为 0 表示匿名浏览，following 恒为 false。
func (s *PostService) ListByAuthor(ctx context.Context, username string, viewerID uint64, page int) (*Profile, error) {
	author, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}
	pg := pkg.Paginate(total, pkg.DefaultPageSize, page)
	list, err := s.repo.ListByAuthor(author.ID, pg.Offset(), pg.Size)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		if following, err = s.followRepo.Exists(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}

	author.Password = ""
	return &Profile{
		Author:    author,
		Posts:     list,
		Page:      pg,
		PostCount: total,
		Following: following,
	}, nil
}

// GetPost 详情：帖子 + 作者帖子总数 + 评论（最新在前）
func (s *PostService) GetPost(id uint64) (*PostDetail, error) {
	post, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountByAuthor(post.AuthorID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, AuthorPostCount: count, Comments: comments}, nil
}

// CreatePost text 必填；groupID 给了就必须存在
func (s *PostService) CreatePost(authorID uint64, text string, groupID *uint64, image string) (*model.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, pkg.ErrTextRequired
	}
	if groupID != nil {
		if _, err := s.groupRepo.FindByID(*groupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkg.ErrGroupInvalid
			}
			return nil, err
		}
	}

	post := &model.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost 原地更新，id 与 author 不变。
// 非作者不报错：owned=false 返回原帖，handler 静默跳回详情页。
func (s *PostService) EditPost(postID, userID uint64, text string, groupID *uint64, image string) (*model.Post, bool, error) {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkg.ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	if post.AuthorID != userID {
		return post, false, nil
	}

	if strings.TrimSpace(text) == "" {
		return post, true, pkg.ErrTextRequired
	}
	if groupID != nil {
		if _, err = s.groupRepo.FindByID(*groupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return post, true, pkg.ErrGroupInvalid
			}
			return post, true, err
		}
	}

	post.Text = text
	post.GroupID = groupID
	if image != "" {
		post.Image = image
	}
	if err = s.repo.Update(post); err != nil {
		return post, true, err
	}
	return post, true, nil
}

// DeletePost 仅作者可删，评论级联删除。非作者同样静默处理。
func (s *PostService) DeletePost(postID, userID uint64) (bool, error) {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkg.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	if post.AuthorID != userID {
		return false, nil
	}
	return true, s.repo.Delete(postID)
}

// Username handler 拼 redirect 路径用
func (s *PostService) Username(userID uint64) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
