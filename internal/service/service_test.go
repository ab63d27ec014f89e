package service

import (
	"fmt"
	"testing"
	"time"

	"Ink_Blog/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB 每个测试一套独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.FollowOutbox{},
	))
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "hash",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// mustCreatePost 用递增时间戳保证最新在前的排序可断言
func mustCreatePost(t *testing.T, db *gorm.DB, authorID uint64, text string, groupID *uint64, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		Text:      text,
		AuthorID:  authorID,
		GroupID:   groupID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func mustCreateGroup(t *testing.T, db *gorm.DB, title, slug string) *model.Group {
	t.Helper()
	group := &model.Group{Title: title}
	if slug != "" {
		group.Slug = &slug
	}
	require.NoError(t, db.Create(group).Error)
	return group
}
