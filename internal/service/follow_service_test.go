package service

import (
	"context"
	"testing"
	"time"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	leo := mustCreateUser(t, db, "leo")
	mia := mustCreateUser(t, db, "mia")

	changed, err := svc.Follow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	assert.True(t, changed)

	// 重复关注不建新边
	changed, err = svc.Follow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	assert.False(t, changed)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", leo.ID, mia.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	ok, err := svc.IsFollowing(ctx, leo.ID, mia.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Follow(ctx, leo.ID, "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSelfFollowNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	leo := mustCreateUser(t, db, "leo")

	changed, err := svc.Follow(context.Background(), leo.ID, "leo")
	require.NoError(t, err)
	assert.False(t, changed)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUnfollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	leo := mustCreateUser(t, db, "leo")
	mustCreateUser(t, db, "mia")

	// 没有边时取关：不报错，也不产生边
	changed, err := svc.Unfollow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.Follow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.Unfollow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	assert.True(t, changed)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = svc.Unfollow(ctx, leo.ID, "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestListFeed(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	reader := mustCreateUser(t, db, "reader")
	followed := mustCreateUser(t, db, "followed")
	ignored := mustCreateUser(t, db, "ignored")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mustCreatePost(t, db, followed.ID, "yes 1", nil, base)
	mustCreatePost(t, db, ignored.ID, "no", nil, base.Add(time.Minute))
	mustCreatePost(t, db, followed.ID, "yes 2", nil, base.Add(2*time.Minute))

	_, err := svc.Follow(ctx, reader.ID, "followed")
	require.NoError(t, err)

	list, pg, err := svc.ListFeed(reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), pg.Total)
	// 只含关注作者的帖子，最新在前
	assert.Equal(t, "yes 2", list[0].Text)
	assert.Equal(t, "yes 1", list[1].Text)
	for _, p := range list {
		assert.Equal(t, followed.ID, p.AuthorID)
	}

	// 取关后订阅流清空
	_, err = svc.Unfollow(ctx, reader.ID, "followed")
	require.NoError(t, err)
	list, _, err = svc.ListFeed(reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFollowWritesOutbox(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()
	leo := mustCreateUser(t, db, "leo")
	mia := mustCreateUser(t, db, "mia")

	_, err := svc.Follow(ctx, leo.ID, "mia")
	require.NoError(t, err)
	_, err = svc.Unfollow(ctx, leo.ID, "mia")
	require.NoError(t, err)

	var rows []model.FollowOutbox
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "follow", rows[0].EventType)
	assert.Equal(t, "unfollow", rows[1].EventType)
	assert.Equal(t, leo.ID, rows[0].UserID)
	assert.Equal(t, mia.ID, rows[0].AuthorID)

	// relayer 把待投递行标记为已发送
	delivered := 0
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.FollowOutbox) error {
		delivered++
		return nil
	})
	relayer.drainOnce(ctx)
	assert.Equal(t, 2, delivered)

	var pending int64
	require.NoError(t, db.Model(&model.FollowOutbox{}).Where("status = 0").Count(&pending).Error)
	assert.Zero(t, pending)
}
