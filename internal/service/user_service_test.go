package service

import (
	"testing"

	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	require.NoError(t, redis.Init(mr.Addr(), "", 0))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(db, NewEmailService(pkg.SMTPConfig{}))

	require.NoError(t, svc.Register("leo", "pass123", "leo@example.com"))

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login("leo", "nope")
		assert.Error(t, err)
	})

	t.Run("login issues pair and stores session", func(t *testing.T) {
		pair, err := svc.Login("leo", "pass123")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)

		claims, err := pkg.ParseAccess(pair.AccessToken)
		require.NoError(t, err)

		sessions := &redis.SessionRepository{}
		stored, err := sessions.Get(claims.UserID)
		require.NoError(t, err)
		assert.Equal(t, pair.AccessToken, stored)

		// 邮箱也能登录
		_, err = svc.Login("leo@example.com", "pass123")
		require.NoError(t, err)
	})

	t.Run("logout drops session", func(t *testing.T) {
		pair, err := svc.Login("leo", "pass123")
		require.NoError(t, err)
		claims, err := pkg.ParseAccess(pair.AccessToken)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(claims.UserID))
		_, err = (&redis.SessionRepository{}).Get(claims.UserID)
		assert.ErrorIs(t, err, redis.ErrTokenNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(db, NewEmailService(pkg.SMTPConfig{}))

	require.NoError(t, svc.Register("leo", "old-pass", "leo@example.com"))
	pair, err := svc.Login("leo", "old-pass")
	require.NoError(t, err)
	claims, err := pkg.ParseAccess(pair.AccessToken)
	require.NoError(t, err)

	assert.Error(t, svc.ChangePassword(claims.UserID, "wrong", "new-pass"))
	require.NoError(t, svc.ChangePassword(claims.UserID, "old-pass", "new-pass"))

	// 旧会话被踢掉，新密码可登录
	_, err = (&redis.SessionRepository{}).Get(claims.UserID)
	assert.ErrorIs(t, err, redis.ErrTokenNotFound)
	_, err = svc.Login("leo", "new-pass")
	require.NoError(t, err)
}
