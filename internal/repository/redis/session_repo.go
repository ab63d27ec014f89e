package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	SessionPrefix = "login:user:token"
	SessionExpire = 60 * 30
)

// SessionRepository 登录态存储：同一账号只保留最后一次登录的 token
type SessionRepository struct{}

func (r *SessionRepository) Add(usrID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", SessionPrefix, usrID)
	if err := Client.Set(context.Background(), key, token, time.Second*SessionExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(usrID uint64) (string, error) {
	key := fmt.Sprintf("%s:%d", SessionPrefix, usrID)
	token, err := Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 每次通过校验后顺延过期时间
func (r *SessionRepository) Extend(usrID uint64) error {
	key := fmt.Sprintf("%s:%d", SessionPrefix, usrID)
	_, err := Client.Expire(context.Background(), key, time.Second*SessionExpire).Result()
	if err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(usrID uint64) error {
	key := fmt.Sprintf("%s:%d", SessionPrefix, usrID)
	err := Client.Del(context.Background(), key).Err()
	if err != nil {
		return ErrTokenDeleted
	}
	return nil
}
