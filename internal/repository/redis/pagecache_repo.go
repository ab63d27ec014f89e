package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PageCachePrefix = "cache:page"

	// DefaultPageTTL 首页整页缓存时长。窗口内读到旧数据是刻意的取舍，
	// 用读新鲜度换更少的数据库压力。
	DefaultPageTTL = 20 * time.Second
)

var (
	ErrCacheMiss      = errors.New("page cache miss")
	ErrCacheSetFailed = errors.New("page cache set failed")
)

// PageCache 整页缓存：按视图名存渲染好的字节，不区分查询参数。
// 并发写是 last-writer-wins，不加锁。
type PageCache struct {
	TTL time.Duration
}

func (p *PageCache) ttl() time.Duration {
	if p.TTL > 0 {
		return p.TTL
	}
	return DefaultPageTTL
}

func (p *PageCache) key(view string) string {
	return PageCachePrefix + ":" + view
}

func (p *PageCache) Get(ctx context.Context, view string) ([]byte, error) {
	blob, err := Client.Get(ctx, p.key(view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (p *PageCache) Set(ctx context.Context, view string, blob []byte) error {
	if err := Client.Set(ctx, p.key(view), blob, p.ttl()).Err(); err != nil {
		return ErrCacheSetFailed
	}
	return nil
}

// Flush 管理操作：清掉全部页缓存。写路径不做失效，只有这里和自然过期。
func (p *PageCache) Flush(ctx context.Context) error {
	iter := Client.Scan(ctx, 0, PageCachePrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
