package service

import (
	"context"
	"errors"
	"log"
	"time"

	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/mysql"

	"gorm.io/gorm"
)

type FollowService struct {
	repo     *mysql.FollowRepository
	userRepo *mysql.UserRepository
	postRepo *mysql.PostRepository
}

type Sender func(ctx context.Context, ob *model.FollowOutbox) error

// OutboxRelayer 定时把 outbox 里的关注事件投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		repo:     &mysql.FollowRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		postRepo: &mysql.PostRepository{DB: db},
	}
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Follow 关注作者。作者不存在 ErrNotFound；自关注与重复关注都是 no-op，
// changed=false 时 handler 跳回个人主页，真正建边时跳订阅流。
func (s *FollowService) Follow(ctx context.Context, followerID uint64, authorUsername string) (bool, error) {
	author, err := s.userRepo.FindByUsername(authorUsername)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkg.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	if followerID == author.ID {
		return false, nil
	}
	return s.repo.Follow(ctx, followerID, author.ID)
}

// Unfollow 取关。没有边时 changed=false 且不报错。
func (s *FollowService) Unfollow(ctx context.Context, followerID uint64, authorUsername string) (bool, error) {
	author, err := s.userRepo.FindByUsername(authorUsername)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkg.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	if followerID == author.ID {
		return false, nil
	}
	return s.repo.Unfollow(ctx, followerID, author.ID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error) {
	if followerID == 0 || authorID == 0 {
		return false, errors.New("invalid user id")
	}
	return s.repo.Exists(ctx, followerID, authorID)
}

// ListFeed 订阅流：所有已关注作者的帖子并集，最新在前
func (s *FollowService) ListFeed(followerID uint64, page int) ([]model.Post, pkg.Page, error) {
	total, err := s.postRepo.CountFeed(followerID)
	if err != nil {
		return nil, pkg.Page{}, err
	}
	pg := pkg.Paginate(total, pkg.DefaultPageSize, page)
	list, err := s.postRepo.ListFeed(followerID, pg.Offset(), pg.Size)
	return list, pg, err
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 从 outbox 表读一批事件交给 sender
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 默认 sender：只打日志，没配 kafka 时用
func LogSender(ctx context.Context, ob *model.FollowOutbox) error {
	log.Printf("OUTBOX SEND type=%s user=%d author=%d payload=%s", ob.EventType, ob.UserID, ob.AuthorID, ob.Payload)
	return nil
}

// KafkaSender 按关注者 ID 作 key 投递到 kafka
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.FollowOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.UserID), []byte(ob.Payload))
	}
}
