package model

import "time"

// Follow 关注边：UserID 的订阅流包含 AuthorID 的帖子。
// (user_id, author_id) 唯一索引保证并发下不会出现重复边。
type Follow struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index:idx_user_id;uniqueIndex:uk_user_author"`
	AuthorID  uint64 `gorm:"not null;index:idx_author_id;uniqueIndex:uk_user_author"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follow"
}

// FollowOutbox 关注事件监控表
type FollowOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // follow / unfollow
	UserID    uint64 `gorm:"not null"`
	AuthorID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FollowOutbox) TableName() string { return "follow_outbox" }
