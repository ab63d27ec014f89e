package model

import "time"

// Comment 帖子评论，随帖子级联删除
type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	Text      string `gorm:"type:text;not null"`
	AuthorID  uint64 `gorm:"not null;index"`
	PostID    uint64 `gorm:"not null;index"`
	Post      *Post  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
