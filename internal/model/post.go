package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time,priority:1"`
	GroupID   *uint64   `gorm:"index"` // 可空；group删除后置NULL，帖子保留
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Image     string    `gorm:"size:255"` // stored reference only, serving is external
	CreatedAt time.Time `gorm:"index:idx_author_time,priority:2,sort:desc"`
	UpdatedAt time.Time
}
