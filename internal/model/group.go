package model

import "time"

// Group 帖子所属的话题/栏目，可选
type Group struct {
	ID          uint64  `gorm:"primaryKey"`
	Title       string  `gorm:"size:200;not null"`
	Slug        *string `gorm:"uniqueIndex;size:200"` // unique when set, NULL allowed
	Description string  `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string {
	return "groups"
}
