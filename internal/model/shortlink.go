package model

import (
	"time"
)

// Shortlink 短链模型
type Shortlink struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"size:64;uniqueIndex;not null" json:"key"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Visits    int64     `gorm:"default:0" json:"visits"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Shortlink) TableName() string {
	return "shortlinks"
}
