package models

import "time"

type Tag struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);not null;default:'#3b82f6'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskTag is the join row behind Task.Tags. It is registered with
// SetupJoinTable so association writes go through this model.
type TaskTag struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	TagID     uint64    `gorm:"primarykey;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
