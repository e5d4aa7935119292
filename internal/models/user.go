package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationPreferences is stored as a JSON column on the user row.
type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

type User struct {
	ID                uint64                                      `gorm:"primarykey" json:"id"`
	Email             string                                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name              string                                      `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash      string                                      `gorm:"type:varchar(255);not null" json:"-"`
	Timezone          string                                      `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Notifications     datatypes.JSONType[NotificationPreferences] `json:"notifications"`
	ProfilePictureURL string                                      `gorm:"type:varchar(1024)" json:"profile_picture_url"`
	CreatedAt         time.Time                                   `json:"created_at"`
	UpdatedAt         time.Time                                   `json:"updated_at"`
	DeletedAt         gorm.DeletedAt                              `gorm:"index" json:"-"`

	// Relations
	CreatedTasks  []Task          `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task          `gorm:"foreignKey:AssigneeID" json:"-"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}
