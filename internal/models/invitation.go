package models

import "time"

// Invitation is a pending, single-use offer for an email address without an
// account to join a project. It is consumed at signup.
type Invitation struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Email       string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Token       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ProjectID   uint64    `gorm:"not null;index" json:"project_id"`
	InvitedByID uint64    `gorm:"not null" json:"invited_by_id"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`
	InvitedBy User    `gorm:"foreignKey:InvitedByID" json:"-"`
}

// Expired reports whether the invitation can no longer be redeemed at now.
func (i *Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
