package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// MemberOf restricts a projects query to projects the user belongs to.
func MemberOf(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("project_members").
				Select("project_id").
				Where("user_id = ?", userID))
	}
}
