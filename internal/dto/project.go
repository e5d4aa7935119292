package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Members     []MemberDTO          `json:"members,omitempty"`
}

// ProjectDetailDTO adds the caller's role to a project
type ProjectDetailDTO struct {
	ProjectDTO
	YourRole models.ProjectRole `json:"your_role"`
}

// ProjectSummaryDTO is the minimal project view nested in tasks
type ProjectSummaryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MemberDTO represents a project member
type MemberDTO struct {
	User     UserSummaryDTO     `json:"user"`
	Role     models.ProjectRole `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO. Members are included
// when they were preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if len(project.Members) > 0 {
		dto.Members = ToMemberDTOs(project.Members)
	}
	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	return lo.Map(projects, func(p models.Project, _ int) ProjectDTO {
		return ToProjectDTO(p)
	})
}

// ToProjectDetailDTO converts a project and the caller's role
func ToProjectDetailDTO(project models.Project, role models.ProjectRole) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		YourRole:   role,
	}
}

// ToMemberDTO converts a member to DTO
func ToMemberDTO(member models.ProjectMember) MemberDTO {
	return MemberDTO{
		User:     ToUserSummaryDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToMemberDTOs converts a slice of members
func ToMemberDTOs(members []models.ProjectMember) []MemberDTO {
	return lo.Map(members, func(m models.ProjectMember, _ int) MemberDTO {
		return ToMemberDTO(m)
	})
}
