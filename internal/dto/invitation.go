package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// InvitationDTO represents a pending invitation. The token is never exposed.
type InvitationDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	ProjectID uint64    `json:"project_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteResponse reports which invite path was taken
type InviteResponse struct {
	Outcome    services.InviteOutcome `json:"outcome"`
	Message    string                 `json:"message"`
	Member     *MemberDTO             `json:"member,omitempty"`
	Invitation *InvitationDTO         `json:"invitation,omitempty"`
}

// InvitationPreviewDTO is shown on the signup page for an invitation link
type InvitationPreviewDTO struct {
	Email       string    `json:"email"`
	ProjectID   uint64    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		Email:     invitation.Email,
		ProjectID: invitation.ProjectID,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}
}

func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	return lo.Map(invitations, func(inv models.Invitation, _ int) InvitationDTO {
		return ToInvitationDTO(inv)
	})
}

func ToInviteResponse(result services.InviteResult) InviteResponse {
	resp := InviteResponse{
		Outcome: result.Outcome,
		Message: result.Message,
	}
	if result.Member != nil {
		member := ToMemberDTO(*result.Member)
		resp.Member = &member
	}
	if result.Invitation != nil {
		invitation := ToInvitationDTO(*result.Invitation)
		resp.Invitation = &invitation
	}
	return resp
}

func ToInvitationPreviewDTO(preview services.InvitationPreview) InvitationPreviewDTO {
	return InvitationPreviewDTO{
		Email:       preview.Email,
		ProjectID:   preview.ProjectID,
		ProjectName: preview.ProjectName,
		ExpiresAt:   preview.ExpiresAt,
	}
}
