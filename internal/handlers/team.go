package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/logutils"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TeamHandler serves project membership and invitation endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// InviteMember adds an existing user or emails a signup invitation
func (h *TeamHandler) InviteMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type InviteRequest struct {
		Email string              `json:"email" binding:"required,email"`
		Role  services.InviteRole `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	projectID := middleware.GetID(c, middleware.ContextKeyProjectID)
	result, err := h.teamService.Invite(c.Request.Context(), services.InviteInput{
		ProjectID: projectID,
		ActorID:   userID,
		Email:     req.Email,
		Role:      req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"actor_id":   userID,
		"outcome":    result.Outcome,
	}).Info("project invite processed")

	c.JSON(http.StatusCreated, dto.ToInviteResponse(*result))
}

// ListMembers returns the project's members, newest first
func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	members, err := h.teamService.GetProjectMembers(c.Request.Context(), middleware.GetID(c, middleware.ContextKeyProjectID), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToMemberDTOs(members),
	})
}

// ListInvitations returns the project's unexpired invitations
func (h *TeamHandler) ListInvitations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invitations, err := h.teamService.ListPendingInvitations(c.Request.Context(), middleware.GetID(c, middleware.ContextKeyProjectID), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": dto.ToInvitationDTOs(invitations),
	})
}

// ValidateInvitation lets the signup page check a token before submitting.
// It is served without authentication.
func (h *TeamHandler) ValidateInvitation(c *gin.Context) {
	preview, err := h.teamService.ValidateInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationPreviewDTO(*preview))
}
