package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/mail"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/outbox"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// InviteRole is the role requested when inviting someone to a project.
type InviteRole string

const (
	InviteRoleMember InviteRole = "MEMBER"
	InviteRoleAdmin  InviteRole = "ADMIN"
)

// ProjectRole maps an invite role onto a membership role.
func (r InviteRole) ProjectRole() (models.ProjectRole, bool) {
	switch r {
	case InviteRoleMember, "":
		return models.RoleMember, true
	case InviteRoleAdmin:
		return models.RoleOwner, true
	}
	return "", false
}

// InviteOutcome tells the caller which of the two invite paths was taken.
type InviteOutcome string

const (
	InviteOutcomeAdded   InviteOutcome = "added"
	InviteOutcomeInvited InviteOutcome = "invited"
)

// TeamService handles project membership and invitations.
type TeamService struct {
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	authz          policy.Authorizer
	renderer       *mail.Renderer
	appURL         string
	now            func() time.Time
}

// NewTeamService creates a new TeamService. appURL is the dashboard base URL
// used for links in emails.
func NewTeamService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationRepository,
	authz policy.Authorizer,
	renderer *mail.Renderer,
	appURL string,
) *TeamService {
	return &TeamService{
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		authz:          authz,
		renderer:       renderer,
		appURL:         appURL,
		now:            time.Now,
	}
}

// InviteInput represents an invitation request.
type InviteInput struct {
	ProjectID uint64
	ActorID   uint64
	Email     string
	Role      InviteRole
}

// InviteResult is returned by Invite. Exactly one of Member or Invitation is set.
type InviteResult struct {
	Outcome    InviteOutcome
	Message    string
	Member     *models.ProjectMember
	Invitation *models.Invitation
}

// Invite adds an existing user to the project directly, or issues a
// single-use signup invitation when no account exists for the email. Either
// way one notification email is queued in the same transaction.
func (s *TeamService) Invite(ctx context.Context, input InviteInput) (*InviteResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	role, ok := input.Role.ProjectRole()
	if !ok {
		return nil, ErrInvalidRole
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.Authorize(ctx, input.ActorID, input.ProjectID, policy.ActionInviteMember); err != nil {
		return nil, err
	}

	inviter, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inviter: %w", err)
	}
	inviterName := inviter.Name
	if inviterName == "" {
		inviterName = inviter.Email
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.addExistingUser(ctx, project, existing, role, inviterName)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.inviteNewUser(ctx, project, email, input.ActorID, inviterName)
	default:
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}
}

func (s *TeamService) addExistingUser(ctx context.Context, project *models.Project, user *models.User, role models.ProjectRole, inviterName string) (*InviteResult, error) {
	if _, err := s.projectRepo.FindMember(ctx, project.ID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	subject, html, err := s.renderer.MemberAdded(mail.MemberAddedData{
		ProjectName: project.Name,
		InviterName: inviterName,
		ProjectURL:  fmt.Sprintf("%s/dashboard/projects/%d", s.appURL, project.ID),
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  now,
	}
	if err := s.projectRepo.AddMember(ctx, member, outbox.NewEmail(user.Email, subject, html, now)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return &InviteResult{
		Outcome: InviteOutcomeAdded,
		Message: "User added to project successfully",
		Member:  member,
	}, nil
}

func (s *TeamService) inviteNewUser(ctx context.Context, project *models.Project, email string, inviterID uint64, inviterName string) (*InviteResult, error) {
	token, err := utils.GenerateToken(constants.InvitationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	now := s.now()
	invitation := &models.Invitation{
		Email:       email,
		Token:       token,
		ProjectID:   project.ID,
		InvitedByID: inviterID,
		ExpiresAt:   now.Add(constants.InvitationTTL),
	}

	subject, html, err := s.renderer.Invitation(mail.InvitationData{
		ProjectName: project.Name,
		InviterName: inviterName,
		SignupURL:   SignupURL(s.appURL, token),
		ExpiresAt:   invitation.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invitationRepo.Create(ctx, invitation, outbox.NewEmail(email, subject, html, now)); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &InviteResult{
		Outcome:    InviteOutcomeInvited,
		Message:    "Invitation sent successfully",
		Invitation: invitation,
	}, nil
}

// SignupURL is the dashboard link carried by invitation emails.
func SignupURL(appURL, token string) string {
	return appURL + "/auth/signup?token=" + token
}

// InvitationPreview is what an unauthenticated visitor may learn about a token.
type InvitationPreview struct {
	Email       string
	ProjectID   uint64
	ProjectName string
	ExpiresAt   time.Time
}

// ValidateInvitation checks that a token can still be redeemed.
func (s *TeamService) ValidateInvitation(ctx context.Context, token string) (*InvitationPreview, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Expired(s.now()) {
		return nil, ErrInvitationExpired
	}

	if _, err := s.userRepo.FindByEmail(ctx, invitation.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	return &InvitationPreview{
		Email:       invitation.Email,
		ProjectID:   invitation.ProjectID,
		ProjectName: invitation.Project.Name,
		ExpiresAt:   invitation.ExpiresAt,
	}, nil
}

// GetProjectMembers lists a project's members, newest first.
func (s *TeamService) GetProjectMembers(ctx context.Context, projectID, actorID uint64) ([]models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.Authorize(ctx, actorID, projectID, policy.ActionViewProject); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ListPendingInvitations lists the unexpired invitations of a project. Only
// roles allowed to invite may see them.
func (s *TeamService) ListPendingInvitations(ctx context.Context, projectID, actorID uint64) ([]models.Invitation, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.Authorize(ctx, actorID, projectID, policy.ActionInviteMember); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	now := s.now()
	return lo.Filter(invitations, func(inv models.Invitation, _ int) bool {
		return !inv.Expired(now)
	}), nil
}
