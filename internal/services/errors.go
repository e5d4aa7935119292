package services

import (
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// Errors returned by the services. Handlers render them with apierrors.Respond.
// Every value carries its own code so callers can tell them apart.
var (
	ErrUserNotFound       = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeUserNotFound, "User not found")
	ErrProjectNotFound    = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeProjectNotFound, "Project not found")
	ErrTaskNotFound       = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeTaskNotFound, "Task not found")
	ErrTagNotFound        = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeTagNotFound, "Tag not found")
	ErrMemberNotFound     = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeMemberNotFound, "Project member not found")
	ErrInvitationNotFound = apierrors.NewWithCode(apierrors.KindNotFound, apierrors.ErrCodeInvitationNotFound, "Invitation not found")

	ErrInvitationExpired = apierrors.New(apierrors.KindExpiredToken, "Invitation has expired")

	ErrEmailTaken    = apierrors.NewWithCode(apierrors.KindConflict, apierrors.ErrCodeAlreadyExists, "An account with this email already exists")
	ErrAlreadyMember = apierrors.NewWithCode(apierrors.KindConflict, apierrors.ErrCodeAlreadyMember, "User is already a member of this project")

	ErrInvalidCredentials = apierrors.NewWithCode(apierrors.KindUnauthorized, apierrors.ErrCodeInvalidCredentials, "Invalid email or password")

	ErrInvalidEmail         = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidEmail, "Invalid email address")
	ErrPasswordTooShort     = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodePasswordTooShort, "Password must be at least 6 characters")
	ErrNameRequired         = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeNameRequired, "Name is required")
	ErrTitleRequired        = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeTitleRequired, "Task title is required")
	ErrInvalidTimezone      = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidTimezone, "Unknown timezone")
	ErrInvalidStatus        = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidStatus, "Invalid status")
	ErrInvalidPriority      = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidPriority, "Invalid priority")
	ErrInvalidRole          = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidRole, "Invalid role")
	ErrInvalidTags          = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidTags, "One or more tags do not exist")
	ErrInvalidAssignee      = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidAssignee, "Assignee must be a member of the project")
	ErrEmailMismatch        = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeEmailMismatch, "Email does not match the invitation")
	ErrCannotRemoveYourself = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeInvalidOperation, "Owners cannot remove themselves from a project")

	ErrAIServiceNotConfigured = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeAINotConfigured, "AI task generation is not configured")
	ErrAINoTasksGenerated     = apierrors.NewWithCode(apierrors.KindValidation, apierrors.ErrCodeOperationFailed, "AI did not generate any tasks")
)
