package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

func TestServiceErrorsAreDistinct(t *testing.T) {
	all := map[string]*apierrors.Error{
		"ErrUserNotFound":           ErrUserNotFound,
		"ErrProjectNotFound":        ErrProjectNotFound,
		"ErrTaskNotFound":           ErrTaskNotFound,
		"ErrTagNotFound":            ErrTagNotFound,
		"ErrMemberNotFound":         ErrMemberNotFound,
		"ErrInvitationNotFound":     ErrInvitationNotFound,
		"ErrInvitationExpired":      ErrInvitationExpired,
		"ErrEmailTaken":             ErrEmailTaken,
		"ErrAlreadyMember":          ErrAlreadyMember,
		"ErrInvalidCredentials":     ErrInvalidCredentials,
		"ErrInvalidEmail":           ErrInvalidEmail,
		"ErrPasswordTooShort":       ErrPasswordTooShort,
		"ErrNameRequired":           ErrNameRequired,
		"ErrTitleRequired":          ErrTitleRequired,
		"ErrInvalidTimezone":        ErrInvalidTimezone,
		"ErrInvalidStatus":          ErrInvalidStatus,
		"ErrInvalidPriority":        ErrInvalidPriority,
		"ErrInvalidRole":            ErrInvalidRole,
		"ErrInvalidTags":            ErrInvalidTags,
		"ErrInvalidAssignee":        ErrInvalidAssignee,
		"ErrEmailMismatch":          ErrEmailMismatch,
		"ErrCannotRemoveYourself":   ErrCannotRemoveYourself,
		"ErrAIServiceNotConfigured": ErrAIServiceNotConfigured,
		"ErrAINoTasksGenerated":     ErrAINoTasksGenerated,
	}

	codes := make(map[string]string, len(all))
	for name, err := range all {
		if other, ok := codes[err.Code]; ok {
			t.Errorf("%s and %s share code %s", name, other, err.Code)
		}
		codes[err.Code] = name

		for otherName, other := range all {
			if name == otherName {
				continue
			}
			assert.Falsef(t, errors.Is(err, other), "%s matches %s", name, otherName)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	email, err := normalizeEmail("  Alice@Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	for _, raw := range []string{"", "   ", "not-an-email", "Alice <alice@example.com>", "a@@example.com"} {
		_, err := normalizeEmail(raw)
		assert.ErrorIsf(t, err, ErrInvalidEmail, "input %q", raw)
	}
}
