package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/testutil"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		action Action
		owner  bool
		member bool
		viewer bool
	}{
		{ActionViewProject, true, true, true},
		{ActionViewTasks, true, true, true},
		{ActionUpdateProject, true, true, false},
		{ActionCreateTask, true, true, false},
		{ActionUpdateTask, true, true, false},
		{ActionDeleteTask, true, true, false},
		{ActionInviteMember, true, true, false},
		{ActionDeleteProject, true, false, false},
		{ActionManageMembers, true, false, false},
		{Action("unknown"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.owner, Allows(models.RoleOwner, tt.action))
			assert.Equal(t, tt.member, Allows(models.RoleMember, tt.action))
			assert.Equal(t, tt.viewer, Allows(models.RoleViewer, tt.action))
		})
	}
}

func TestMembershipAuthorizer(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	authz := NewAuthorizer(repository.NewProjectRepository(db))

	owner := testutil.CreateUser(t, db, "owner@example.com")
	viewer := testutil.CreateUser(t, db, "viewer@example.com")
	stranger := testutil.CreateUser(t, db, "stranger@example.com")
	project := testutil.CreateProject(t, db, "Apollo", owner)
	testutil.AddMember(t, db, project.ID, viewer.ID, models.RoleViewer)

	require.NoError(t, authz.Authorize(ctx, owner.ID, project.ID, ActionDeleteProject))
	require.NoError(t, authz.Authorize(ctx, viewer.ID, project.ID, ActionViewTasks))

	err := authz.Authorize(ctx, viewer.ID, project.ID, ActionUpdateTask)
	assert.ErrorIs(t, err, ErrInsufficientRole)
	assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))

	err = authz.Authorize(ctx, stranger.ID, project.ID, ActionViewProject)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))

	role, err := authz.Role(ctx, viewer.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, role)
}
