package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

func TestTeamService_UpdateTeam(t *testing.T) {
	st, _ := newGormStore(t)
	svc := NewTeamService(st, st, zap.NewNop())
	ctx := context.Background()
	desc := "Runs the platform"
	team, err := svc.CreateTeam(ctx, uuid.New(), models.CreateTeamRequest{Name: "Platform", Description: &desc})
	require.NoError(t, err)

	name := "Infra"
	updated, err := svc.UpdateTeam(ctx, team.ID, models.UpdateTeamRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Infra", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	blank := " "
	_, err = svc.UpdateTeam(ctx, team.ID, models.UpdateTeamRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.CreateTeam(ctx, uuid.New(), models.CreateTeamRequest{})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestTeamService_AssignTeamLead(t *testing.T) {
	st, db := newGormStore(t)
	svc := NewTeamService(st, st, zap.NewNop())
	ctx := context.Background()
	org := uuid.New()
	team, err := svc.CreateTeam(ctx, org, models.CreateTeamRequest{Name: "Platform"})
	require.NoError(t, err)
	lead := createProfile(t, db, &org, "Lead", models.RoleTeamLead)
	otherOrg := uuid.New()
	stranger := createProfile(t, db, &otherOrg, "Stranger", models.RoleMember)

	updated, err := svc.AssignTeamLead(ctx, team.ID, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TeamLeadID)
	assert.Equal(t, lead.ID, *updated.TeamLeadID)

	_, err = svc.AssignTeamLead(ctx, team.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotOrganisationMember)
	_, err = svc.AssignTeamLead(ctx, team.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.AssignTeamLead(ctx, uuid.New(), lead.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTeamService_MembersAndDelete(t *testing.T) {
	st, db := newGormStore(t)
	svc := NewTeamService(st, st, zap.NewNop())
	ctx := context.Background()
	org := uuid.New()
	team, err := svc.CreateTeam(ctx, org, models.CreateTeamRequest{Name: "Platform"})
	require.NoError(t, err)
	member := createProfile(t, db, &org, "Member", models.RoleMember)

	_, err = svc.AddMember(ctx, team.ID, member.ID)
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, uuid.New(), member.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	members, err := svc.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].Profile)
	assert.Equal(t, "Member", members[0].Profile.FullName)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))
	_, err = svc.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTeam(ctx, team.ID), store.ErrNotFound)

	members, err = svc.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
