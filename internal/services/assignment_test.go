package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

func assertNoJunctionRows(t *testing.T, ms *mockStore, keyResultID uuid.UUID) {
	t.Helper()
	assert.Empty(t, ms.assignees[keyResultID])
}

func TestSetAssignmentTeam(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeTeam)
	kr := f.keyResult(t, o.ID, 10)
	_, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{uuid.New(), uuid.New()})
	require.NoError(t, err)

	updated, err := f.svc.SetAssignmentTeam(f.ctx, kr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentTeam, updated.AssignmentType)
	assert.Nil(t, updated.AssigneeID)
	assertNoJunctionRows(t, f.store, kr.ID)
}

func TestSetAssignmentTeam_RequiresTeamObjective(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	u := uuid.New()
	_, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, u)
	require.NoError(t, err)

	_, err = f.svc.SetAssignmentTeam(f.ctx, kr.ID)
	assert.ErrorIs(t, err, ErrTeamAssignmentNotAllowed)

	// rejected call leaves the previous assignment alone
	got, err := f.svc.GetKeyResult(f.ctx, kr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentIndividual, got.AssignmentType)
	assert.Equal(t, []uuid.UUID{u}, got.AssigneeIDs())
}

func TestSetAssignmentIndividual(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeTeam)
	kr := f.keyResult(t, o.ID, 10)
	u := uuid.New()

	_, err := f.svc.SetAssignmentTeam(f.ctx, kr.ID)
	require.NoError(t, err)

	updated, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, u)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentIndividual, updated.AssignmentType)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, u, *updated.AssigneeID)
	assert.Equal(t, []uuid.UUID{u}, f.store.assignees[kr.ID])
}

func TestSetAssignmentIndividual_NilUser(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)

	_, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidAssignee)
}

func TestSetAssignmentMulti(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	a, b := uuid.New(), uuid.New()

	updated, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{a, b, a})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentMultiIndividual, updated.AssignmentType)
	assert.Nil(t, updated.AssigneeID)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, updated.AssigneeIDs())
}

func TestSetAssignmentMulti_EmptyUnassigns(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	_, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, uuid.New())
	require.NoError(t, err)

	updated, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentUnassigned, updated.AssignmentType)
	assert.Nil(t, updated.AssigneeID)
	assertNoJunctionRows(t, f.store, kr.ID)
}

func TestSetAssignment_Idempotent(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	a, b := uuid.New(), uuid.New()

	first, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{a, b})
	require.NoError(t, err)
	// a second identical call must not trip the unique (key result, user) pair
	second, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{a, b})
	require.NoError(t, err)

	assert.Equal(t, first.AssignmentType, second.AssignmentType)
	assert.Equal(t, first.AssigneeID, second.AssigneeID)
	assert.ElementsMatch(t, first.AssigneeIDs(), second.AssigneeIDs())
	assert.Len(t, f.store.assignees[kr.ID], 2)
}

func TestSetAssignmentIndividual_Twice(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	user := uuid.New()

	_, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, user)
	require.NoError(t, err)
	updated, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, user)
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentIndividual, updated.AssignmentType)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, user, *updated.AssigneeID)
	assert.Equal(t, []uuid.UUID{user}, f.store.assignees[kr.ID])
}

func TestUnassignKeyResult(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	_, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{uuid.New(), uuid.New()})
	require.NoError(t, err)

	updated, err := f.svc.UnassignKeyResult(f.ctx, kr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentUnassigned, updated.AssignmentType)
	assert.Nil(t, updated.AssigneeID)
	assertNoJunctionRows(t, f.store, kr.ID)
}

func TestAssignKeyResult_LegacyMatchesIndividual(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	viaLegacy := f.keyResult(t, o.ID, 10)
	viaMode := f.keyResult(t, o.ID, 10)
	u := uuid.New()

	legacy, err := f.svc.AssignKeyResult(f.ctx, viaLegacy.ID, &u)
	require.NoError(t, err)
	mode, err := f.svc.SetAssignmentIndividual(f.ctx, viaMode.ID, u)
	require.NoError(t, err)

	assert.Equal(t, mode.AssignmentType, legacy.AssignmentType)
	assert.Equal(t, mode.AssigneeID, legacy.AssigneeID)
	assert.Equal(t, mode.AssigneeIDs(), legacy.AssigneeIDs())

	cleared, err := f.svc.AssignKeyResult(f.ctx, viaLegacy.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentUnassigned, cleared.AssignmentType)
	assert.Nil(t, cleared.AssigneeID)
	assertNoJunctionRows(t, f.store, viaLegacy.ID)
}

func TestSetAssignment_Dispatch(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeTeam)
	kr := f.keyResult(t, o.ID, 10)
	u := uuid.New()

	tests := []struct {
		name    string
		req     models.SetAssignmentRequest
		want    models.AssignmentType
		wantErr error
	}{
		{"team", models.SetAssignmentRequest{Type: models.AssignmentTeam}, models.AssignmentTeam, nil},
		{"individual", models.SetAssignmentRequest{Type: models.AssignmentIndividual, UserIDs: []uuid.UUID{u}}, models.AssignmentIndividual, nil},
		{"individual needs one user", models.SetAssignmentRequest{Type: models.AssignmentIndividual, UserIDs: []uuid.UUID{u, uuid.New()}}, "", ErrInvalidAssignee},
		{"multi", models.SetAssignmentRequest{Type: models.AssignmentMultiIndividual, UserIDs: []uuid.UUID{u, uuid.New()}}, models.AssignmentMultiIndividual, nil},
		{"unassigned", models.SetAssignmentRequest{Type: models.AssignmentUnassigned}, models.AssignmentUnassigned, nil},
		{"unknown", models.SetAssignmentRequest{Type: "everyone"}, "", ErrInvalidAssignmentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.SetAssignment(f.ctx, kr.ID, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.AssignmentType)
		})
	}
}

func TestSetAssignment_UnknownKeyResult(t *testing.T) {
	f := newOKRFixture(t)
	_, err := f.svc.SetAssignmentMulti(f.ctx, uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIsAssigned(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	a, b, stranger := uuid.New(), uuid.New(), uuid.New()

	_, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{a, b})
	require.NoError(t, err)

	for _, u := range []uuid.UUID{a, b} {
		ok, err := f.svc.IsAssigned(f.ctx, kr.ID, u)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := f.svc.IsAssigned(f.ctx, kr.ID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAssigned_LegacyFallback(t *testing.T) {
	f := newOKRFixture(t)
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	u := uuid.New()
	f.store.keyResults[kr.ID].AssigneeID = &u

	ok, err := f.svc.IsAssigned(f.ctx, kr.ID, u)
	require.NoError(t, err)
	assert.True(t, ok)

	// junction rows take precedence once any exist
	other := uuid.New()
	f.store.assignees[kr.ID] = []uuid.UUID{other}
	ok, err = f.svc.IsAssigned(f.ctx, kr.ID, u)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetAssignment_NotifiesNewlyAddedUsers(t *testing.T) {
	n := &recordingNotifier{}
	f := newOKRFixture(t, WithNotifier(n))
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	_, err := f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{a, b})
	require.NoError(t, err)
	_, err = f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{b, c})
	require.NoError(t, err)
	_, err = f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{b, c})
	require.NoError(t, err)
	_, err = f.svc.UnassignKeyResult(f.ctx, kr.ID)
	require.NoError(t, err)

	require.Len(t, n.calls, 2)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, n.calls[0])
	assert.Equal(t, []uuid.UUID{c}, n.calls[1])
}

func TestSetAssignment_AtomicRollsBackPartialWrite(t *testing.T) {
	f := newOKRFixture(t, WithAtomicPropagation(true))
	o := f.objective(t, models.ObjectiveTypeCrossCutting)
	kr := f.keyResult(t, o.ID, 10)
	a := uuid.New()
	_, err := f.svc.SetAssignmentIndividual(f.ctx, kr.ID, a)
	require.NoError(t, err)

	boom := errors.New("insert failed")
	f.store.insertAssigneesErr = boom
	_, err = f.svc.SetAssignmentMulti(f.ctx, kr.ID, []uuid.UUID{uuid.New(), uuid.New()})
	assert.ErrorIs(t, err, boom)

	// the delete-all step is undone with the failed insert
	assert.Equal(t, []uuid.UUID{a}, f.store.assignees[kr.ID])
	got, err := f.svc.GetKeyResult(f.ctx, kr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentIndividual, got.AssignmentType)
}
