package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

// mockStore implements store.OKRStore, store.TeamStore and
// store.CycleStore in memory.
type mockStore struct {
	objectives  map[uuid.UUID]*models.Objective
	keyResults  map[uuid.UUID]*models.KeyResult
	assignees   map[uuid.UUID][]uuid.UUID
	checkIns    []models.CheckIn
	memberships map[uuid.UUID][]uuid.UUID // user -> teams
	cycles      map[uuid.UUID]*models.Cycle

	updateScoreErr     error
	listScoresErr      error
	insertCheckInErr   error
	insertAssigneesErr error
	updateKeyResultErr error

	transactions int
	scoreWrites  int
}

func newMockStore() *mockStore {
	return &mockStore{
		objectives:  map[uuid.UUID]*models.Objective{},
		keyResults:  map[uuid.UUID]*models.KeyResult{},
		assignees:   map[uuid.UUID][]uuid.UUID{},
		memberships: map[uuid.UUID][]uuid.UUID{},
		cycles:      map[uuid.UUID]*models.Cycle{},
	}
}

var (
	_ store.OKRStore   = (*mockStore)(nil)
	_ store.TeamStore  = (*mockStore)(nil)
	_ store.CycleStore = (*mockStore)(nil)
)

type mockSnapshot struct {
	objectives map[uuid.UUID]models.Objective
	keyResults map[uuid.UUID]models.KeyResult
	assignees  map[uuid.UUID][]uuid.UUID
	checkIns   []models.CheckIn
}

func (m *mockStore) snapshot() mockSnapshot {
	snap := mockSnapshot{
		objectives: map[uuid.UUID]models.Objective{},
		keyResults: map[uuid.UUID]models.KeyResult{},
		assignees:  map[uuid.UUID][]uuid.UUID{},
		checkIns:   append([]models.CheckIn(nil), m.checkIns...),
	}
	for id, o := range m.objectives {
		snap.objectives[id] = *o
	}
	for id, kr := range m.keyResults {
		snap.keyResults[id] = *kr
	}
	for id, users := range m.assignees {
		snap.assignees[id] = append([]uuid.UUID(nil), users...)
	}
	return snap
}

func (m *mockStore) restore(snap mockSnapshot) {
	m.objectives = map[uuid.UUID]*models.Objective{}
	for id, o := range snap.objectives {
		o := o
		m.objectives[id] = &o
	}
	m.keyResults = map[uuid.UUID]*models.KeyResult{}
	for id, kr := range snap.keyResults {
		kr := kr
		m.keyResults[id] = &kr
	}
	m.assignees = snap.assignees
	m.checkIns = snap.checkIns
}

func (m *mockStore) Transaction(_ context.Context, fn func(store.OKRStore) error) error {
	m.transactions++
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *mockStore) GetObjective(_ context.Context, id uuid.UUID) (*models.Objective, error) {
	o, ok := m.objectives[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	cp.KeyResults = m.keyResultsOf(id)
	return &cp, nil
}

func (m *mockStore) ListObjectives(_ context.Context, organisationID uuid.UUID, f models.ObjectiveFilters) ([]models.Objective, error) {
	var out []models.Objective
	for _, o := range m.objectives {
		if organisationID != uuid.Nil && o.OrganisationID != organisationID {
			continue
		}
		if f.CycleID != nil && o.CycleID != *f.CycleID {
			continue
		}
		if f.TeamID != nil && (o.TeamID == nil || *o.TeamID != *f.TeamID) {
			continue
		}
		if f.OwnerID != nil && (o.OwnerID == nil || *o.OwnerID != *f.OwnerID) {
			continue
		}
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		cp := *o
		cp.KeyResults = m.keyResultsOf(o.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) CreateObjective(_ context.Context, o *models.Objective) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	cp := *o
	cp.KeyResults = nil
	m.objectives[o.ID] = &cp
	return nil
}

func (m *mockStore) UpdateObjective(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Objective, error) {
	o, ok := m.objectives[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			o.Title = v.(string)
		case "description":
			d := v.(string)
			o.Description = &d
		case "status":
			o.Status = v.(models.ObjectiveStatus)
		}
	}
	return m.GetObjective(ctx, id)
}

func (m *mockStore) UpdateObjectiveScore(_ context.Context, id uuid.UUID, score float64) error {
	if m.updateScoreErr != nil {
		return m.updateScoreErr
	}
	o, ok := m.objectives[id]
	if !ok {
		return store.ErrNotFound
	}
	m.scoreWrites++
	o.Score = score
	return nil
}

func (m *mockStore) DeleteObjective(_ context.Context, id uuid.UUID) error {
	if _, ok := m.objectives[id]; !ok {
		return store.ErrNotFound
	}
	for krID, kr := range m.keyResults {
		if kr.ObjectiveID == id {
			delete(m.keyResults, krID)
			delete(m.assignees, krID)
		}
	}
	delete(m.objectives, id)
	return nil
}

func (m *mockStore) keyResultsOf(objectiveID uuid.UUID) []models.KeyResult {
	var out []models.KeyResult
	for _, kr := range m.keyResults {
		if kr.ObjectiveID == objectiveID {
			out = append(out, m.withAssignees(kr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *mockStore) withAssignees(kr *models.KeyResult) models.KeyResult {
	cp := *kr
	cp.Assignees = nil
	for _, userID := range m.assignees[kr.ID] {
		cp.Assignees = append(cp.Assignees, models.KRAssignee{KeyResultID: kr.ID, UserID: userID})
	}
	return cp
}

func (m *mockStore) GetKeyResult(_ context.Context, id uuid.UUID) (*models.KeyResult, error) {
	kr, ok := m.keyResults[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := m.withAssignees(kr)
	return &cp, nil
}

func (m *mockStore) ListKeyResults(_ context.Context, objectiveID uuid.UUID) ([]models.KeyResult, error) {
	return m.keyResultsOf(objectiveID), nil
}

func (m *mockStore) ListKeyResultScores(_ context.Context, objectiveID uuid.UUID) ([]float64, error) {
	if m.listScoresErr != nil {
		return nil, m.listScoresErr
	}
	var scores []float64
	for _, kr := range m.keyResults {
		if kr.ObjectiveID == objectiveID {
			scores = append(scores, kr.Score)
		}
	}
	return scores, nil
}

func (m *mockStore) CreateKeyResult(_ context.Context, kr *models.KeyResult) error {
	if kr.ID == uuid.Nil {
		kr.ID = uuid.New()
	}
	kr.CreatedAt = time.Now()
	cp := *kr
	cp.Assignees = nil
	m.keyResults[kr.ID] = &cp
	return nil
}

func (m *mockStore) UpdateKeyResult(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.KeyResult, error) {
	if m.updateKeyResultErr != nil {
		return nil, m.updateKeyResultErr
	}
	kr, ok := m.keyResults[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			kr.Title = v.(string)
		case "description":
			d := v.(string)
			kr.Description = &d
		case "unit":
			kr.Unit = v.(string)
		case "target_value":
			kr.TargetValue = v.(float64)
		case "current_value":
			kr.CurrentValue = v.(float64)
		case "score":
			kr.Score = v.(float64)
		case "status":
			kr.Status = v.(models.KRStatus)
		case "assignment_type":
			kr.AssignmentType = v.(models.AssignmentType)
		case "assignee_id":
			if v == nil {
				kr.AssigneeID = nil
			} else {
				id := v.(uuid.UUID)
				kr.AssigneeID = &id
			}
		}
	}
	return m.GetKeyResult(ctx, id)
}

func (m *mockStore) DeleteKeyResult(_ context.Context, id uuid.UUID) error {
	if _, ok := m.keyResults[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.keyResults, id)
	delete(m.assignees, id)
	return nil
}

func (m *mockStore) ListAssignees(_ context.Context, keyResultID uuid.UUID) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), m.assignees[keyResultID]...), nil
}

func (m *mockStore) DeleteAssignees(_ context.Context, keyResultID uuid.UUID) error {
	delete(m.assignees, keyResultID)
	return nil
}

func (m *mockStore) InsertAssignees(_ context.Context, keyResultID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	if m.insertAssigneesErr != nil {
		return m.insertAssigneesErr
	}
	for _, u := range userIDs {
		for _, existing := range m.assignees[keyResultID] {
			if existing == u {
				return errDuplicateRow
			}
		}
		m.assignees[keyResultID] = append(m.assignees[keyResultID], u)
	}
	return nil
}

func (m *mockStore) InsertCheckIn(_ context.Context, c *models.CheckIn) error {
	if m.insertCheckInErr != nil {
		return m.insertCheckInErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	m.checkIns = append(m.checkIns, *c)
	return nil
}

func (m *mockStore) ListCheckIns(_ context.Context, keyResultID uuid.UUID) ([]models.CheckIn, error) {
	var out []models.CheckIn
	for i := len(m.checkIns) - 1; i >= 0; i-- {
		if m.checkIns[i].KeyResultID == keyResultID {
			out = append(out, m.checkIns[i])
		}
	}
	return out, nil
}

// TeamStore

func (m *mockStore) ListTeams(context.Context, uuid.UUID) ([]models.Team, error) { return nil, nil }

func (m *mockStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	return &models.Team{ID: id}, nil
}

func (m *mockStore) CreateTeam(_ context.Context, team *models.Team) error {
	team.ID = uuid.New()
	return nil
}

func (m *mockStore) AddTeamMember(_ context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error) {
	m.memberships[userID] = append(m.memberships[userID], teamID)
	return &models.TeamMembership{TeamID: teamID, UserID: userID}, nil
}

func (m *mockStore) RemoveTeamMember(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *mockStore) ListTeamIDsForUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.memberships[userID], nil
}

func (m *mockStore) UpdateTeam(_ context.Context, id uuid.UUID, _ map[string]interface{}) (*models.Team, error) {
	return &models.Team{ID: id}, nil
}

func (m *mockStore) DeleteTeam(context.Context, uuid.UUID) error { return nil }

func (m *mockStore) ListTeamMembers(context.Context, uuid.UUID) ([]models.TeamMembership, error) {
	return nil, nil
}

// CycleStore

func (m *mockStore) ListCycles(context.Context, uuid.UUID) ([]models.Cycle, error) { return nil, nil }

func (m *mockStore) GetCycle(_ context.Context, id uuid.UUID) (*models.Cycle, error) {
	c, ok := m.cycles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockStore) GetActiveCycle(_ context.Context, organisationID uuid.UUID) (*models.Cycle, error) {
	for _, c := range m.cycles {
		if c.OrganisationID == organisationID && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateCycle(_ context.Context, c *models.Cycle) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	m.cycles[c.ID] = &cp
	return nil
}

func (m *mockStore) UpdateCycle(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Cycle, error) {
	c, ok := m.cycles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if v, ok := updates["is_active"]; ok {
		c.IsActive = v.(bool)
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	return m.GetCycle(ctx, id)
}

func (m *mockStore) SetActiveCycle(ctx context.Context, organisationID, cycleID uuid.UUID) (*models.Cycle, error) {
	for _, c := range m.cycles {
		if c.OrganisationID == organisationID {
			c.IsActive = c.ID == cycleID
		}
	}
	return m.GetCycle(ctx, cycleID)
}

func (m *mockStore) ListCarryableObjectives(_ context.Context, cycleID uuid.UUID) ([]models.Objective, error) {
	var out []models.Objective
	for _, o := range m.objectives {
		if o.CycleID != cycleID {
			continue
		}
		if o.Status != models.ObjectiveStatusDraft && o.Status != models.ObjectiveStatusActive {
			continue
		}
		cp := *o
		cp.KeyResults = m.keyResultsOf(o.ID)
		out = append(out, cp)
	}
	return out, nil
}

type recordingNotifier struct {
	calls [][]uuid.UUID
}

func (n *recordingNotifier) NotifyAssigned(_ context.Context, userIDs []uuid.UUID, _ *models.KeyResult) {
	n.calls = append(n.calls, append([]uuid.UUID(nil), userIDs...))
}
