package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

type TeamService struct {
	teams    store.TeamStore
	profiles store.ProfileStore
	logger   *zap.Logger
}

func NewTeamService(teams store.TeamStore, profiles store.ProfileStore, logger *zap.Logger) *TeamService {
	return &TeamService{teams: teams, profiles: profiles, logger: logger.Named("team-service")}
}

func (s *TeamService) ListTeams(ctx context.Context, organisationID uuid.UUID) ([]models.Team, error) {
	return s.teams.ListTeams(ctx, organisationID)
}

func (s *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return s.teams.GetTeam(ctx, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, organisationID uuid.UUID, req models.CreateTeamRequest) (*models.Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	team := &models.Team{
		OrganisationID: organisationID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := s.teams.CreateTeam(ctx, team); err != nil {
		s.logger.Error("Failed to create team", zap.Error(err))
		return nil, err
	}
	return team, nil
}

// UpdateTeam changes only the fields present in the request.
func (s *TeamService) UpdateTeam(ctx context.Context, id uuid.UUID, req models.UpdateTeamRequest) (*models.Team, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	return s.teams.UpdateTeam(ctx, id, updates)
}

// DeleteTeam drops the team and its memberships. Objectives that pointed at
// the team keep their key results and scores.
func (s *TeamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.teams.DeleteTeam(ctx, id); err != nil {
		s.logger.Error("Failed to delete team",
			zap.String("team_id", id.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// AssignTeamLead makes a member of the team's organisation its lead.
func (s *TeamService) AssignTeamLead(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.OrganisationID == nil || *profile.OrganisationID != team.OrganisationID {
		return nil, ErrNotOrganisationMember
	}
	return s.teams.UpdateTeam(ctx, teamID, map[string]interface{}{"team_lead_id": userID})
}

func (s *TeamService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error) {
	return s.teams.ListTeamMembers(ctx, teamID)
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error) {
	if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	membership, err := s.teams.AddTeamMember(ctx, teamID, userID)
	if err != nil {
		s.logger.Error("Failed to add team member",
			zap.String("team_id", teamID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}
	return membership, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return s.teams.RemoveTeamMember(ctx, teamID, userID)
}
