package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/okrs-api/internal/models"
)

func (s *Gorm) ListTeams(ctx context.Context, organisationID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Where("organisation_id = ?", organisationID).Order("name").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *Gorm) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).
		Preload("Memberships", orderByJoined).
		Preload("Memberships.Profile").
		Where("id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &team, nil
}

func (s *Gorm) CreateTeam(ctx context.Context, team *models.Team) error {
	return s.db.WithContext(ctx).Omit("Memberships").Create(team).Error
}

func (s *Gorm) AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error) {
	membership := models.TeamMembership{TeamID: teamID, UserID: userID}
	if err := s.db.WithContext(ctx).Omit("Profile").Create(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *Gorm) RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ListTeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.TeamMembership{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Gorm) UpdateTeam(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Team, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetTeam(ctx, id)
}

func (s *Gorm) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Team{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Gorm) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	err := orderByJoined(s.db.WithContext(ctx)).
		Preload("Profile").
		Where("team_id = ?", teamID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func orderByJoined(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at")
}
