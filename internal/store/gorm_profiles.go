package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/models"
)

func (s *Gorm) GetFCMToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("fcm_token").Where("id = ?", userID).First(&profile).Error; err != nil {
		return "", notFound(err)
	}
	return profile.FCMToken, nil
}

func (s *Gorm) SetFCMToken(ctx context.Context, userID uuid.UUID, token string) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", userID).Update("fcm_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (s *Gorm) ListProfiles(ctx context.Context, organisationID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("full_name").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Gorm) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Profile, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetProfile(ctx, id)
}
