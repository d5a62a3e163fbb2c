package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/okrs-api/internal/models"
)

func (s *Gorm) GetOrganisation(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	var org models.Organisation
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (s *Gorm) CreateOrganisation(ctx context.Context, org *models.Organisation, ownerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Profile{}).Where("id = ?", ownerID).Updates(map[string]interface{}{
			"organisation_id": org.ID,
			"role":            models.RoleAdmin,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Gorm) UpdateOrganisation(ctx context.Context, id uuid.UUID, name string) (*models.Organisation, error) {
	res := s.db.WithContext(ctx).Model(&models.Organisation{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrganisation(ctx, id)
}
