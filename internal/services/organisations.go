package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

type OrganisationService struct {
	orgs   store.OrganisationStore
	logger *zap.Logger
}

func NewOrganisationService(orgs store.OrganisationStore, logger *zap.Logger) *OrganisationService {
	return &OrganisationService{orgs: orgs, logger: logger.Named("organisation-service")}
}

func (s *OrganisationService) GetOrganisation(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	return s.orgs.GetOrganisation(ctx, id)
}

// CreateOrganisation creates an organisation with ownerID as its first admin.
func (s *OrganisationService) CreateOrganisation(ctx context.Context, ownerID uuid.UUID, req models.OrganisationRequest) (*models.Organisation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	org := &models.Organisation{Name: name}
	if err := s.orgs.CreateOrganisation(ctx, org, ownerID); err != nil {
		s.logger.Error("Failed to create organisation",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, err
	}
	return org, nil
}

func (s *OrganisationService) UpdateOrganisation(ctx context.Context, id uuid.UUID, req models.OrganisationRequest) (*models.Organisation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.orgs.UpdateOrganisation(ctx, id, name)
}
