package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

// ProfileService manages the people of an organisation.
type ProfileService struct {
	profiles store.ProfileStore
	logger   *zap.Logger
}

func NewProfileService(profiles store.ProfileStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger.Named("profile-service")}
}

// ListOrganisationProfiles returns the organisation's people ordered by name.
func (s *ProfileService) ListOrganisationProfiles(ctx context.Context, organisationID uuid.UUID) ([]models.Profile, error) {
	return s.profiles.ListProfiles(ctx, organisationID)
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profiles.GetProfile(ctx, id)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.Profile, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.profiles.UpdateProfile(ctx, id, map[string]interface{}{"full_name": name})
}

// RequireAdmin fails with ErrForbidden unless userID is an admin of the
// organisation.
func (s *ProfileService) RequireAdmin(ctx context.Context, userID, organisationID uuid.UUID) error {
	actor, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin || actor.OrganisationID == nil || *actor.OrganisationID != organisationID {
		return ErrForbidden
	}
	return nil
}

// UpdateUserRole lets an organisation admin change the role of another
// member of the same organisation.
func (s *ProfileService) UpdateUserRole(ctx context.Context, actorID, organisationID, userID uuid.UUID, role models.UserRole) (*models.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.RequireAdmin(ctx, actorID, organisationID); err != nil {
		return nil, err
	}
	target, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.OrganisationID == nil || *target.OrganisationID != organisationID {
		return nil, store.ErrNotFound
	}

	profile, err := s.profiles.UpdateProfile(ctx, userID, map[string]interface{}{"role": role})
	if err != nil {
		return nil, err
	}
	s.logger.Info("User role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
		zap.String("changed_by", actorID.String()))
	return profile, nil
}
