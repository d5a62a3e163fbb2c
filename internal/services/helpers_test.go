package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/okrs-api/internal/database"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

var errDuplicateRow = errors.New("duplicate key value violates unique constraint")

// newGormStore is a sqlite-backed store for services whose logic is mostly
// the queries themselves.
func newGormStore(t *testing.T) (*store.Gorm, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "okrs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return store.NewGorm(db), db
}

func createProfile(t *testing.T, db *gorm.DB, orgID *uuid.UUID, name string, role models.UserRole) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		OrganisationID: orgID,
		FullName:       name,
		Email:          strings.ToLower(name) + "@example.com",
		Role:           role,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(profile).Error)
	return profile
}
