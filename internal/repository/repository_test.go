package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uniapply/internal/db"
	"uniapply/internal/model"
)

// newTestDB opens a private in-memory database with the production schema.
// A single connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database, false, zap.NewNop()))
	return database
}

func createUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createUniversity(t *testing.T, repo UniversityRepository, name string) *model.University {
	t.Helper()
	university := &model.University{
		Name:        name,
		Established: model.DefaultEstablished,
		Students:    model.DefaultStudents,
		Ranking:     model.DefaultRanking,
	}
	require.NoError(t, repo.Create(context.Background(), university))
	return university
}
