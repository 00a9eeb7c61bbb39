package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	// Arrange
	tdb := database.NewTestDBManager(t, logger.NewNoopLogger())
	repo := tdb.Manager.SessionRepository()
	ctx := context.Background()
	id := tdb.CreateTestAccount(t, "mallory", "1.00")
	now := time.Now().UTC().Truncate(time.Second)
	session := entity.NewSession("token-a", id, now, now.Add(time.Hour))

	// Act
	require.NoError(t, repo.Create(ctx, session))
	found, err := repo.GetByTokenHash(ctx, entity.HashToken("token-a"))

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, session.ID)
	assert.Equal(t, id, found.AccountID)
	assert.True(t, found.ExpiresAt.Equal(now.Add(time.Hour)))

	require.NoError(t, repo.DeleteByTokenHash(ctx, session.TokenHash))
	_, err = repo.GetByTokenHash(ctx, session.TokenHash)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)

	assert.NoError(t, repo.DeleteByTokenHash(ctx, session.TokenHash))
}

func TestSessionRepository_DuplicateTokenRejected(t *testing.T) {
	tdb := database.NewTestDBManager(t, logger.NewNoopLogger())
	repo := tdb.Manager.SessionRepository()
	ctx := context.Background()
	id := tdb.CreateTestAccount(t, "nick", "1.00")
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, entity.NewSession("same", id, now, now.Add(time.Hour))))
	err := repo.Create(ctx, entity.NewSession("same", id, now, now.Add(time.Hour)))

	assert.Error(t, err)
	assert.Equal(t, int64(1), tdb.CountRows(t, "session_tokens"))
}

func TestSessionRepository_DeleteByAccount(t *testing.T) {
	tdb := database.NewTestDBManager(t, logger.NewNoopLogger())
	repo := tdb.Manager.SessionRepository()
	ctx := context.Background()
	id := tdb.CreateTestAccount(t, "olivia", "1.00")
	other := tdb.CreateTestAccount(t, "peggy", "1.00")
	now := time.Now().UTC()

	for _, token := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.Create(ctx, entity.NewSession(token, id, now, now.Add(time.Hour))))
	}
	require.NoError(t, repo.Create(ctx, entity.NewSession("t4", other, now, now.Add(time.Hour))))

	removed, err := repo.DeleteByAccount(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	_, err = repo.GetByTokenHash(ctx, entity.HashToken("t4"))
	assert.NoError(t, err)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	tdb := database.NewTestDBManager(t, logger.NewNoopLogger())
	repo := tdb.Manager.SessionRepository()
	ctx := context.Background()
	id := tdb.CreateTestAccount(t, "quinn", "1.00")
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Create(ctx, entity.NewSession("old", id, now.Add(-2*time.Hour), now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, entity.NewSession("edge", id, now.Add(-time.Hour), now)))
	require.NoError(t, repo.Create(ctx, entity.NewSession("live", id, now, now.Add(time.Hour))))

	removed, err := repo.DeleteExpired(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	_, err = repo.GetByTokenHash(ctx, entity.HashToken("live"))
	assert.NoError(t, err)
}

func TestSessionRepository_CreateForUnknownAccount(t *testing.T) {
	tdb := database.NewTestDBManager(t, logger.NewNoopLogger())
	repo := tdb.Manager.SessionRepository()
	now := time.Now().UTC()

	err := repo.Create(context.Background(), entity.NewSession("orphan", 404, now, now.Add(time.Hour)))

	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}
