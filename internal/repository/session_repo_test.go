package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubongjay/ragchat/internal/domain"
)

func setupSessionRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}

// stepClock returns a clock that advances one second per call so rows get
// distinct created_at values.
func stepClock(start time.Time) func() time.Time {
	calls := 0
	return func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Second)
	}
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	repo := setupSessionRepo(t)

	saved, err := repo.Save(&domain.Session{Title: "First chat", IsFavorite: true})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "First chat", got.Title)
	assert.True(t, got.IsFavorite)
}

func TestSessionRepository_GetByIDAbsent(t *testing.T) {
	repo := setupSessionRepo(t)

	got, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_GetAllNewestFirst(t *testing.T) {
	repo := setupSessionRepo(t)
	repo.now = stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		_, err := repo.Save(&domain.Session{Title: fmt.Sprintf("chat %d", i)})
		require.NoError(t, err)
	}

	sessions, err := repo.GetAll(0, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "chat 2", sessions[0].Title)
	assert.Equal(t, "chat 0", sessions[2].Title)
}

func TestSessionRepository_GetAllPagination(t *testing.T) {
	repo := setupSessionRepo(t)
	repo.now = stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		_, err := repo.Save(&domain.Session{Title: fmt.Sprintf("chat %d", i)})
		require.NoError(t, err)
	}

	page2, err := repo.GetAll(2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "chat 2", page2[0].Title)
	assert.Equal(t, "chat 1", page2[1].Title)

	past, err := repo.GetAll(4, 2)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestSessionRepository_GetByFavorite(t *testing.T) {
	repo := setupSessionRepo(t)

	_, err := repo.Save(&domain.Session{Title: "plain"})
	require.NoError(t, err)
	_, err = repo.Save(&domain.Session{Title: "starred", IsFavorite: true})
	require.NoError(t, err)

	favorites, err := repo.GetByFavorite(true, 0, 0)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "starred", favorites[0].Title)

	others, err := repo.GetByFavorite(false, 0, 0)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "plain", others[0].Title)
}

func TestSessionRepository_Update(t *testing.T) {
	repo := setupSessionRepo(t)

	saved, err := repo.Save(&domain.Session{Title: "before"})
	require.NoError(t, err)

	fav := true
	updated, err := repo.Update(saved.ID, nil, &fav)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "before", updated.Title)
	assert.True(t, updated.IsFavorite)

	title := "after"
	updated, err = repo.Update(saved.ID, &title, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.IsFavorite)

	got, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.True(t, got.IsFavorite)
}

func TestSessionRepository_UpdateAbsent(t *testing.T) {
	repo := setupSessionRepo(t)

	title := "anything"
	updated, err := repo.Update("nope", &title, nil)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := setupSessionRepo(t)

	saved, err := repo.Save(&domain.Session{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(saved.ID))

	got, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_Count(t *testing.T) {
	repo := setupSessionRepo(t)

	_, err := repo.Save(&domain.Session{Title: "plain"})
	require.NoError(t, err)
	_, err = repo.Save(&domain.Session{Title: "starred", IsFavorite: true})
	require.NoError(t, err)

	total, err := repo.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	fav := true
	count, err := repo.Count(&fav)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	fav = false
	count, err = repo.Count(&fav)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
