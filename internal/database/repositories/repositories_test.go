package repositories

import (
	"context"
	"testing"
	"time"

	"notekeeper/internal/database"
	"notekeeper/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupDatabase starts a throwaway Postgres container and applies the
// embedded migrations. Requires a container runtime; skipped in -short mode.
func setupDatabase(t *testing.T) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("notekeeper_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := database.New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	require.NoError(t, svc.Migrate())
	return svc
}

func createUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hashed-password"}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotEqual(t, uuid.Nil, user.ID)
	return user
}

func newNote(owner uuid.UUID, title, content string, at time.Time) *models.Note {
	return &models.Note{
		ID:         uuid.New(),
		Title:      title,
		Content:    content,
		CreatedAt:  at,
		ModifiedAt: at,
		UserID:     owner,
	}
}

func TestUserRepository(t *testing.T) {
	svc := setupDatabase(t)
	repo := NewUserRepository(svc.DB())
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		created := createUser(t, repo, "alice")

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hashed-password", got.Password)
	})

	t.Run("duplicate username", func(t *testing.T) {
		createUser(t, repo, "bob")
		err := repo.Create(ctx, &models.User{Username: "bob", Password: "other"})
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestNoteRepository(t *testing.T) {
	svc := setupDatabase(t)
	users := NewUserRepository(svc.DB())
	notes := NewNoteRepository(svc.DB())
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	t.Run("create and list in insertion order", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Microsecond)
		first := newNote(alice.ID, "first", "one", base)
		second := newNote(alice.ID, "second", "two", base.Add(time.Second))
		require.NoError(t, notes.Create(ctx, first))
		require.NoError(t, notes.Create(ctx, second))

		listed, err := notes.GetAll(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "first", listed[0].Title)
		assert.Equal(t, "second", listed[1].Title)
		assert.True(t, listed[0].CreatedAt.Equal(listed[0].ModifiedAt))
	})

	t.Run("empty list for other user", func(t *testing.T) {
		listed, err := notes.GetAll(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("update bumps modified_at only", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Microsecond)
		note := newNote(alice.ID, "draft", "v1", base)
		require.NoError(t, notes.Create(ctx, note))

		note.Title = "final"
		note.Content = "v2"
		note.ModifiedAt = base.Add(time.Minute)
		require.NoError(t, notes.Update(ctx, note, alice.ID))

		listed, err := notes.GetAll(ctx, alice.ID)
		require.NoError(t, err)
		var got *models.Note
		for i := range listed {
			if listed[i].ID == note.ID {
				got = &listed[i]
			}
		}
		require.NotNil(t, got)
		assert.Equal(t, "final", got.Title)
		assert.Equal(t, "v2", got.Content)
		assert.True(t, got.CreatedAt.Equal(base), "created_at must not change")
		assert.True(t, got.ModifiedAt.Equal(base.Add(time.Minute)))
	})

	t.Run("update unknown id", func(t *testing.T) {
		missing := newNote(alice.ID, "x", "y", time.Now().UTC())
		err := notes.Update(ctx, missing, alice.ID)
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})

	t.Run("cross-user update and delete are not found", func(t *testing.T) {
		note := newNote(bob.ID, "private", "bob only", time.Now().UTC().Truncate(time.Microsecond))
		require.NoError(t, notes.Create(ctx, note))

		tampered := *note
		tampered.Title = "stolen"
		assert.ErrorIs(t, notes.Update(ctx, &tampered, alice.ID), ErrNoteNotFound)
		assert.ErrorIs(t, notes.Delete(ctx, note.ID, alice.ID), ErrNoteNotFound)

		listed, err := notes.GetAll(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "private", listed[0].Title)
	})

	t.Run("delete removes exactly one", func(t *testing.T) {
		before, err := notes.GetAll(ctx, alice.ID)
		require.NoError(t, err)
		require.NotEmpty(t, before)

		require.NoError(t, notes.Delete(ctx, before[0].ID, alice.ID))
		assert.ErrorIs(t, notes.Delete(ctx, before[0].ID, alice.ID), ErrNoteNotFound)

		after, err := notes.GetAll(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before)-1)
	})
}
