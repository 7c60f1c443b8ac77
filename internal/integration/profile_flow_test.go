package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"connecty/internal/config"
	"connecty/internal/database"
	"connecty/internal/database/migration"
	dbpostgres "connecty/internal/database/postgres"
	"connecty/internal/database/seeder"
	"connecty/internal/domain/profile"
	"connecty/internal/domain/user"
	"connecty/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ProfileLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()
	runMigrations(t, ctx, db)

	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresProfileRepository(db)

	alice := createUser(t, ctx, db, users, "alice")
	bob := createUser(t, ctx, db, users, "bob")
	suffix := strings.Split(alice.ID.String(), "-")[0]

	p, err := profiles.Create(ctx, profile.Profile{
		UserID: alice.ID,
		Handle: "alice-" + suffix,
		Status: "Developer",
		Skills: []string{"Go", "SQL"},
		Social: profile.Social{Twitter: "https://twitter.com/alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, alice.Name, p.Owner.Name)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	assert.Empty(t, p.Experience)

	_, err = profiles.Create(ctx, profile.Profile{UserID: bob.ID, Handle: p.Handle, Status: "Developer"})
	assert.ErrorIs(t, err, profile.ErrHandleTaken)

	_, err = profiles.Create(ctx, profile.Profile{UserID: alice.ID, Handle: "other-" + suffix, Status: "Developer"})
	assert.ErrorIs(t, err, profile.ErrProfileExists)

	got, err := profiles.FindByHandle(ctx, p.Handle)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "https://twitter.com/alice", got.Social.Twitter)

	company := "Acme"
	updated, err := profiles.Update(ctx, alice.ID, profile.Fields{Company: &company})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Developer", updated.Status)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := profiles.Mutate(ctx, alice.ID, func(p *profile.Profile) error {
				p.AddExperience(profile.Experience{Title: "Dev", Company: "Acme", From: time.Now().UTC()})
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err = profiles.FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got.Experience, writers)

	removed := got.Experience[3].ID
	got, err = profiles.Mutate(ctx, alice.ID, func(p *profile.Profile) error { return p.RemoveExperience(removed) })
	require.NoError(t, err)
	assert.Len(t, got.Experience, writers-1)

	_, err = profiles.Mutate(ctx, alice.ID, func(p *profile.Profile) error { return p.RemoveExperience(uuid.New()) })
	assert.ErrorIs(t, err, profile.ErrEntryNotFound)

	require.NoError(t, profiles.DeleteWithUser(ctx, alice.ID))
	_, err = profiles.FindByUserID(ctx, alice.ID)
	assert.ErrorIs(t, err, profile.ErrNotFound)
	_, err = users.GetUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestIntegration_SeederIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()
	runMigrations(t, ctx, db)

	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: zerolog.Nop()}
	require.NoError(t, r.Run(ctx, db))
	require.NoError(t, r.Run(ctx, db))

	profiles := repository.NewPostgresProfileRepository(db)
	p, err := profiles.FindByHandle(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Owner.Name)
	assert.NotEmpty(t, p.Experience)
}

func createUser(t *testing.T, ctx context.Context, db database.DB, users *repository.PostgresUserRepository, name string) user.User {
	t.Helper()
	id := uuid.New()
	u := user.User{
		ID:           id,
		Name:         name,
		Email:        name + "+" + id.String() + "@it.connecty.dev",
		PasswordHash: "x",
	}
	require.NoError(t, users.CreateUser(ctx, u))
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return u
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := os.Getenv("CONNECTY_TEST_DB_HOST")
	port := os.Getenv("CONNECTY_TEST_DB_PORT")
	name := os.Getenv("CONNECTY_TEST_DB_NAME")
	usr := os.Getenv("CONNECTY_TEST_DB_USER")
	pass := os.Getenv("CONNECTY_TEST_DB_PASSWORD")
	ssl := os.Getenv("CONNECTY_TEST_DB_SSL_MODE")

	if host == "" || port == "" || name == "" || usr == "" {
		t.Skip("missing test DB env vars: set CONNECTY_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     usr,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	require.NoError(t, err, "connect db")
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")

	// this file: internal/integration/profile_flow_test.go
	migDir := filepath.Join(filepath.Dir(file), "..", "..", "migrations")
	r := migration.Runner{Dir: migDir, Logger: zerolog.Nop()}
	require.NoError(t, r.Run(ctx, db.SQLDB()), "run migrations")
}
