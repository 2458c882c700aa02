package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/auth"
)

func setupMockUserRepository(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestUserRepository_FindByProviderID_Github(t *testing.T) {
	repo, mock := setupMockUserRepository(t)

	rows := sqlmock.NewRows([]string{"id", "email", "github_id"}).
		AddRow("user-1", "octo@example.com", "42")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE github_id =`).
		WillReturnRows(rows)

	user, err := repo.FindByProviderID(auth.ProviderGithub, "42")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.NotNil(t, user.GithubID)
	require.Equal(t, "42", *user.GithubID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByProviderID_Google(t *testing.T) {
	repo, mock := setupMockUserRepository(t)

	rows := sqlmock.NewRows([]string{"id", "email", "google_id"}).
		AddRow("user-2", "octo@example.com", "google-sub-1")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE google_id =`).
		WillReturnRows(rows)

	user, err := repo.FindByProviderID(auth.ProviderGoogle, "google-sub-1")
	require.NoError(t, err)
	require.Equal(t, "user-2", user.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByProviderID_UnknownProvider(t *testing.T) {
	repo, mock := setupMockUserRepository(t)

	_, err := repo.FindByProviderID("gitlab", "1")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_PatchUpdatesOnlyGivenColumns(t *testing.T) {
	repo, mock := setupMockUserRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Patch("user-1", map[string]interface{}{"profile_completed": true})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_PatchWithoutChangesIsNoOp(t *testing.T) {
	repo, mock := setupMockUserRepository(t)

	// No SQL may run for an empty patch.
	require.NoError(t, repo.Patch("user-1", map[string]interface{}{}))
	require.NoError(t, mock.ExpectationsWereMet())
}
