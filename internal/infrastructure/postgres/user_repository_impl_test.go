package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/internal/domain/repository"
)

const testUserID = "6f1c1f5e-8a43-4c55-9a3b-2f0c7c1d9e10"

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func userRows(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "first_name", "last_name", "created_at", "updated_at"}).
		AddRow(testUserID, "ana@example.com", "Ana", "Lopez", now, now)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, created_at, updated_at\s+FROM users\s+WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(userRows(now))

	u, err := repo.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, &entity.User{
		ID: testUserID, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez",
		CreatedAt: now, UpdatedAt: now,
	}, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(userRows(now))

	u, err := repo.FindByID(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotUUID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	// No query reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users \(email, first_name, last_name\)`).
		WithArgs("new@example.com", "Ana", "Lopez").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testUserID, now, now))

	u, err := repo.Create(context.Background(), "new@example.com", "Ana", "Lopez")
	require.NoError(t, err)
	assert.Equal(t, testUserID, u.ID)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "Lopez", u.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ana@example.com", "Ana", "Lopez").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "ana@example.com", "Ana", "Lopez")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_Create_OtherError(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ana@example.com", "Ana", "Lopez").
		WillReturnError(boom)

	_, err := repo.Create(context.Background(), "ana@example.com", "Ana", "Lopez")
	assert.ErrorIs(t, err, boom)
}

func TestAuditRepository_Record(t *testing.T) {
	mock := newMock(t)
	repo := NewAuditRepository(mock)

	mock.ExpectExec(`INSERT INTO auth_audit_logs`).
		WithArgs("", "ana@example.com", entity.AuditMagicLinkInvalid, "1.2.3.4", "ua", []byte(`{"reason":"expired"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Record(context.Background(), entity.AuditEvent{
		Email:     "ana@example.com",
		Action:    entity.AuditMagicLinkInvalid,
		IP:        "1.2.3.4",
		UserAgent: "ua",
		Metadata:  map[string]any{"reason": "expired"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
