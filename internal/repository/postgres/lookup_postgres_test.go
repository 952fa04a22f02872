package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlacePostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM places WHERE id").
		WithArgs("place-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("place-1", "Loft", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM places WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.FindByID(ctx, "place-1")
	assert.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Loft", p.Name)

	p, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, p)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "updated_at"}).
			AddRow("user-1", "guest@example.com", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByID(ctx, "user-1")
	assert.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "guest@example.com", u.Email)

	u, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, u)

	assert.NoError(t, mock.ExpectationsWereMet())
}
