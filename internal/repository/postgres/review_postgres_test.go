package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/model"
)

var reviewCols = []string{"id", "user_id", "place_id", "text", "created_at", "updated_at"}

func TestReviewPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	now := time.Now().UTC()
	rev := &model.Review{
		ID:        "review-1",
		UserID:    "user-1",
		PlaceID:   "place-1",
		Text:      "great view",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rev.ID, rev.UserID, rev.PlaceID, rev.Text, rev.CreatedAt, rev.UpdatedAt).
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow(rev.ID, rev.UserID, rev.PlaceID, rev.Text, rev.CreatedAt, rev.UpdatedAt))

	got, err := repo.Create(context.Background(), rev)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *rev, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id").
			WithArgs("review-1").
			WillReturnRows(sqlmock.NewRows(reviewCols).
				AddRow("review-1", "user-1", "place-1", "cozy", time.Now(), time.Now()))

		rev, err := repo.FindByID(ctx, "review-1")

		assert.NoError(t, err)
		require.NotNil(t, rev)
		assert.Equal(t, "cozy", rev.Text)
		assert.Equal(t, "place-1", rev.PlaceID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rev, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rev)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewPostgres_ListByPlace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reviews WHERE place_id (.+) ORDER BY created_at").
			WithArgs("place-1").
			WillReturnRows(sqlmock.NewRows(reviewCols).
				AddRow("r1", "u1", "place-1", "first", time.Now(), time.Now()).
				AddRow("r2", "u2", "place-1", "second", time.Now(), time.Now()))

		items, err := repo.ListByPlace(ctx, "place-1")

		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "r1", items[0].ID)
		assert.Equal(t, "r2", items[1].ID)
	})

	t.Run("empty place returns empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reviews WHERE place_id").
			WithArgs("place-2").
			WillReturnRows(sqlmock.NewRows(reviewCols))

		items, err := repo.ListByPlace(ctx, "place-2")

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reviews WHERE place_id").
			WithArgs("place-3").
			WillReturnError(errors.New("db down"))

		items, err := repo.ListByPlace(ctx, "place-3")

		assert.EqualError(t, err, "db down")
		assert.Nil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	created := time.Now().Add(-time.Hour).UTC()
	updated := time.Now().UTC()
	rev := &model.Review{ID: "review-1", UserID: "user-1", PlaceID: "place-1", Text: "edited", CreatedAt: created, UpdatedAt: updated}

	mock.ExpectQuery("UPDATE reviews SET text").
		WithArgs("review-1", "edited", updated).
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow("review-1", "user-1", "place-1", "edited", created, updated))

	got, err := repo.Update(context.Background(), rev)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM reviews WHERE id").
			WithArgs("review-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "review-1"))
	})

	t.Run("nothing deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM reviews WHERE id").
			WithArgs("review-2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "review-2"), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
