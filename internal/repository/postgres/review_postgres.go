package postgres

import (
	"context"
	"database/sql"

	"reviewapi/internal/model"
	"reviewapi/internal/repository"
)

const reviewColumns = `id, user_id, place_id, text, created_at, updated_at`

// ReviewPostgres is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewPostgres struct {
	db *sql.DB
}

// NewReviewPostgres creates a new ReviewPostgres repository.
func NewReviewPostgres(db *sql.DB) *ReviewPostgres {
	return &ReviewPostgres{db: db}
}

var _ repository.ReviewRepository = (*ReviewPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*model.Review, error) {
	var r model.Review
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.PlaceID,
		&r.Text,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new review row and returns the stored record.
func (r *ReviewPostgres) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	const q = `
		INSERT INTO reviews (id, user_id, place_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns
	return scanReview(r.db.QueryRowContext(ctx, q,
		review.ID,
		review.UserID,
		review.PlaceID,
		review.Text,
		review.CreatedAt,
		review.UpdatedAt,
	))
}

// FindByID fetches a single review by its ID.
func (r *ReviewPostgres) FindByID(ctx context.Context, id string) (*model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRowContext(ctx, q, id))
}

// ListByPlace returns the reviews of a place ordered by creation time.
func (r *ReviewPostgres) ListByPlace(ctx context.Context, placeID string) ([]model.Review, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE place_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes text and updated_at. A review deleted concurrently yields sql.ErrNoRows.
func (r *ReviewPostgres) Update(ctx context.Context, review *model.Review) (*model.Review, error) {
	const q = `
		UPDATE reviews
		SET text = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + reviewColumns
	return scanReview(r.db.QueryRowContext(ctx, q, review.ID, review.Text, review.UpdatedAt))
}

// Delete removes a review by ID.
func (r *ReviewPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM reviews WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
