package postgres

import (
	"context"
	"database/sql"

	"reviewapi/internal/model"
	"reviewapi/internal/repository"
)

// PlacePostgres reads places from PostgreSQL.
type PlacePostgres struct {
	db *sql.DB
}

func NewPlacePostgres(db *sql.DB) *PlacePostgres {
	return &PlacePostgres{db: db}
}

var _ repository.PlaceRepository = (*PlacePostgres)(nil)

func (r *PlacePostgres) FindByID(ctx context.Context, id string) (*model.Place, error) {
	const q = `SELECT id, name, created_at, updated_at FROM places WHERE id = $1`
	var p model.Place
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UserPostgres reads users from PostgreSQL.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, email, created_at, updated_at FROM users WHERE id = $1`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
