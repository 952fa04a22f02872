// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Lookups of missing rows return sql.ErrNoRows; callers translate it.
package repository

import (
	"context"

	"reviewapi/internal/model"
)

// ReviewRepository defines data access for reviews using SQL queries only.
type ReviewRepository interface {
	// Create inserts a new review. The caller assigns ID and timestamps.
	Create(ctx context.Context, review *model.Review) (*model.Review, error)

	// FindByID returns a review by its ID.
	FindByID(ctx context.Context, id string) (*model.Review, error)

	// ListByPlace returns every review of a place, oldest first.
	ListByPlace(ctx context.Context, placeID string) ([]model.Review, error)

	// Update persists the mutable attributes (text, updated_at) of an existing review.
	Update(ctx context.Context, review *model.Review) (*model.Review, error)

	// Delete removes a review by ID. It returns sql.ErrNoRows if nothing was deleted.
	Delete(ctx context.Context, id string) error
}

// PlaceRepository reads places.
type PlaceRepository interface {
	FindByID(ctx context.Context, id string) (*model.Place, error)
}

// UserRepository reads users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
