package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/service"
)

// APIPrefix is where the review routes are mounted.
const APIPrefix = "/api/v1"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, reviewSvc service.ReviewService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group(APIPrefix)

	api.Get("/places/:place_id/reviews", ListPlaceReviews(reviewSvc))
	api.Post("/places/:place_id/reviews", CreateReview(reviewSvc))

	update := UpdateReview(reviewSvc)
	api.Get("/reviews/:review_id", GetReview(reviewSvc))
	api.Delete("/reviews/:review_id", DeleteReview(reviewSvc))
	api.Put("/reviews/:review_id", update)

	// Dedicated update route kept for clients of the split route table.
	// Fiber serves the first match, so both resolve to the same handler.
	api.Put("/reviews/:review_id", update)
}
