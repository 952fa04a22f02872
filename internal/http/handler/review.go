package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"reviewapi/internal/service"
)

// validID reports whether id can name a stored row. Anything that is not a
// UUID is simply absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// bodyAttrs decodes a JSON object body. It returns nil when the request is
// not JSON or the body is not an object (null, array, scalar, malformed).
func bodyAttrs(c *fiber.Ctx) service.Attrs {
	if !c.Is("json") {
		return nil
	}
	var attrs service.Attrs
	if err := c.App().Config().JSONDecoder(c.Body(), &attrs); err != nil {
		return nil
	}
	return attrs
}

// ListPlaceReviews returns all reviews of a place.
//
// @Summary     List reviews of a place
// @Tags        reviews
// @Produce     json
// @Param       place_id path string true "Place ID"
// @Success     200 {array}  model.Review
// @Failure     404 {object} errorPayload
// @Router      /api/v1/places/{place_id}/reviews [get]
func ListPlaceReviews(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		placeID := c.Params("place_id")
		if !validID(placeID) {
			return writeServiceError(c, service.ErrPlaceNotFound)
		}

		items, err := svc.ListByPlace(c.UserContext(), placeID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// CreateReview adds a review to a place.
//
// @Summary     Create a review
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       place_id path string true "Place ID"
// @Param       review body reviewRequest true "user_id and text"
// @Success     201 {object} model.Review
// @Failure     400 {object} errorPayload
// @Failure     404 {object} errorPayload
// @Router      /api/v1/places/{place_id}/reviews [post]
func CreateReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		placeID := c.Params("place_id")
		if !validID(placeID) {
			return writeServiceError(c, service.ErrPlaceNotFound)
		}

		r, err := svc.Create(c.UserContext(), placeID, bodyAttrs(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// GetReview returns one review.
//
// @Summary     Get a review
// @Tags        reviews
// @Produce     json
// @Param       review_id path string true "Review ID"
// @Success     200 {object} model.Review
// @Failure     404 {object} errorPayload
// @Router      /api/v1/reviews/{review_id} [get]
func GetReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("review_id")
		if !validID(id) {
			return writeServiceError(c, service.ErrReviewNotFound)
		}

		r, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(r)
	}
}

// UpdateReview changes the text of a review.
//
// @Summary     Update a review
// @Description Protected fields (id, user_id, place_id, created_at, updated_at) are ignored.
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       review_id path string true "Review ID"
// @Param       review body reviewRequest true "fields to change"
// @Success     200 {object} model.Review
// @Failure     400 {object} errorPayload
// @Failure     404 {object} errorPayload
// @Router      /api/v1/reviews/{review_id} [put]
func UpdateReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("review_id")
		if !validID(id) {
			return writeServiceError(c, service.ErrReviewNotFound)
		}

		r, err := svc.Update(c.UserContext(), id, bodyAttrs(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(r)
	}
}

// DeleteReview removes a review and answers with an empty object.
//
// @Summary     Delete a review
// @Tags        reviews
// @Produce     json
// @Param       review_id path string true "Review ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} errorPayload
// @Router      /api/v1/reviews/{review_id} [delete]
func DeleteReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("review_id")
		if !validID(id) {
			return writeServiceError(c, service.ErrReviewNotFound)
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{})
	}
}

// reviewRequest documents the request body; handlers decode into service.Attrs.
type reviewRequest struct {
	UserID string `json:"user_id,omitempty"`
	Text   string `json:"text"`
}
