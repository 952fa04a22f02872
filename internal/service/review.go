package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reviewapi/internal/cache"
	"reviewapi/internal/model"
	"reviewapi/internal/repository"
	"reviewapi/internal/storage"
)

var tracer trace.Tracer = otel.Tracer("reviewapi/internal/service")

// Attrs is a decoded JSON request object. A nil Attrs means the request body
// was not a JSON object.
type Attrs map[string]any

// ReviewService defines the use cases for handling reviews.
type ReviewService interface {
	// ListByPlace returns every review of an existing place.
	ListByPlace(ctx context.Context, placeID string) ([]model.Review, error)

	// Get returns a single review by its ID.
	Get(ctx context.Context, id string) (*model.Review, error)

	// Create validates attrs and stores a new review under placeID.
	// Checks run in order: place, JSON body, user_id, user, text.
	Create(ctx context.Context, placeID string, attrs Attrs) (*model.Review, error)

	// Update applies attrs to an existing review, ignoring protected fields.
	Update(ctx context.Context, id string, attrs Attrs) (*model.Review, error)

	// Delete archives (when an archive is configured) and removes a review.
	Delete(ctx context.Context, id string) error
}

// reviewService is a concrete implementation of ReviewService.
type reviewService struct {
	reviews repository.ReviewRepository
	places  repository.PlaceRepository
	users   repository.UserRepository
	cache   cache.Cache
	archive storage.Storage
	now     func() time.Time
}

// Option customizes a review service.
type Option func(*reviewService)

// WithCache enables cache-aside listing of place reviews.
func WithCache(c cache.Cache) Option {
	return func(s *reviewService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithArchive stores a JSON copy of every deleted review in object storage.
func WithArchive(st storage.Storage) Option {
	return func(s *reviewService) { s.archive = st }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *reviewService) { s.now = now }
}

// NewReviewService constructs a new ReviewService.
func NewReviewService(reviews repository.ReviewRepository, places repository.PlaceRepository, users repository.UserRepository, opts ...Option) ReviewService {
	s := &reviewService{
		reviews: reviews,
		places:  places,
		users:   users,
		cache:   cache.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func placeReviewsGenKey(placeID string) string {
	return "place_reviews_gen:" + placeID
}

// placeReviewsKey names a listing snapshot. Bumping the place generation
// retires every snapshot taken before the bump.
func placeReviewsKey(placeID string, gen int64) string {
	return fmt.Sprintf("place_reviews:%s:%d", placeID, gen)
}

func archiveKey(r *model.Review) string {
	return fmt.Sprintf("reviews/%s/%s.json", r.PlaceID, r.ID)
}

func finish(span trace.Span, err error) {
	if err != nil && !IsNotFound(err) && !IsInvalidInput(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// notFound maps sql.ErrNoRows from a repository to the given not-found error.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

func (s *reviewService) requirePlace(ctx context.Context, placeID string) error {
	if placeID == "" {
		return ErrPlaceNotFound
	}
	if _, err := s.places.FindByID(ctx, placeID); err != nil {
		return notFound(err, ErrPlaceNotFound)
	}
	return nil
}

// generation returns the current listing generation of a place. ok is false
// when the cache cannot be trusted for this request.
func (s *reviewService) generation(ctx context.Context, placeID string) (gen int64, ok bool) {
	if _, err := s.cache.Get(ctx, placeReviewsGenKey(placeID), &gen); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("place_id", placeID).Msg("review cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (s *reviewService) invalidate(ctx context.Context, placeID string) {
	gen, err := s.cache.Incr(ctx, placeReviewsGenKey(placeID))
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("place_id", placeID).Msg("review cache invalidation failed")
		return
	}
	if err := s.cache.Del(ctx, placeReviewsKey(placeID, gen-1)); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("place_id", placeID).Msg("stale review listing not removed")
	}
}

func (s *reviewService) ListByPlace(ctx context.Context, placeID string) (_ []model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.ListByPlace", trace.WithAttributes(attribute.String("place.id", placeID)))
	defer func() { finish(span, err) }()

	// The generation is read before the load so a snapshot that races a
	// write lands under a retired key.
	gen, cacheable := s.generation(ctx, placeID)
	key := placeReviewsKey(placeID, gen)
	if cacheable {
		var cached []model.Review
		hit, cerr := s.cache.Get(ctx, key, &cached)
		if cerr != nil {
			log.Ctx(ctx).Warn().Err(cerr).Str("key", key).Msg("review cache read failed")
		}
		if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	if err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}
	items, err := s.reviews.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Review{}
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, items); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("review cache write failed")
		}
	}
	return items, nil
}

func (s *reviewService) Get(ctx context.Context, id string) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.Get", trace.WithAttributes(attribute.String("review.id", id)))
	defer func() { finish(span, err) }()

	return s.find(ctx, id)
}

func (s *reviewService) find(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, ErrReviewNotFound
	}
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return r, nil
}

func (s *reviewService) Create(ctx context.Context, placeID string, attrs Attrs) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.Create", trace.WithAttributes(attribute.String("place.id", placeID)))
	defer func() { finish(span, err) }()

	if err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, ErrNotJSON
	}

	rawUser, ok := attrs["user_id"]
	if !ok {
		return nil, ErrMissingUserID
	}
	if rawUser == nil {
		return nil, ErrUserNotFound
	}
	userID, ok := rawUser.(string)
	if !ok {
		return nil, ErrInvalidUserID
	}
	// users.id is a UUID column; anything else cannot name a user.
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	rawText, ok := attrs["text"]
	if !ok {
		return nil, ErrMissingText
	}
	text, ok := rawText.(string)
	if !ok {
		return nil, ErrInvalidText
	}

	now := s.now().UTC()
	stored, err := s.reviews.Create(ctx, &model.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlaceID:   placeID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.invalidate(ctx, placeID)
	return stored, nil
}

func (s *reviewService) Update(ctx context.Context, id string, attrs Attrs) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.Update", trace.WithAttributes(attribute.String("review.id", id)))
	defer func() { finish(span, err) }()

	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, ErrNotJSON
	}

	for key, val := range attrs {
		if model.IsProtected(key) {
			continue
		}
		switch key {
		case "text":
			text, ok := val.(string)
			if !ok {
				return nil, ErrInvalidText
			}
			r.Text = text
		default:
			log.Ctx(ctx).Debug().Str("review_id", id).Str("field", key).Msg("ignoring unknown review attribute")
		}
	}
	r.UpdatedAt = s.now().UTC()

	updated, err := s.reviews.Update(ctx, r)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}

	s.invalidate(ctx, updated.PlaceID)
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "ReviewService.Delete", trace.WithAttributes(attribute.String("review.id", id)))
	defer func() { finish(span, err) }()

	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	var key string
	if s.archive != nil {
		key = archiveKey(r)
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode archive: %w", err)
		}
		if _, err := s.archive.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
			Size:        int64(len(body)),
			ContentType: "application/json",
			Metadata:    map[string]string{"review-id": r.ID, "place-id": r.PlaceID},
		}); err != nil {
			return fmt.Errorf("archive review: %w", err)
		}
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		if s.archive != nil {
			if delErr := s.archive.Delete(ctx, key); delErr != nil {
				return fmt.Errorf("db delete failed: %v; rollback archive failed: %v", err, delErr)
			}
		}
		return notFound(err, ErrReviewNotFound)
	}

	s.invalidate(ctx, r.PlaceID)
	return nil
}
