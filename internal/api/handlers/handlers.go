// Package handlers serves the gateway endpoints from generated fixtures.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/api/middleware"
	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/logger"
	"github.com/dvloznov/finops-gateway/internal/schema"
	"github.com/dvloznov/finops-gateway/internal/schema/fakers"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrNotFound is returned by Records for unknown ids.
var ErrNotFound = errors.New("not found")

// Records is the state kept between calls so that created users and
// operations can be read back.
type Records interface {
	SaveUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	SaveOperation(ctx context.Context, op domain.Operation) error
	GetOperation(ctx context.Context, operationID string) (domain.Operation, error)
	ListOperations(ctx context.Context, accountID string) ([]domain.Operation, error)
}

// Fixtures hands out generated values from one seeded faker.
type Fixtures struct {
	mu    sync.Mutex
	faker *fakers.Faker
}

// NewFixtures seeds the generator. Seed 0 picks a random seed.
func NewFixtures(seed uint64) *Fixtures {
	if seed == 0 {
		return &Fixtures{faker: fakers.Random()}
	}
	return &Fixtures{faker: fakers.New(seed)}
}

// Fixture builds a T with the given overrides.
func Fixture[T any](fx *Fixtures, overrides map[string]any) (T, error) {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return schema.WithDefaults[T](fx.faker, overrides)
}

// Count draws a number in [min, max].
func (fx *Fixtures) Count(min, max int) int {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return fx.faker.Count(min, max)
}

type violationBody struct {
	Path     string `json:"path"`
	Reason   string `json:"reason"`
	Expected string `json:"expected"`
}

// writeViolations answers 422 with the offending paths.
func writeViolations(w http.ResponseWriter, verr *schema.ValidationError) {
	out := make([]violationBody, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		out = append(out, violationBody{Path: v.Path, Reason: string(v.Reason), Expected: v.Expected})
	}
	middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":      verr.Error(),
		"violations": out,
	})
}

// decodeBody parses the request body as T, answering the request itself on failure.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return zero, false
	}

	msg, err := schema.Parse[T](body)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			writeViolations(w, verr)
			return zero, false
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Failed to parse request")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return zero, false
	}
	return msg, true
}

// decodeQuery parses the query string as T.
func decodeQuery[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	msg, err := schema.ParseQuery[T](r.URL.Query())
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			writeViolations(w, verr)
			return zero, false
		}
		middleware.WriteError(w, http.StatusBadRequest, "Invalid query")
		return zero, false
	}
	return msg, true
}

// respond renders msg through its shape.
func respond(w http.ResponseWriter, log zerolog.Logger, msg any) {
	body, err := schema.Render(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render response")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to render response")
		return
	}
	middleware.WriteRaw(w, http.StatusOK, body)
}

// fail logs err and answers 500.
func fail(w http.ResponseWriter, log zerolog.Logger, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	middleware.WriteError(w, http.StatusInternalServerError, msg)
}
