package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

// UsersHandler serves /api/v1/users.
type UsersHandler struct {
	records  Records
	fixtures *Fixtures
	log      zerolog.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(records Records, fixtures *Fixtures, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{records: records, fixtures: fixtures, log: log}
}

// CreateUser handles POST /api/v1/users.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[domain.CreateUserRequest](w, r)
	if !ok {
		return
	}

	user := domain.User{
		ID:          uuid.NewString(),
		Email:       req.Email,
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.records.SaveUser(r.Context(), user); err != nil {
		fail(w, h.log, err, "Failed to save user")
		return
	}

	h.log.Info().Str("user_id", user.ID).Msg("User created")
	respond(w, h.log, domain.CreateUserResponse{User: user})
}

// GetUser handles GET /api/v1/users/{userID}. Unknown ids get a generated user.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	user, err := h.records.GetUser(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		user, err = Fixture[domain.User](h.fixtures, map[string]any{"id": id})
		if err == nil {
			err = h.records.SaveUser(r.Context(), user)
		}
	}
	if err != nil {
		fail(w, h.log, err, "Failed to load user")
		return
	}
	respond(w, h.log, domain.GetUserResponse{User: user})
}
