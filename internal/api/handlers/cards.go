package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

// CardsHandler serves /api/v1/cards.
type CardsHandler struct {
	fixtures *Fixtures
	log      zerolog.Logger
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(fixtures *Fixtures, log zerolog.Logger) *CardsHandler {
	return &CardsHandler{fixtures: fixtures, log: log}
}

// Issue returns the handler issuing cards of one type.
func (h *CardsHandler) Issue(cardType domain.CardType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBody[domain.IssueCardRequest](w, r)
		if !ok {
			return
		}

		card, err := Fixture[domain.Card](h.fixtures, map[string]any{
			"type":      string(cardType),
			"status":    string(domain.CardStatusActive),
			"accountId": req.AccountID,
		})
		if err != nil {
			fail(w, h.log, err, "Failed to issue card")
			return
		}

		h.log.Info().
			Str("card_id", card.ID).
			Str("type", string(card.Type)).
			Str("user_id", req.UserID).
			Str("account_id", req.AccountID).
			Msg("Card issued")

		respond(w, h.log, domain.IssueCardResponse{Card: card})
	}
}
