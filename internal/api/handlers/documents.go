package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

// DocumentsHandler serves /api/v1/documents.
type DocumentsHandler struct {
	fixtures *Fixtures
	log      zerolog.Logger
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(fixtures *Fixtures, log zerolog.Logger) *DocumentsHandler {
	return &DocumentsHandler{fixtures: fixtures, log: log}
}

// GetTariff handles GET /tariff-document/{accountID}.
func (h *DocumentsHandler) GetTariff(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r, "tariff")
	if !ok {
		return
	}
	respond(w, h.log, domain.GetTariffDocumentResponse{Tariff: doc})
}

// GetContract handles GET /contract-document/{accountID}.
func (h *DocumentsHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r, "contract")
	if !ok {
		return
	}
	respond(w, h.log, domain.GetContractDocumentResponse{Contract: doc})
}

func (h *DocumentsHandler) document(w http.ResponseWriter, r *http.Request, kind string) (domain.Document, bool) {
	accountID := chi.URLParam(r, "accountID")

	doc, err := Fixture[domain.Document](h.fixtures, map[string]any{
		"url": "https://storage.finops.test/accounts/" + url.PathEscape(accountID) + "/" + kind + ".pdf",
	})
	if err != nil {
		fail(w, h.log, err, "Failed to build "+kind)
		return domain.Document{}, false
	}
	return doc, true
}
