// Package gatewaystub is an in-process stand-in for the financial-operations
// gateway. Every endpoint the clients call is served from generated fixtures,
// and created users and operations can be read back.
package gatewaystub

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/api/handlers"
	"github.com/dvloznov/finops-gateway/internal/api/middleware"
	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/gateway/cards"
	"github.com/dvloznov/finops-gateway/internal/gateway/documents"
	"github.com/dvloznov/finops-gateway/internal/gateway/operations"
	"github.com/dvloznov/finops-gateway/internal/gateway/users"
)

// Config controls the stub.
type Config struct {
	// Seed fixes the fixture sequence; 0 picks a random one.
	Seed uint64
	// Token, when set, is required as "Authorization: Bearer <token>".
	Token string
}

// NewRouter builds the stub's HTTP handler over store.
func NewRouter(cfg Config, store handlers.Records, log zerolog.Logger) http.Handler {
	fixtures := handlers.NewFixtures(cfg.Seed)

	ops := handlers.NewOperationsHandler(store, fixtures, log.With().Str("component", "operations").Logger())
	cardsH := handlers.NewCardsHandler(fixtures, log.With().Str("component", "cards").Logger())
	docs := handlers.NewDocumentsHandler(fixtures, log.With().Str("component", "documents").Logger())
	usersH := handlers.NewUsersHandler(store, fixtures, log.With().Str("component", "users").Logger())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.Token))

		r.Route(operations.BasePath, func(r chi.Router) {
			r.Get("/", ops.ListOperations)
			r.Get(operations.SummaryPath, ops.GetSummary)
			r.Get(operations.ReceiptPath+"/{operationID}", ops.GetReceipt)
			r.Post(operations.FeePath, ops.Make(domain.OperationTypeFee))
			r.Post(operations.TopUpPath, ops.Make(domain.OperationTypeTopUp))
			r.Post(operations.CashbackPath, ops.Make(domain.OperationTypeCashback))
			r.Post(operations.TransferPath, ops.Make(domain.OperationTypeTransfer))
			r.Post(operations.PurchasePath, ops.MakePurchase)
			r.Post(operations.BillPaymentPath, ops.Make(domain.OperationTypeBillPayment))
			r.Post(operations.CashWithdrawalPath, ops.Make(domain.OperationTypeCashWithdrawal))
			r.Get("/{operationID}", ops.GetOperation)
		})

		r.Route(cards.BasePath, func(r chi.Router) {
			r.Post(cards.IssueVirtualPath, cardsH.Issue(domain.CardTypeVirtual))
			r.Post(cards.IssuePhysicalPath, cardsH.Issue(domain.CardTypePhysical))
		})

		r.Route(documents.BasePath, func(r chi.Router) {
			r.Get(documents.TariffPath+"/{accountID}", docs.GetTariff)
			r.Get(documents.ContractPath+"/{accountID}", docs.GetContract)
		})

		r.Route(users.BasePath, func(r chi.Router) {
			r.Post("/", usersH.CreateUser)
			r.Get("/{userID}", usersH.GetUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
