package handlers

import (
	"net/http"
	"time"

	"homebanking/internal/config"
	"homebanking/internal/middleware"
	"homebanking/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
)

type Handler struct {
	cfg        config.Config
	users      UserService
	accounts   AccountService
	cards      CardService
	transfers  TransferService
	ledger     LedgerService
	statements StatementService
	data       DataStore
	admins     AdminChecker
	hub        *websocket.Hub
	upgrader   *gorillaws.Upgrader
	now        func() time.Time
}

func New(cfg config.Config, deps Deps, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:        cfg,
		users:      deps.Users,
		accounts:   deps.Accounts,
		cards:      deps.Cards,
		transfers:  deps.Transfers,
		ledger:     deps.Ledger,
		statements: deps.Statements,
		data:       deps.Data,
		admins:     deps.Admins,
		hub:        hub,
		upgrader:   websocket.NewUpgrader(cfg.AllowedOrigins),
		now:        time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	authenticated := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authenticated).Get("/me", h.Me)
	})
	router.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Get("/accounts/{id}/balance", h.GetBalance)
		r.Get("/accounts/{id}/transactions", h.AccountTransactions)
		r.Get("/cards", h.ListCards)
		r.Get("/cards/{id}", h.GetCard)
		r.Get("/cards/{id}/transactions", h.CardTransactions)
		r.Post("/transfers", h.Transfer)
		r.Get("/transfers/history", h.TransferHistory)
		r.Get("/statements/{kind}/{id}", h.Statement)
	})
	router.Get("/ws/balances", h.WSBalances)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(middleware.RequireAdmin(h.admins))
		r.Get("/users", h.AdminListUsers)
		r.Post("/users", h.AdminCreateUser)
		r.Delete("/users/{id}", h.AdminDeleteUser)
		r.Post("/accounts", h.AdminCreateAccount)
		r.Post("/accounts/{id}/adjust", h.AdminAdjustAccount)
		r.Post("/cards", h.AdminCreateCard)
		r.Post("/cards/{id}/expense", h.AdminCardExpense)
		r.Post("/cards/{id}/payment", h.AdminCardPayment)
		r.Get("/reconcile", h.Reconcile)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Post("/reset", h.Reset)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
