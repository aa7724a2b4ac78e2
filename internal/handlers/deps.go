package handlers

import (
	"context"
	"time"

	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/services"
	"homebanking/internal/statement"

	"github.com/shopspring/decimal"
)

type UserService interface {
	Register(ctx context.Context, req services.NewUser) (models.User, error)
	Create(ctx context.Context, identity auth.Identity, req services.NewUser) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Get(ctx context.Context, userID string) (models.User, error)
	List(ctx context.Context, identity auth.Identity) ([]models.User, error)
	Delete(ctx context.Context, identity auth.Identity, userID string) error
}

type AccountService interface {
	ListOwned(ctx context.Context, userID string) ([]models.Account, error)
	Get(ctx context.Context, identity auth.Identity, accountID string) (models.Account, error)
	Create(ctx context.Context, identity auth.Identity, req services.CreateAccountRequest) (models.Account, error)
	Adjust(ctx context.Context, identity auth.Identity, req services.AdjustmentRequest) (models.Transaction, error)
}

type CardService interface {
	ListOwned(ctx context.Context, userID string) ([]models.Card, error)
	Get(ctx context.Context, identity auth.Identity, cardID string) (models.Card, error)
	Create(ctx context.Context, identity auth.Identity, req services.CreateCardRequest) (models.Card, error)
	RecordExpense(ctx context.Context, identity auth.Identity, req services.CardMovementRequest) (models.Transaction, error)
	RecordPayment(ctx context.Context, identity auth.Identity, req services.CardMovementRequest) (models.Transaction, error)
}

type TransferService interface {
	Transfer(ctx context.Context, req services.TransferRequest) (services.TransferReceipt, error)
	History(ctx context.Context, userID string, filter services.HistoryFilter) ([]models.Transaction, error)
}

type LedgerService interface {
	ComputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	Reconcile(ctx context.Context, accountID string) (services.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]services.Reconciliation, error)
}

type StatementService interface {
	Build(ctx context.Context, identity auth.Identity, kind models.EntityKind, entityID string, window statement.Window, now time.Time) (services.Statement, error)
	AccountActivity(ctx context.Context, identity auth.Identity, accountID string, direction models.Direction, query string) ([]models.Transaction, error)
	CardActivity(ctx context.Context, identity auth.Identity, cardID, month string) ([]models.Transaction, error)
}

// DataStore is the whole-store maintenance surface used by the admin routes.
type DataStore interface {
	ExportAll(ctx context.Context) ([]byte, error)
	ImportAll(ctx context.Context, data []byte) error
	ResetToDefaults(ctx context.Context) error
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Deps struct {
	Users      UserService
	Accounts   AccountService
	Cards      CardService
	Transfers  TransferService
	Ledger     LedgerService
	Statements StatementService
	Data       DataStore
	Admins     AdminChecker
}
