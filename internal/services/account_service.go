package services

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	accountNumberDigits = 11
	routingAliasDigits  = 22
)

var accountDisplayNames = map[models.AccountKind]string{
	models.AccountSavingsLocal:   "Caja de Ahorro en Pesos",
	models.AccountSavingsForeign: "Caja de Ahorro en Dólares",
	models.AccountChecking:       "Cuenta Corriente",
}

type AccountService struct {
	txRunner     store.TxRunner
	users        UserStore
	accounts     AccountStore
	transactions TransactionStore
	hub          BalanceHub
	now          func() time.Time
}

func NewAccountService(txRunner store.TxRunner, users UserStore, accounts AccountStore, transactions TransactionStore, hub BalanceHub) *AccountService {
	return &AccountService{
		txRunner:     txRunner,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		hub:          hub,
		now:          time.Now,
	}
}

func (s *AccountService) ListOwned(ctx context.Context, userID string) ([]models.Account, error) {
	return s.accounts.ListByOwner(ctx, userID)
}

// Get hides accounts the identity may not see behind NotFound.
func (s *AccountService) Get(ctx context.Context, identity auth.Identity, accountID string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	if !canView(identity, account.OwnerUserID) {
		return models.Account{}, apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("account %s", accountID))
	}
	return account, nil
}

type CreateAccountRequest struct {
	OwnerUserID    string
	Kind           models.AccountKind
	InitialBalance decimal.Decimal
}

// Create opens an account named after its owner and kind, for example
// "mmiranda.pesos". Savings in foreign currency hold USD, the rest ARS.
func (s *AccountService) Create(ctx context.Context, identity auth.Identity, req CreateAccountRequest) (models.Account, error) {
	if err := requireAdmin(identity); err != nil {
		return models.Account{}, err
	}
	if !req.Kind.Valid() {
		return models.Account{}, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("account kind %q", req.Kind))
	}
	if req.InitialBalance.IsNegative() || !req.InitialBalance.Equal(req.InitialBalance.Round(2)) {
		return models.Account{}, apperr.Wrap(apperr.ErrInvalidAmount, fmt.Errorf("initial balance %s", req.InitialBalance))
	}
	currency := models.CurrencyLocal
	if req.Kind == models.AccountSavingsForeign {
		currency = models.CurrencyForeign
	}
	var account models.Account
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		owner, err := s.users.GetForUpdate(ctx, tx, req.OwnerUserID)
		if err != nil {
			return err
		}
		account = models.Account{
			ID:             uuid.NewString(),
			OwnerUserID:    owner.ID,
			Kind:           req.Kind,
			DisplayName:    accountDisplayNames[req.Kind],
			AccountNumber:  randomDigits(accountNumberDigits),
			RoutingAlias:   randomDigits(routingAliasDigits),
			Alias:          strings.ToLower(owner.Username) + "." + req.Kind.Slug(),
			Balance:        req.InitialBalance,
			OpeningBalance: req.InitialBalance,
			Currency:       currency,
		}
		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return models.Account{}, err
	}
	log.Printf("account %s (%s) opened for user %s", account.ID, account.Alias, account.OwnerUserID)
	return account, nil
}

type AdjustmentRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	Direction   models.Direction
	Description string
}

// Adjust is the administrative credit or debit of an account. It moves the
// stored balance and records the entry in the same exclusive section.
func (s *AccountService) Adjust(ctx context.Context, identity auth.Identity, req AdjustmentRequest) (models.Transaction, error) {
	if err := requireAdmin(identity); err != nil {
		return models.Transaction{}, err
	}
	if req.Direction != models.Credit && req.Direction != models.Debit {
		return models.Transaction{}, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("direction %q", req.Direction))
	}
	if err := validAmount(req.Amount); err != nil {
		return models.Transaction{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Crédito administrativo"
		if req.Direction == models.Debit {
			description = "Débito administrativo"
		}
	}
	var account models.Account
	var entry models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		current, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if req.Direction == models.Debit && current.Balance.LessThan(req.Amount) {
			return apperr.ErrInsufficientFunds
		}
		entry = models.Transaction{
			ID:          "trx-" + newCorrelationID(),
			EntityID:    current.ID,
			EntityKind:  models.EntityAccount,
			Date:        s.now().UTC(),
			Description: description,
			Amount:      req.Amount,
			Direction:   req.Direction,
		}
		current.Balance = current.Balance.Add(entry.Signed())
		if err := s.accounts.Update(ctx, tx, current); err != nil {
			return err
		}
		account = current
		return s.transactions.Create(ctx, tx, entry)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	broadcastAccount(s.hub, account, entry.ID)
	return entry, nil
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}
