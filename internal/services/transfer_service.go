package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
	"homebanking/internal/statement"
	"homebanking/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DestinationKind string

const (
	DestinationAlias        DestinationKind = "alias"
	DestinationRoutingAlias DestinationKind = "routingAlias"
	DestinationAccountID    DestinationKind = "accountId"
)

func (k DestinationKind) lookup() (store.AccountLookup, bool) {
	switch k {
	case DestinationAlias:
		return store.ByAlias, true
	case DestinationRoutingAlias:
		return store.ByRoutingAlias, true
	case DestinationAccountID:
		return store.ByID, true
	}
	return 0, false
}

type Destination struct {
	Kind  DestinationKind
	Value string
}

type TransferRequest struct {
	UserID          string
	OriginAccountID string
	Destination     Destination
	Amount          decimal.Decimal
	Note            string
}

type TransferReceipt struct {
	CorrelationID       string          `json:"correlationId"`
	DebitTransactionID  string          `json:"debitTransactionId"`
	CreditTransactionID string          `json:"creditTransactionId"`
	NewOriginBalance    decimal.Decimal `json:"newOriginBalance"`
}

type TransferState string

const (
	StateIdle       TransferState = "idle"
	StateResolving  TransferState = "resolving"
	StateValidated  TransferState = "validated"
	StateCommitting TransferState = "committing"
	StateCommitted  TransferState = "committed"
	StateRejected   TransferState = "rejected"
)

type TransferService struct {
	txRunner     store.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	hub          BalanceHub
	now          func() time.Time
	newID        func() string
}

func NewTransferService(txRunner store.TxRunner, accounts AccountStore, transactions TransactionStore, hub BalanceHub) *TransferService {
	return &TransferService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		hub:          hub,
		now:          time.Now,
		newID:        newCorrelationID,
	}
}

// newCorrelationID uses time-ordered UUIDs so transfer ids sort by creation.
func newCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type transferRun struct {
	correlationID string
	state         TransferState
}

func (r *transferRun) move(next TransferState) {
	log.Printf("transfer %s: %s -> %s", r.correlationID, r.state, next)
	r.state = next
}

func (r *transferRun) reject(err error) error {
	reason := apperr.CodeOf(err)
	if reason == "" {
		reason = err.Error()
	}
	log.Printf("transfer %s: %s -> %s (%s)", r.correlationID, r.state, StateRejected, reason)
	r.state = StateRejected
	return err
}

// Transfer moves funds between two accounts of different owners. Resolution,
// validation and commit all run inside one exclusive section, so the checks
// see exactly the state the commit replaces.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (TransferReceipt, error) {
	run := &transferRun{correlationID: s.newID(), state: StateIdle}
	var origin, destination models.Account
	var receipt TransferReceipt
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		run.move(StateResolving)
		dest, err := s.resolve(ctx, tx, req.Destination)
		if err != nil {
			return err
		}
		orig, err := s.validate(ctx, tx, req, dest)
		if err != nil {
			return err
		}
		run.move(StateValidated)

		run.move(StateCommitting)
		date := s.now().UTC()
		debit := models.Transaction{
			ID:                "trx-" + run.correlationID + "_debit",
			EntityID:          orig.ID,
			EntityKind:        models.EntityAccount,
			Date:              date,
			Description:       transferDescription("Transfer sent to", dest.Alias, req.Note),
			Amount:            req.Amount,
			Direction:         models.Debit,
			CounterpartyAlias: dest.Alias,
			Note:              req.Note,
			CorrelationID:     run.correlationID,
		}
		credit := models.Transaction{
			ID:                "trx-" + run.correlationID + "_credit",
			EntityID:          dest.ID,
			EntityKind:        models.EntityAccount,
			Date:              date,
			Description:       transferDescription("Transfer received from", orig.Alias, req.Note),
			Amount:            req.Amount,
			Direction:         models.Credit,
			CounterpartyAlias: orig.Alias,
			Note:              req.Note,
			CorrelationID:     run.correlationID,
		}
		if err := ensureBalanced(debit, credit); err != nil {
			return err
		}
		orig.Balance = orig.Balance.Sub(req.Amount)
		dest.Balance = dest.Balance.Add(req.Amount)
		if err := s.accounts.Update(ctx, tx, orig); err != nil {
			return err
		}
		if err := s.accounts.Update(ctx, tx, dest); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, debit); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, credit); err != nil {
			return err
		}
		origin, destination = orig, dest
		receipt = TransferReceipt{
			CorrelationID:       run.correlationID,
			DebitTransactionID:  debit.ID,
			CreditTransactionID: credit.ID,
			NewOriginBalance:    orig.Balance,
		}
		return nil
	})
	if err != nil {
		return TransferReceipt{}, run.reject(err)
	}
	run.move(StateCommitted)
	broadcastAccount(s.hub, origin, receipt.DebitTransactionID)
	broadcastAccount(s.hub, destination, receipt.CreditTransactionID)
	return receipt, nil
}

func (s *TransferService) resolve(ctx context.Context, tx *store.Tx, selector Destination) (models.Account, error) {
	lookup, ok := selector.Kind.lookup()
	if !ok {
		return models.Account{}, apperr.Wrap(apperr.ErrDestinationNotFound, fmt.Errorf("unknown selector %q", selector.Kind))
	}
	account, err := s.accounts.FindForUpdate(ctx, tx, lookup, selector.Value)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return models.Account{}, apperr.Wrap(apperr.ErrDestinationNotFound, err)
	}
	return account, err
}

// validate applies the transfer rules in order; the first failure wins.
func (s *TransferService) validate(ctx context.Context, tx *store.Tx, req TransferRequest, dest models.Account) (models.Account, error) {
	origin, err := s.accounts.GetForUpdate(ctx, tx, req.OriginAccountID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return models.Account{}, apperr.Wrap(apperr.ErrOriginNotOwned, err)
	}
	if err != nil {
		return models.Account{}, err
	}
	if origin.OwnerUserID != req.UserID {
		return models.Account{}, apperr.ErrOriginNotOwned
	}
	if dest.OwnerUserID == req.UserID {
		return models.Account{}, apperr.ErrSelfTransfer
	}
	if err := validAmount(req.Amount); err != nil {
		return models.Account{}, err
	}
	if origin.Balance.LessThan(req.Amount) {
		return models.Account{}, apperr.ErrInsufficientFunds
	}
	if origin.Currency != dest.Currency {
		return models.Account{}, apperr.ErrCurrencyMismatch
	}
	return origin, nil
}

func transferDescription(prefix, alias, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return prefix + " " + alias
	}
	return prefix + " " + alias + " - " + note
}

type HistoryFilter string

const (
	HistoryAll      HistoryFilter = "all"
	HistorySent     HistoryFilter = "sent"
	HistoryReceived HistoryFilter = "received"
)

// History lists the transfer entries on the user's accounts, newest first.
func (s *TransferService) History(ctx context.Context, userID string, filter HistoryFilter) ([]models.Transaction, error) {
	accounts, err := s.accounts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	var entries []models.Transaction
	for _, account := range accounts {
		accountEntries, err := s.transactions.ListFor(ctx, account.ID, models.EntityAccount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, accountEntries...)
	}
	sent, received := statement.SplitTransfers(entries)
	switch filter {
	case HistorySent:
		return statement.SortByDate(sent), nil
	case HistoryReceived:
		return statement.SortByDate(received), nil
	case HistoryAll, "":
		return statement.SortByDate(append(sent, received...)), nil
	}
	return nil, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("history filter %q", filter))
}
