package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	creditCardLimit = decimal.NewFromInt(100000)
	debitCardLimit  = decimal.NewFromInt(50000)
)

type CardService struct {
	txRunner     store.TxRunner
	users        UserStore
	cards        CardStore
	transactions TransactionStore
	now          func() time.Time
}

func NewCardService(txRunner store.TxRunner, users UserStore, cards CardStore, transactions TransactionStore) *CardService {
	return &CardService{
		txRunner:     txRunner,
		users:        users,
		cards:        cards,
		transactions: transactions,
		now:          time.Now,
	}
}

func (s *CardService) ListOwned(ctx context.Context, userID string) ([]models.Card, error) {
	return s.cards.ListByOwner(ctx, userID)
}

// Get hides cards the identity may not see behind NotFound.
func (s *CardService) Get(ctx context.Context, identity auth.Identity, cardID string) (models.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !canView(identity, card.Base().OwnerUserID) {
		return nil, apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("card %s", cardID))
	}
	return card, nil
}

type CreateCardRequest struct {
	OwnerUserID string
	Kind        models.CardKind
	DisplayName string
}

// Create issues a card with the default limit for its kind. Credit cards
// fall due on the 10th of the month after issue.
func (s *CardService) Create(ctx context.Context, identity auth.Identity, req CreateCardRequest) (models.Card, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	base := models.CardBase{
		ID:           uuid.NewString(),
		OwnerUserID:  req.OwnerUserID,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		MaskedNumber: "**** **** **** " + randomDigits(4),
		BalanceToPay: decimal.Zero,
		ExpiryDate:   now.AddDate(5, 0, 0).Format("2006-01"),
	}
	var card models.Card
	switch req.Kind {
	case models.CardCredit:
		base.AvailableCredit = creditCardLimit
		if base.DisplayName == "" {
			base.DisplayName = "Tarjeta de Crédito"
		}
		due := time.Date(now.Year(), now.Month()+1, 10, 0, 0, 0, 0, time.UTC)
		card = &models.CreditCard{CardBase: base, DueDate: due.Format(time.DateOnly)}
	case models.CardDebit:
		base.AvailableCredit = debitCardLimit
		if base.DisplayName == "" {
			base.DisplayName = "Tarjeta de Débito"
		}
		card = &models.DebitCard{CardBase: base}
	default:
		return nil, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("card kind %q", req.Kind))
	}
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		return s.cards.Create(ctx, tx, card)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("card %s issued to user %s", base.ID, base.OwnerUserID)
	return card, nil
}

type CardMovementRequest struct {
	CardID      string
	Amount      decimal.Decimal
	Description string
	// Date backdates the entry. Zero means now.
	Date time.Time
}

// RecordExpense charges a card. The available credit shrinks by the amount
// and, for credit cards, the balance to pay grows by the same amount.
func (s *CardService) RecordExpense(ctx context.Context, identity auth.Identity, req CardMovementRequest) (models.Transaction, error) {
	if err := requireAdmin(identity); err != nil {
		return models.Transaction{}, err
	}
	if err := validAmount(req.Amount); err != nil {
		return models.Transaction{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return models.Transaction{}, apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("description"))
	}
	var entry models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, req.CardID)
		if err != nil {
			return err
		}
		base := card.Base()
		if base.AvailableCredit.LessThan(req.Amount) {
			return apperr.ErrInsufficientCredit
		}
		base.AvailableCredit = base.AvailableCredit.Sub(req.Amount)
		if card.Kind() == models.CardCredit {
			base.BalanceToPay = base.BalanceToPay.Add(req.Amount)
		}
		entry = s.cardEntry(base.ID, description, req.Amount, models.Debit, req.Date)
		if err := s.cards.Update(ctx, tx, card); err != nil {
			return err
		}
		return s.transactions.Create(ctx, tx, entry)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return entry, nil
}

// RecordPayment settles part of a credit card's balance to pay and frees
// the same amount of credit.
func (s *CardService) RecordPayment(ctx context.Context, identity auth.Identity, req CardMovementRequest) (models.Transaction, error) {
	if err := requireAdmin(identity); err != nil {
		return models.Transaction{}, err
	}
	if err := validAmount(req.Amount); err != nil {
		return models.Transaction{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Pago recibido"
	}
	var entry models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, req.CardID)
		if err != nil {
			return err
		}
		if card.Kind() != models.CardCredit {
			return apperr.ErrNotCreditCard
		}
		base := card.Base()
		if base.BalanceToPay.LessThan(req.Amount) {
			return apperr.ErrPaymentExceedsDebt
		}
		base.BalanceToPay = base.BalanceToPay.Sub(req.Amount)
		base.AvailableCredit = base.AvailableCredit.Add(req.Amount)
		entry = s.cardEntry(base.ID, description, req.Amount, models.Credit, req.Date)
		if err := s.cards.Update(ctx, tx, card); err != nil {
			return err
		}
		return s.transactions.Create(ctx, tx, entry)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return entry, nil
}

func (s *CardService) cardEntry(cardID, description string, amount decimal.Decimal, direction models.Direction, date time.Time) models.Transaction {
	if date.IsZero() {
		date = s.now()
	}
	return models.Transaction{
		ID:          "trx-" + newCorrelationID(),
		EntityID:    cardID,
		EntityKind:  models.EntityCard,
		Date:        date.UTC(),
		Description: description,
		Amount:      amount,
		Direction:   direction,
	}
}
