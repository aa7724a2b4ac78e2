package store

import (
	"time"

	"homebanking/internal/auth"
	"homebanking/internal/models"

	"github.com/shopspring/decimal"
)

const defaultPassword = "1234"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DefaultSnapshot builds the demo data set. Opening balances are derived
// from the seeded transactions so that every seeded account reconciles.
func DefaultSnapshot() (*Snapshot, error) {
	secret, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return nil, err
	}
	users := []models.User{
		{ID: "1", Username: "farana", PasswordSecret: secret, DisplayName: "Federico Arana", IsAdmin: true},
		{ID: "2", Username: "mmiranda", PasswordSecret: secret, DisplayName: "Melania Miranda"},
	}
	accounts := []models.Account{
		{
			ID: "acc1", OwnerUserID: "1", Kind: models.AccountSavingsLocal,
			DisplayName: "Caja de Ahorro en Pesos", AccountNumber: "10023456789",
			RoutingAlias: "0123456789012345678901", Alias: "fede.arana.pesos",
			Balance: decimal.RequireFromString("75000.50"), Currency: models.CurrencyLocal,
		},
		{
			ID: "acc2", OwnerUserID: "1", Kind: models.AccountSavingsForeign,
			DisplayName: "Caja de Ahorro en Dólares", AccountNumber: "20023456789",
			RoutingAlias: "0123456789012345678902", Alias: "fede.arana.dolares",
			Balance: decimal.RequireFromString("2500.25"), Currency: models.CurrencyForeign,
		},
		{
			ID: "acc3", OwnerUserID: "1", Kind: models.AccountChecking,
			DisplayName: "Cuenta Corriente", AccountNumber: "30023456789",
			RoutingAlias: "0123456789012345678903", Alias: "fede.arana.cc",
			Balance: decimal.RequireFromString("35000.75"), Currency: models.CurrencyLocal,
		},
		{
			ID: "acc4", OwnerUserID: "2", Kind: models.AccountSavingsLocal,
			DisplayName: "Caja de Ahorro en Pesos", AccountNumber: "10087654321",
			RoutingAlias: "0123456789012345678904", Alias: "melania.miranda.pesos",
			Balance: decimal.RequireFromString("125000.30"), Currency: models.CurrencyLocal,
		},
	}
	cards := []models.CardRecord{
		models.EncodeCard(&models.CreditCard{
			CardBase: models.CardBase{
				ID: "card1", OwnerUserID: "1", DisplayName: "Visa Platinum",
				MaskedNumber: "**** **** **** 5678", AvailableCredit: decimal.NewFromInt(150000),
				BalanceToPay: decimal.RequireFromString("25750.50"), ExpiryDate: "2026-12",
			},
			DueDate: "2023-11-15",
		}),
		models.EncodeCard(&models.DebitCard{
			CardBase: models.CardBase{
				ID: "card2", OwnerUserID: "1", DisplayName: "Mastercard Débito",
				MaskedNumber: "**** **** **** 1234", AvailableCredit: decimal.NewFromInt(45000),
				BalanceToPay: decimal.Zero, ExpiryDate: "2025-10",
			},
		}),
		models.EncodeCard(&models.CreditCard{
			CardBase: models.CardBase{
				ID: "card3", OwnerUserID: "2", DisplayName: "American Express Gold",
				MaskedNumber: "**** **** **** 9876", AvailableCredit: decimal.NewFromInt(200000),
				BalanceToPay: decimal.RequireFromString("75200.25"), ExpiryDate: "2027-08",
			},
			DueDate: "2023-11-20",
		}),
	}
	transactions := []models.Transaction{
		seedTx("trx1", "card1", models.EntityCard, day(2023, 10, 25), "Supermercado El Pino", "12500.75", models.Debit),
		seedTx("trx2", "card1", models.EntityCard, day(2023, 10, 22), "Farmacia Salud", "3500", models.Debit),
		seedTx("trx3", "card1", models.EntityCard, day(2023, 10, 20), "Pago recibido", "15000", models.Credit),
		seedTx("trx4", "card2", models.EntityCard, day(2023, 10, 23), "Retiro ATM", "5000", models.Debit),
		seedTx("trx5", "acc1", models.EntityAccount, day(2023, 10, 24), "Transferencia recibida", "25000", models.Credit),
		seedTx("trx6", "acc1", models.EntityAccount, day(2023, 10, 21), "Pago de servicios", "3200.50", models.Debit),
		seedTx("trx7", "acc2", models.EntityAccount, day(2023, 10, 23), "Depósito en efectivo", "500", models.Credit),
		seedTx("trx8", "acc3", models.EntityAccount, day(2023, 10, 22), "Transferencia enviada", "12000", models.Debit),
		seedTx("trx9", "acc1", models.EntityAccount, day(2025, 5, 2), "Transferencia recibida de Melania Miranda", "100000", models.Credit),
		seedTx("trx10", "acc1", models.EntityAccount, day(2025, 5, 2), "Transferencia enviada a Melania Miranda", "50000", models.Debit),
	}
	for i := range accounts {
		accounts[i].OpeningBalance = openingBalance(accounts[i], transactions)
	}
	return &Snapshot{Users: users, Accounts: accounts, Cards: cards, Transactions: transactions}, nil
}

func seedTx(id, entityID string, kind models.EntityKind, date time.Time, description, amount string, direction models.Direction) models.Transaction {
	return models.Transaction{
		ID:          id,
		EntityID:    entityID,
		EntityKind:  kind,
		Date:        date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Direction:   direction,
	}
}

func openingBalance(account models.Account, transactions []models.Transaction) decimal.Decimal {
	opening := account.Balance
	for _, t := range transactions {
		if t.EntityKind == models.EntityAccount && t.EntityID == account.ID {
			opening = opening.Sub(t.Signed())
		}
	}
	return opening
}
