package store

import (
	"strings"

	"homebanking/internal/models"
)

func (s *Snapshot) userIndex(id string) int {
	for i, user := range s.Users {
		if user.ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) accountIndex(id string) int {
	for i, account := range s.Accounts {
		if account.ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) cardIndex(id string) int {
	for i, card := range s.Cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) transactionIndex(id string) int {
	for i, t := range s.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

type AccountLookup int

const (
	ByID AccountLookup = iota
	ByAlias
	ByRoutingAlias
)

func (l AccountLookup) String() string {
	switch l {
	case ByAlias:
		return "alias"
	case ByRoutingAlias:
		return "routingAlias"
	default:
		return "id"
	}
}

// FindAccount matches aliases without regard to case; ids and routing
// aliases match exactly.
func (s *Snapshot) FindAccount(lookup AccountLookup, value string) (models.Account, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.Account{}, false
	}
	for _, account := range s.Accounts {
		switch lookup {
		case ByAlias:
			if strings.EqualFold(account.Alias, value) {
				return account, true
			}
		case ByRoutingAlias:
			if account.RoutingAlias == value {
				return account, true
			}
		default:
			if account.ID == value {
				return account, true
			}
		}
	}
	return models.Account{}, false
}

func (s *Snapshot) adminCount() int {
	count := 0
	for _, user := range s.Users {
		if user.IsAdmin {
			count++
		}
	}
	return count
}

// TransactionsFor returns the entries recorded against one account or card
// in stored order.
func (s *Snapshot) TransactionsFor(entityID string, kind models.EntityKind) []models.Transaction {
	matches := []models.Transaction{}
	for _, t := range s.Transactions {
		if t.EntityID == entityID && t.EntityKind == kind {
			matches = append(matches, t)
		}
	}
	return matches
}
