package statement

import (
	"errors"
	"sort"
	"strings"
	"time"

	"homebanking/internal/models"

	"github.com/shopspring/decimal"
)

type Window string

const (
	Last30Days        Window = "last30Days"
	Last90Days        Window = "last90Days"
	CurrentYearToDate Window = "currentYearToDate"
)

var ErrUnknownWindow = errors.New("unknown statement window")

func ParseWindow(raw string) (Window, error) {
	switch Window(raw) {
	case Last30Days, Last90Days, CurrentYearToDate:
		return Window(raw), nil
	case "":
		return Last30Days, nil
	}
	return "", ErrUnknownWindow
}

// Since returns the inclusive lower bound of w relative to now.
func (w Window) Since(now time.Time) (time.Time, error) {
	switch w {
	case Last30Days:
		return now.AddDate(0, 0, -30), nil
	case Last90Days:
		return now.AddDate(0, 0, -90), nil
	case CurrentYearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, ErrUnknownWindow
}

type Summary struct {
	TotalCredits decimal.Decimal `json:"totalCredits"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	Net          decimal.Decimal `json:"net"`
	Count        int             `json:"count"`
}

type DateGroup struct {
	Date         string               `json:"date"`
	Transactions []models.Transaction `json:"transactions"`
}

// FilterByWindow keeps the transactions dated on or after the window's
// lower bound. The input slice is not modified.
func FilterByWindow(txs []models.Transaction, w Window, now time.Time) ([]models.Transaction, error) {
	since, err := w.Since(now)
	if err != nil {
		return nil, err
	}
	return filter(txs, func(t models.Transaction) bool { return !t.Date.Before(since) }), nil
}

// FilterByMonth keeps the transactions whose date falls in the given
// "YYYY-MM" month. An empty month keeps everything.
func FilterByMonth(txs []models.Transaction, month string) ([]models.Transaction, error) {
	if month == "" {
		return filter(txs, func(models.Transaction) bool { return true }), nil
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 1, 0)
	return filter(txs, func(t models.Transaction) bool {
		date := t.Date.UTC()
		return !date.Before(start) && date.Before(end)
	}), nil
}

func FilterByDirection(txs []models.Transaction, direction models.Direction) []models.Transaction {
	if direction == "" {
		return filter(txs, func(models.Transaction) bool { return true })
	}
	return filter(txs, func(t models.Transaction) bool { return t.Direction == direction })
}

// Search matches query against the description, the counterparty alias and
// the note, ignoring case.
func Search(txs []models.Transaction, query string) []models.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return filter(txs, func(models.Transaction) bool { return true })
	}
	return filter(txs, func(t models.Transaction) bool {
		return strings.Contains(strings.ToLower(t.Description), query) ||
			strings.Contains(strings.ToLower(t.CounterpartyAlias), query) ||
			strings.Contains(strings.ToLower(t.Note), query)
	})
}

func Summarize(txs []models.Transaction) Summary {
	summary := Summary{TotalCredits: decimal.Zero, TotalDebits: decimal.Zero}
	for _, t := range txs {
		if t.Direction == models.Credit {
			summary.TotalCredits = summary.TotalCredits.Add(t.Amount)
		} else {
			summary.TotalDebits = summary.TotalDebits.Add(t.Amount)
		}
	}
	summary.Net = summary.TotalCredits.Sub(summary.TotalDebits)
	summary.Count = len(txs)
	return summary
}

// SortByDate returns a copy ordered newest first, ties broken by id.
func SortByDate(txs []models.Transaction) []models.Transaction {
	sorted := filter(txs, func(models.Transaction) bool { return true })
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// GroupByDate buckets transactions by calendar day (UTC), most recent day
// first. Within a day transactions keep the SortByDate order.
func GroupByDate(txs []models.Transaction) []DateGroup {
	groups := []DateGroup{}
	index := map[string]int{}
	for _, t := range SortByDate(txs) {
		key := t.Date.UTC().Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

// SplitTransfers separates transfer entries into those sent and those
// received. Entries without a counterparty are not transfers.
func SplitTransfers(txs []models.Transaction) (sent, received []models.Transaction) {
	sent = []models.Transaction{}
	received = []models.Transaction{}
	for _, t := range txs {
		if t.CounterpartyAlias == "" {
			continue
		}
		if t.Direction == models.Debit {
			sent = append(sent, t)
		} else {
			received = append(received, t)
		}
	}
	return sent, received
}

func filter(txs []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
