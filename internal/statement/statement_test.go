package statement

import (
	"testing"
	"time"

	"homebanking/internal/models"

	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func entry(id string, date time.Time, amount string, direction models.Direction) models.Transaction {
	return models.Transaction{
		ID: id, EntityID: "acc1", EntityKind: models.EntityAccount, Date: date,
		Description: "entry " + id, Amount: decimal.RequireFromString(amount), Direction: direction,
	}
}

func sample() []models.Transaction {
	return []models.Transaction{
		entry("t1", now.AddDate(0, 0, -30), "100", models.Credit),
		entry("t2", now.AddDate(0, 0, -30).Add(-time.Second), "50", models.Debit),
		entry("t3", now.AddDate(0, 0, -5), "25.50", models.Debit),
		entry("t4", now.AddDate(0, 0, -89), "10", models.Credit),
		entry("t5", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), "7", models.Credit),
	}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterByWindowInclusiveBound(t *testing.T) {
	got, err := FilterByWindow(sample(), Last30Days, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t3" {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestFilterByWindowVariants(t *testing.T) {
	cases := map[Window]int{
		Last90Days:        4,
		CurrentYearToDate: 4,
	}
	for window, expected := range cases {
		got, err := FilterByWindow(sample(), window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != expected {
			t.Fatalf("%s: expected %d entries, got %v", window, expected, ids(got))
		}
	}
	if _, err := FilterByWindow(sample(), Window("forever"), now); err != ErrUnknownWindow {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	input := sample()
	_, _ = FilterByWindow(input, Last30Days, now)
	_ = SortByDate(input)
	if input[0].ID != "t1" || input[4].ID != "t5" {
		t.Fatalf("input reordered: %v", ids(input))
	}
}

func TestParseWindow(t *testing.T) {
	if w, err := ParseWindow(""); err != nil || w != Last30Days {
		t.Fatalf("expected default window, got %s, %v", w, err)
	}
	if _, err := ParseWindow("lastWeek"); err != ErrUnknownWindow {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sample())
	if !summary.TotalCredits.Equal(decimal.RequireFromString("117")) {
		t.Fatalf("unexpected credits: %s", summary.TotalCredits)
	}
	if !summary.TotalDebits.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("unexpected debits: %s", summary.TotalDebits)
	}
	if !summary.Net.Equal(decimal.RequireFromString("41.50")) || summary.Count != 5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	empty := Summarize(nil)
	if !empty.Net.IsZero() || empty.Count != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestGroupByDateDescending(t *testing.T) {
	day := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		entry("a", day, "1", models.Credit),
		entry("c", day.AddDate(0, 0, 3), "1", models.Credit),
		entry("b", day.Add(2*time.Hour), "1", models.Debit),
	}
	groups := GroupByDate(txs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Date != "2025-05-05" || groups[1].Date != "2025-05-02" {
		t.Fatalf("unexpected order: %s, %s", groups[0].Date, groups[1].Date)
	}
	if got := ids(groups[1].Transactions); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("unexpected group contents: %v", got)
	}
}

func TestSortByDateBreaksTiesByID(t *testing.T) {
	day := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	sorted := SortByDate([]models.Transaction{
		entry("trx-1_credit", day, "1", models.Credit),
		entry("trx-1_debit", day, "1", models.Debit),
	})
	if sorted[0].ID != "trx-1_debit" {
		t.Fatalf("unexpected order: %v", ids(sorted))
	}
}

func TestFilterByMonth(t *testing.T) {
	got, err := FilterByMonth(sample(), "2024-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t5" {
		t.Fatalf("unexpected result: %v", ids(got))
	}
	if _, err := FilterByMonth(sample(), "December"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSearchAndDirection(t *testing.T) {
	txs := sample()
	txs[0].CounterpartyAlias = "melania.miranda.pesos"
	txs[2].Note = "Alquiler"
	if got := Search(txs, "MELANIA"); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected search result: %v", ids(got))
	}
	if got := Search(txs, "alquiler"); len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("unexpected search result: %v", ids(got))
	}
	if got := FilterByDirection(txs, models.Debit); len(got) != 2 {
		t.Fatalf("unexpected debit entries: %v", ids(got))
	}
}

func TestSplitTransfers(t *testing.T) {
	txs := sample()
	txs[0].CounterpartyAlias = "a"
	txs[1].CounterpartyAlias = "b"
	sent, received := SplitTransfers(txs)
	if len(sent) != 1 || sent[0].ID != "t2" {
		t.Fatalf("unexpected sent: %v", ids(sent))
	}
	if len(received) != 1 || received[0].ID != "t1" {
		t.Fatalf("unexpected received: %v", ids(received))
	}
}
