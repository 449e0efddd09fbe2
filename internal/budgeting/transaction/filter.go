package transactions

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by SortTransactions.
const (
	SortDateDesc   = "date-desc"
	SortDateAsc    = "date-asc"
	SortAmountDesc = "amount-desc"
	SortAmountAsc  = "amount-asc"
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortTypeAsc    = "type-asc"
	SortTypeDesc   = "type-desc"
)

// FilterByName keeps transactions whose name contains query,
// case-insensitively. An empty query matches everything.
func FilterByName(list []Transaction, query string) []Transaction {
	needle := strings.ToLower(query)
	filtered := make([]Transaction, 0, len(list))
	for _, transaction := range list {
		if strings.Contains(strings.ToLower(transaction.Name), needle) {
			filtered = append(filtered, transaction)
		}
	}
	return filtered
}

// SortTransactions returns a sorted copy; equal elements keep their relative
// order. Dates compare as calendar dates, names through a collator, and the
// type keys only order income against expense. Unknown keys leave the input
// order untouched.
func SortTransactions(list []Transaction, key string) []Transaction {
	sorted := make([]Transaction, len(list))
	copy(sorted, list)

	switch key {
	case SortDateDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return parseDate(sorted[i].Date).After(parseDate(sorted[j].Date))
		})
	case SortDateAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return parseDate(sorted[i].Date).Before(parseDate(sorted[j].Date))
		})
	case SortAmountDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Amount > sorted[j].Amount
		})
	case SortAmountAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Amount < sorted[j].Amount
		})
	case SortNameAsc:
		c := newNameCollator()
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	case SortNameDesc:
		c := newNameCollator()
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Name, sorted[j].Name) > 0
		})
	case SortTypeAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Type == TypeIncome && sorted[j].Type == TypeExpense
		})
	case SortTypeDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Type == TypeExpense && sorted[j].Type == TypeIncome
		})
	}
	return sorted
}

func parseDate(value string) time.Time {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return date
}

func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
