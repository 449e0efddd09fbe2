package budgets

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by SortBudgets. Date compares year first, then month.
const (
	SortDateDesc = "date-desc"
	SortDateAsc  = "date-asc"
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
)

// YearAll disables year filtering.
const YearAll = "all"

// FilterBudgets keeps budgets whose name contains query (case-insensitive)
// and whose year matches yearFilter ("all" matches every year).
func FilterBudgets(list []Budget, query, yearFilter string) []Budget {
	needle := strings.ToLower(query)
	filtered := make([]Budget, 0, len(list))
	for _, budget := range list {
		if !strings.Contains(strings.ToLower(budget.Name), needle) {
			continue
		}
		if yearFilter != "" && yearFilter != YearAll && strconv.Itoa(budget.Year) != yearFilter {
			continue
		}
		filtered = append(filtered, budget)
	}
	return filtered
}

// SortBudgets returns a sorted copy; equal elements keep their relative order.
// Unknown keys leave the input order untouched.
func SortBudgets(list []Budget, key string) []Budget {
	sorted := make([]Budget, len(list))
	copy(sorted, list)

	switch key {
	case SortDateDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Year != sorted[j].Year {
				return sorted[i].Year > sorted[j].Year
			}
			return sorted[i].Month > sorted[j].Month
		})
	case SortDateAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Year != sorted[j].Year {
				return sorted[i].Year < sorted[j].Year
			}
			return sorted[i].Month < sorted[j].Month
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
	}
	return sorted
}

func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
