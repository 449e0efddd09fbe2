package budgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBudgets() []Budget {
	return []Budget{
		{ID: "1", Name: "Groceries", Month: 3, Year: 2025},
		{ID: "2", Name: "groceries and household", Month: 1, Year: 2024},
		{ID: "3", Name: "Vacation", Month: 7, Year: 2025},
		{ID: "4", Name: "car repairs", Month: 3, Year: 2024},
	}
}

func TestFilterBudgets_CaseInsensitiveSearch(t *testing.T) {
	filtered := FilterBudgets(sampleBudgets(), "GROC", YearAll)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "2", filtered[1].ID)
}

func TestFilterBudgets_ByYear(t *testing.T) {
	filtered := FilterBudgets(sampleBudgets(), "", "2024")
	assert.Len(t, filtered, 2)
	for _, budget := range filtered {
		assert.Equal(t, 2024, budget.Year)
	}

	assert.Len(t, FilterBudgets(sampleBudgets(), "", YearAll), 4)
	assert.Len(t, FilterBudgets(sampleBudgets(), "", ""), 4)
}

func TestSortBudgets_ByDate(t *testing.T) {
	sorted := SortBudgets(sampleBudgets(), SortDateDesc)
	assert.Equal(t, "3", sorted[0].ID) // 2025-07
	assert.Equal(t, "1", sorted[1].ID) // 2025-03
	assert.Equal(t, "4", sorted[2].ID) // 2024-03
	assert.Equal(t, "2", sorted[3].ID) // 2024-01

	sorted = SortBudgets(sampleBudgets(), SortDateAsc)
	assert.Equal(t, "2", sorted[0].ID)
	assert.Equal(t, "3", sorted[3].ID)
}

func TestSortBudgets_ByNameIgnoresCase(t *testing.T) {
	sorted := SortBudgets(sampleBudgets(), SortNameAsc)
	assert.Equal(t, "car repairs", sorted[0].Name)
	assert.Equal(t, "Vacation", sorted[3].Name)
}

func TestSortBudgets_DoesNotMutateInput(t *testing.T) {
	original := sampleBudgets()
	SortBudgets(original, SortNameDesc)
	assert.Equal(t, "1", original[0].ID)

	unchanged := SortBudgets(original, "bogus-key")
	assert.Equal(t, original, unchanged)
}
