package transactions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func areEqualRounded(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestTotalsAndBalance(t *testing.T) {
	list := []Transaction{
		{Name: "Salary", Type: TypeIncome, Amount: 3200.50},
		{Name: "Freelance", Type: TypeIncome, Amount: 450.25},
		{Name: "Rent", Type: TypeExpense, Amount: 1200},
		{Name: "Groceries", Type: TypeExpense, Amount: 310.75},
	}

	income := TotalByType(list, TypeIncome)
	expense := TotalByType(list, TypeExpense)
	assert.True(t, areEqualRounded(income, 3650.75))
	assert.True(t, areEqualRounded(expense, 1510.75))
	assert.True(t, areEqualRounded(Balance(list), income-expense))
}

func TestBalance_NoTransactions(t *testing.T) {
	assert.Equal(t, 0.0, Balance(nil))
	assert.Equal(t, 0.0, Balance([]Transaction{}))
}

func TestHighestExpense(t *testing.T) {
	assert.Nil(t, HighestExpense(nil))
	assert.Nil(t, HighestExpense([]Transaction{
		{Name: "Salary", Type: TypeIncome, Amount: 5000},
	}), "income never counts as an expense")

	single := []Transaction{{Name: "Rent", Type: TypeExpense, Amount: 1200}}
	highest := HighestExpense(single)
	assert.NotNil(t, highest)
	assert.Equal(t, "Rent", highest.Name)

	tied := []Transaction{
		{Name: "First", Type: TypeExpense, Amount: 100},
		{Name: "Second", Type: TypeExpense, Amount: 100},
		{Name: "Smaller", Type: TypeExpense, Amount: 50},
	}
	highest = HighestExpense(tied)
	assert.Equal(t, "First", highest.Name, "ties keep the first transaction encountered")
}

func TestPercentageOfTotal(t *testing.T) {
	transaction := Transaction{Name: "Rent", Type: TypeExpense, Amount: 250}

	assert.True(t, areEqualRounded(PercentageOfTotal(transaction, 1000), 25))
	assert.Equal(t, 0.0, PercentageOfTotal(transaction, 0), "zero total must not divide")
	assert.Equal(t, 0.0, PercentageOfTotal(transaction, -10))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]Transaction{
		{Name: "Salary", Type: TypeIncome, Amount: 3000},
		{Name: "Rent", Type: TypeExpense, Amount: 1200},
		{Name: "Groceries", Type: TypeExpense, Amount: 300},
	})

	assert.True(t, areEqualRounded(summary.TotalIncome, 3000))
	assert.True(t, areEqualRounded(summary.TotalExpense, 1500))
	assert.True(t, areEqualRounded(summary.Balance, 1500))
	assert.NotNil(t, summary.HighestExpense)
	assert.Equal(t, "Rent", summary.HighestExpense.Name)

	empty := Summarize(nil)
	assert.Nil(t, empty.HighestExpense)
	assert.Equal(t, 0.0, empty.Balance)
}
