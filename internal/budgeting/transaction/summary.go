package transactions

// Pure aggregate computations over one budget's transactions. Deterministic
// given their input, so they are testable without any storage.

// TotalByType sums the amounts of all transactions of the given type.
func TotalByType(list []Transaction, transactionType string) float64 {
	var total float64
	for _, transaction := range list {
		if transaction.Type == transactionType {
			total += transaction.Amount
		}
	}
	return total
}

// Balance is total income minus total expense.
func Balance(list []Transaction) float64 {
	return TotalByType(list, TypeIncome) - TotalByType(list, TypeExpense)
}

// HighestExpense returns the expense transaction with the maximum amount,
// or nil when no expense exists. Ties keep the first one encountered.
func HighestExpense(list []Transaction) *Transaction {
	var highest *Transaction
	for i := range list {
		if list[i].Type != TypeExpense {
			continue
		}
		if highest == nil || list[i].Amount > highest.Amount {
			highest = &list[i]
		}
	}
	return highest
}

// PercentageOfTotal reports how much of totalForType the transaction
// represents. A zero or negative total yields 0 rather than dividing by zero.
func PercentageOfTotal(transaction Transaction, totalForType float64) float64 {
	if totalForType <= 0 {
		return 0
	}
	return transaction.Amount / totalForType * 100
}

// Summary bundles the aggregates shown on a budget's detail view.
type Summary struct {
	TotalIncome    float64         `json:"total_income"`
	TotalExpense   float64         `json:"total_expense"`
	Balance        float64         `json:"balance"`
	HighestExpense *TransactionDTO `json:"highest_expense"`
}

func Summarize(list []Transaction) Summary {
	summary := Summary{
		TotalIncome:  TotalByType(list, TypeIncome),
		TotalExpense: TotalByType(list, TypeExpense),
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	if highest := HighestExpense(list); highest != nil {
		dto := highest.DTO()
		summary.HighestExpense = &dto
	}
	return summary
}
