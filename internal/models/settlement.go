package models

// Transfer is a single payment that flattens part of the balance graph.
type Transfer struct {
	// From is the name of the person paying (a debtor).
	From string `json:"from"`

	// To is the name of the person being paid (a creditor).
	To string `json:"to"`

	// Amount is always positive.
	Amount float64 `json:"amount"`
}

// MemberBalance represents the balance information for one person.
type MemberBalance struct {
	Name       string  `json:"name"`
	NetBalance float64 `json:"net_balance"` // Positive = owed money, Negative = owes money
	TotalPaid  float64 `json:"total_paid"`  // Total fronted across all expenses
	TotalOwed  float64 `json:"total_owed"`  // Total share consumed across all expenses
}
