package calculator

import "github.com/mmynk/halfsies/internal/models"

// shares returns what each participant of e consumes, in participant order.
// Percentage shares apply only when there is exactly one per participant.
func shares(e models.Expense) []float64 {
	out := make([]float64, len(e.Participants))
	if e.HasShares() {
		for k, pct := range e.Shares {
			out[k] = pct * e.Amount / 100
		}
		return out
	}
	if len(e.Participants) == 0 {
		return out
	}
	each := e.Amount / float64(len(e.Participants))
	for k := range out {
		out[k] = each
	}
	return out
}

// ComputeBalances folds expenses into one signed balance per person, in
// people order. Positive means the person is owed money, negative means the
// person owes money.
//
// Algorithm, per expense:
// - each participant is charged their share (percentage of the amount, or an
//   equal split when no usable shares are present)
// - the payer is credited the full amount
//
// No rounding is applied. Indexes that do not name a person are skipped, so
// the function is total on any decoded input.
func ComputeBalances(people []string, expenses []models.Expense) []float64 {
	balances := make([]float64, len(people))
	inRange := func(k int) bool { return k >= 0 && k < len(balances) }

	for _, e := range expenses {
		for k, amount := range shares(e) {
			if p := e.Participants[k]; inRange(p) {
				balances[p] -= amount
			}
		}
		if inRange(e.PaidBy) {
			balances[e.PaidBy] += e.Amount
		}
	}
	return balances
}

// Summarize reports what each person paid and consumed across all expenses,
// in people order.
func Summarize(people []string, expenses []models.Expense) []models.MemberBalance {
	members := make([]models.MemberBalance, len(people))
	for k, name := range people {
		members[k].Name = name
	}
	inRange := func(k int) bool { return k >= 0 && k < len(members) }

	for _, e := range expenses {
		for k, amount := range shares(e) {
			if p := e.Participants[k]; inRange(p) {
				members[p].TotalOwed += amount
			}
		}
		if inRange(e.PaidBy) {
			members[e.PaidBy].TotalPaid += e.Amount
		}
	}

	for k := range members {
		members[k].NetBalance = members[k].TotalPaid - members[k].TotalOwed
	}
	return members
}
