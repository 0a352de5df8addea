package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/halfsies/internal/models"
)

type position struct {
	name   string
	amount float64
}

// ComputeSettlements turns a balance vector into the transfers that bring
// every balance to zero, using a two-pointer greedy match:
// - split people into creditors (balance > 0) and debtors (balance < 0)
// - sort both by amount, largest first; equal amounts keep people order
// - repeatedly pay min(largest remaining debt, largest remaining credit)
//   from the current debtor to the current creditor, moving past whichever
//   side reaches exactly zero
//
// Because each step pays the smaller of the two amounts, at least one side
// becomes exactly zero, so no epsilon is needed to terminate. Infinite and
// NaN balances are left out.
func ComputeSettlements(balances []float64, people []string) []models.Transfer {
	var creditors, debtors []position
	for k, b := range balances {
		name := ""
		if k < len(people) {
			name = people[k]
		}
		if math.IsInf(b, 0) {
			continue
		}
		if b > 0 {
			creditors = append(creditors, position{name: name, amount: b})
		} else if b < 0 {
			debtors = append(debtors, position{name: name, amount: -b})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	transfers := []models.Transfer{}
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		credit := &creditors[ci]
		debt := &debtors[di]

		amount := min(credit.amount, debt.amount)
		transfers = append(transfers, models.Transfer{
			From:   debt.name,
			To:     credit.name,
			Amount: amount,
		})

		credit.amount -= amount
		debt.amount -= amount
		if credit.amount == 0 {
			ci++
		}
		if debt.amount == 0 {
			di++
		}
	}
	return transfers
}
