package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankName       = errors.New("name cannot be blank")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrNoParticipants  = errors.New("must have at least one participant")
	ErrShareMismatch   = errors.New("shares must have one entry per participant")
)

// State is everything a shared link carries: the people in the group and
// the expenses between them.
type State struct {
	People   []string  `json:"people"`
	Expenses []Expense `json:"expenses"`
}

// AddPerson appends a person. Surrounding whitespace is trimmed.
func (s *State) AddPerson(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	s.People = append(s.People, name)
	return nil
}

// RemovePerson removes the person at idx and reindexes the expenses:
// expenses paid by the person are dropped, the person is removed from every
// participant list (with its share, if any), and indexes above idx shift
// down by one.
func (s *State) RemovePerson(idx int) error {
	if idx < 0 || idx >= len(s.People) {
		return fmt.Errorf("person %d: %w", idx, ErrIndexOutOfRange)
	}

	shift := func(k int) int {
		if k > idx {
			return k - 1
		}
		return k
	}

	expenses := make([]Expense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		if e.PaidBy == idx {
			continue
		}

		hasShares := e.HasShares()
		participants := make([]int, 0, len(e.Participants))
		var shares []float64
		if hasShares {
			shares = make([]float64, 0, len(e.Shares))
		}
		for k, p := range e.Participants {
			if p == idx {
				continue
			}
			participants = append(participants, shift(p))
			if hasShares {
				shares = append(shares, e.Shares[k])
			}
		}

		e.PaidBy = shift(e.PaidBy)
		e.Participants = participants
		if hasShares {
			e.Shares = shares
		}
		expenses = append(expenses, e)
	}

	s.People = append(s.People[:idx:idx], s.People[idx+1:]...)
	s.Expenses = expenses
	return nil
}

// AddExpense validates e against the current people and appends it.
func (s *State) AddExpense(e Expense) error {
	if !(e.Amount > 0) {
		return ErrInvalidAmount
	}
	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}
	if e.Shares != nil && len(e.Shares) != len(e.Participants) {
		return ErrShareMismatch
	}
	if err := s.checkIndexes(e); err != nil {
		return err
	}
	s.Expenses = append(s.Expenses, e)
	return nil
}

// RemoveExpense removes the expense at idx.
func (s *State) RemoveExpense(idx int) error {
	if idx < 0 || idx >= len(s.Expenses) {
		return fmt.Errorf("expense %d: %w", idx, ErrIndexOutOfRange)
	}
	s.Expenses = append(s.Expenses[:idx:idx], s.Expenses[idx+1:]...)
	return nil
}

// Validate reports the first expense referring to a person that does not
// exist. Amounts and shares are not checked.
func (s *State) Validate() error {
	for i, e := range s.Expenses {
		if err := s.checkIndexes(e); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	return nil
}

func (s *State) checkIndexes(e Expense) error {
	if e.PaidBy < 0 || e.PaidBy >= len(s.People) {
		return fmt.Errorf("payer %d: %w", e.PaidBy, ErrIndexOutOfRange)
	}
	for _, p := range e.Participants {
		if p < 0 || p >= len(s.People) {
			return fmt.Errorf("participant %d: %w", p, ErrIndexOutOfRange)
		}
	}
	return nil
}
