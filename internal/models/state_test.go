package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestRemovePersonReindexes(t *testing.T) {
	s := State{
		People: []string{"Alice", "Bob", "Charlie", "Diana"},
		Expenses: []Expense{
			{Name: "Fuel", PaidBy: 0, Participants: []int{0, 1, 2}, Amount: 300},
			{Name: "Food", PaidBy: 1, Participants: []int{0, 1}, Amount: 100},
			{Name: "Tickets", PaidBy: 3, Participants: []int{1, 2, 3}, Amount: 90, Shares: []float64{20, 30, 50}},
			{Name: "Snacks", PaidBy: 2, Participants: []int{3}, Amount: 10},
		},
	}

	if err := s.RemovePerson(1); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}

	wantPeople := []string{"Alice", "Charlie", "Diana"}
	if !reflect.DeepEqual(s.People, wantPeople) {
		t.Errorf("people = %v, want %v", s.People, wantPeople)
	}

	wantExpenses := []Expense{
		{Name: "Fuel", PaidBy: 0, Participants: []int{0, 1}, Amount: 300},
		{Name: "Tickets", PaidBy: 2, Participants: []int{1, 2}, Amount: 90, Shares: []float64{30, 50}},
		{Name: "Snacks", PaidBy: 1, Participants: []int{2}, Amount: 10},
	}
	if !reflect.DeepEqual(s.Expenses, wantExpenses) {
		t.Errorf("expenses = %+v, want %+v", s.Expenses, wantExpenses)
	}

	if err := s.Validate(); err != nil {
		t.Errorf("state invalid after removal: %v", err)
	}
}

func TestRemovePersonOutOfRange(t *testing.T) {
	s := State{People: []string{"Alice"}}
	for _, idx := range []int{-1, 1} {
		if err := s.RemovePerson(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemovePerson(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestAddPerson(t *testing.T) {
	var s State
	if err := s.AddPerson("  Alice "); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	if err := s.AddPerson("   "); !errors.Is(err, ErrBlankName) {
		t.Errorf("AddPerson(blank) error = %v, want ErrBlankName", err)
	}
	if !reflect.DeepEqual(s.People, []string{"Alice"}) {
		t.Errorf("people = %v, want [Alice]", s.People)
	}
}

func TestAddExpense(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{
			name:    "valid",
			expense: Expense{Name: "Fuel", PaidBy: 0, Participants: []int{0, 1}, Amount: 500},
		},
		{
			name:    "valid with shares not summing to 100",
			expense: Expense{PaidBy: 1, Participants: []int{0, 1}, Amount: 10, Shares: []float64{10, 10}},
		},
		{
			name:    "zero amount",
			expense: Expense{PaidBy: 0, Participants: []int{0}, Amount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "no participants",
			expense: Expense{PaidBy: 0, Amount: 5},
			wantErr: ErrNoParticipants,
		},
		{
			name:    "unknown payer",
			expense: Expense{PaidBy: 2, Participants: []int{0}, Amount: 5},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "unknown participant",
			expense: Expense{PaidBy: 0, Participants: []int{0, 9}, Amount: 5},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "share count mismatch",
			expense: Expense{PaidBy: 0, Participants: []int{0, 1}, Amount: 5, Shares: []float64{100}},
			wantErr: ErrShareMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{People: []string{"Alice", "Bob"}}
			err := s.AddExpense(tt.expense)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
			wantLen := 1
			if tt.wantErr != nil {
				wantLen = 0
			}
			if len(s.Expenses) != wantLen {
				t.Errorf("len(expenses) = %d, want %d", len(s.Expenses), wantLen)
			}
		})
	}
}

func TestRemoveExpense(t *testing.T) {
	s := State{
		People: []string{"A"},
		Expenses: []Expense{
			{Name: "one", Participants: []int{0}, Amount: 1},
			{Name: "two", Participants: []int{0}, Amount: 2},
		},
	}
	if err := s.RemoveExpense(0); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	if len(s.Expenses) != 1 || s.Expenses[0].Name != "two" {
		t.Errorf("expenses = %+v, want only \"two\"", s.Expenses)
	}
	if err := s.RemoveExpense(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveExpense(3) error = %v, want ErrIndexOutOfRange", err)
	}
}
