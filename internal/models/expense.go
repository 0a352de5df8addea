package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Expense represents one shared cost, paid by a single person and consumed
// by one or more participants.
type Expense struct {
	// Name is the label shown for the expense. May be empty.
	Name string

	// PaidBy is the index of the person who fronted the money.
	PaidBy int

	// Participants are the indexes of the people sharing the expense.
	// The same index may appear more than once; it is charged each time.
	Participants []int

	// Amount is the total paid.
	Amount float64

	// Shares are optional percentages of Amount, one per entry of
	// Participants. They are only honored when len(Shares) == len(Participants).
	// The sum is not checked.
	Shares []float64

	// Extra holds keys found on the wire that are not listed above.
	Extra map[string]json.RawMessage
}

const (
	keyName         = "n"
	keyPaidBy       = "pb"
	keyParticipants = "i"
	keyAmount       = "a"
	keyShares       = "s"
)

// HasShares reports whether the expense carries usable percentage shares.
func (e Expense) HasShares() bool {
	return e.Shares != nil && len(e.Shares) == len(e.Participants)
}

// MarshalJSON writes the known keys in the order n, pb, i, a, s followed by
// the extra keys sorted by name.
func (e Expense) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	participants := e.Participants
	if participants == nil {
		participants = []int{}
	}

	fields := []struct {
		key   string
		value any
	}{
		{keyName, e.Name},
		{keyPaidBy, e.PaidBy},
		{keyParticipants, participants},
		{keyAmount, e.Amount},
	}
	if e.Shares != nil {
		fields = append(fields, struct {
			key   string
			value any
		}{keyShares, e.Shares})
	}

	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, f.key, f.value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(',')
		if err := writeField(&buf, k, e.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the known keys and keeps everything else in Extra.
// Missing keys leave the zero value in place.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("expense must be an object")
	}

	*e = Expense{}
	targets := map[string]any{
		keyName:         &e.Name,
		keyPaidBy:       &e.PaidBy,
		keyParticipants: &e.Participants,
		keyAmount:       &e.Amount,
		keyShares:       &e.Shares,
	}
	for k, v := range raw {
		target, known := targets[k]
		if !known {
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[k] = v
			continue
		}
		if err := json.Unmarshal(v, target); err != nil {
			return fmt.Errorf("failed to decode expense field %q: %w", k, err)
		}
	}
	return nil
}

// writeField appends "key":value without HTML escaping, matching what a
// browser's JSON.stringify produces.
func writeField(buf *bytes.Buffer, key string, value any) error {
	if err := writeJSON(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeJSON(buf, value)
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
