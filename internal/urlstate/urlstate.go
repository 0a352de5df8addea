// Package urlstate reads and writes application state held in a URL.
//
// The canonical form keeps the state in the fragment:
//
//	#p=<token>&e=<token>
//
// where each token is produced by package codec. Links from before the
// fragment format carried percent-encoded JSON in the query string
// (?p=...&e=...). Load rewrites those in place before reading.
package urlstate

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmynk/halfsies/internal/codec"
	"github.com/mmynk/halfsies/internal/models"
)

// Keys shared by the fragment and the legacy query string.
const (
	PeopleKey   = "p"
	ExpensesKey = "e"
)

const emptyToken = "[]"

// Outcome classifies what a Load call found.
type Outcome string

const (
	// OutcomeEmpty means the fragment carried neither key.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFragment means state was read from the fragment.
	OutcomeFragment Outcome = "fragment"
	// OutcomeMigrated means a legacy query string was rewritten first.
	OutcomeMigrated Outcome = "migrated"
	// OutcomeInvalid means a key was present but did not decode.
	OutcomeInvalid Outcome = "invalid"
)

type options struct {
	observe func(Outcome)
}

// Option configures Load.
type Option func(*options)

// WithObserver registers fn to be told the outcome of each Load.
func WithObserver(fn func(Outcome)) Option {
	return func(o *options) {
		o.observe = fn
	}
}

// Load returns the state held by loc. If the query string holds both legacy
// keys, the current history entry is first replaced with the fragment form
// and that fragment is what gets read. Load never fails; anything that does
// not decode yields empty lists.
func Load(loc Location, opts ...Option) models.State {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	snap := loc.Read()
	hash := strings.TrimPrefix(snap.Hash, "#")

	migrated := false
	if people, expenses, ok := legacyParams(snap.Search); ok {
		hash = migrate(people, expenses)
		loc.Replace(snap.Pathname + "#" + hash)
		migrated = true
		slog.Info("Migrated legacy link", "path", snap.Pathname)
	}

	state, outcome := readFragment(hash)
	if migrated {
		outcome = OutcomeMigrated
	}
	if o.observe != nil {
		o.observe(outcome)
	}
	return state
}

// Fragment returns the fragment (without "#") that encodes s.
func Fragment(s models.State) (string, error) {
	people := s.People
	if people == nil {
		people = []string{}
	}
	expenses := s.Expenses
	if expenses == nil {
		expenses = []models.Expense{}
	}

	p, err := codec.Encode(people)
	if err != nil {
		return "", fmt.Errorf("failed to encode people: %w", err)
	}
	e, err := codec.Encode(expenses)
	if err != nil {
		return "", fmt.Errorf("failed to encode expenses: %w", err)
	}
	return PeopleKey + "=" + p + "&" + ExpensesKey + "=" + e, nil
}

// ShareURL returns base with its query string and fragment replaced by the
// fragment encoding s.
func ShareURL(base string, s models.State) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	frag, err := Fragment(s)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String() + "#" + frag, nil
}

func readFragment(hash string) (models.State, Outcome) {
	// Parse errors still leave the well-formed pairs in values.
	values, _ := url.ParseQuery(hash)

	p := values.Get(PeopleKey)
	e := values.Get(ExpensesKey)

	outcome := OutcomeFragment
	if p == "" && e == "" {
		outcome = OutcomeEmpty
	}
	if p == "" {
		p = emptyToken
	}
	if e == "" {
		e = emptyToken
	}

	people, okPeople := narrowPeople(codec.Decode(p))
	expenses, okExpenses := narrowExpenses(codec.Decode(e))
	if outcome == OutcomeFragment && (!okPeople || !okExpenses) {
		outcome = OutcomeInvalid
	}

	return models.State{People: people, Expenses: expenses}, outcome
}

// legacyParams returns the raw, still percent-encoded values of the legacy
// keys. Both must be present and non-empty.
func legacyParams(search string) (people, expenses string, ok bool) {
	search = strings.TrimPrefix(search, "?")
	if search == "" {
		return "", "", false
	}

	found := map[string]string{}
	for _, pair := range strings.Split(search, "&") {
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		if _, seen := found[key]; !seen {
			found[key] = value
		}
	}

	people, expenses = found[PeopleKey], found[ExpensesKey]
	return people, expenses, people != "" && expenses != ""
}

// migrate re-encodes legacy values into a fragment. A value that does not
// decode becomes an empty list.
func migrate(people, expenses string) string {
	reencode := func(raw string) string {
		if token, ok := codec.ReencodeLegacyJSON(raw); ok {
			return token
		}
		token, _ := codec.Encode([]any{})
		return token
	}
	return PeopleKey + "=" + reencode(people) + "&" + ExpensesKey + "=" + reencode(expenses)
}
