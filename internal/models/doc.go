// Package models defines the domain models for Halfsies.
//
// # State
//
// The whole application state is a State: an ordered list of people and an
// ordered list of expenses. People carry no identifier of their own; an
// expense refers to people by their position in State.People. That position
// is the key that travels in shared links, so mutations that remove a person
// must reindex every expense (see State.RemovePerson).
//
// # Wire names
//
// Expense fields marshal to single-letter JSON keys (n, pb, i, a, s) to keep
// shared links short. Keys this package does not know about are kept in
// Expense.Extra and written back on marshal, so links produced by newer
// clients survive a round trip through older ones.
//
// # Derived values
//
// MemberBalance and Transfer are computed by package calculator and are never
// encoded into links.
package models
