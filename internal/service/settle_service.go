// Package service exposes the settlement pipeline over Connect RPC.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/halfsies/internal/calculator"
	"github.com/mmynk/halfsies/internal/metrics"
	"github.com/mmynk/halfsies/internal/models"
	"github.com/mmynk/halfsies/internal/urlstate"
)

// SettleService decodes shared links and computes settlements. It holds no
// state between calls.
type SettleService struct {
	metrics   *metrics.Metrics
	publicURL string
}

// NewSettleService creates a SettleService. Share links are built on
// publicURL; m may be nil.
func NewSettleService(publicURL string, m *metrics.Metrics) *SettleService {
	return &SettleService{metrics: m, publicURL: publicURL}
}

// Settle computes balances and transfers for a fragment or an explicit state.
func (s *SettleService) Settle(ctx context.Context, req *connect.Request[SettleRequest]) (*connect.Response[SettleResponse], error) {
	slog.Info("Settle request received",
		"has_fragment", req.Msg.Fragment != "",
		"people_count", len(req.Msg.People),
		"expenses_count", len(req.Msg.Expenses),
	)

	var state models.State
	if req.Msg.Fragment != "" {
		loc, err := urlstate.NewURLLocation("#" + strings.TrimPrefix(req.Msg.Fragment, "#"))
		if err != nil {
			slog.Error("Settle failed - bad fragment", "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		state = urlstate.Load(loc, urlstate.WithObserver(s.metrics.ObserveLoad))
	} else {
		state = normalize(models.State{People: req.Msg.People, Expenses: req.Msg.Expenses})
		if err := state.Validate(); err != nil {
			slog.Error("Settle failed - invalid state", "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	balances := calculator.ComputeBalances(state.People, state.Expenses)
	transfers := calculator.ComputeSettlements(balances, state.People)
	s.metrics.ObserveSettlement(len(transfers))

	fragment, err := urlstate.Fragment(state)
	if err != nil {
		slog.Error("Settle failed - could not encode state", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	link, err := urlstate.ShareURL(s.publicURL, state)
	if err != nil {
		slog.Error("Settle failed - bad public url", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	for _, t := range transfers {
		slog.Debug("Transfer", "from", t.From, "to", t.To, "amount", t.Amount)
	}
	slog.Info("Settle successful",
		"people_count", len(state.People),
		"expenses_count", len(state.Expenses),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&SettleResponse{
		People:    state.People,
		Expenses:  state.Expenses,
		Balances:  balances,
		Members:   calculator.Summarize(state.People, state.Expenses),
		Transfers: transfers,
		Fragment:  fragment,
		URL:       link,
	}), nil
}

// Resolve decodes a shared link, migrating legacy query-string links to the
// fragment form.
func (s *SettleService) Resolve(ctx context.Context, req *connect.Request[ResolveRequest]) (*connect.Response[ResolveResponse], error) {
	slog.Info("Resolve request received", "url_length", len(req.Msg.URL))

	if req.Msg.URL == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("url required"))
	}

	loc, err := urlstate.NewURLLocation(req.Msg.URL)
	if err != nil {
		slog.Error("Resolve failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	state := urlstate.Load(loc, urlstate.WithObserver(s.metrics.ObserveLoad))
	migrated := loc.Replaced() > 0

	slog.Info("Resolve successful",
		"people_count", len(state.People),
		"expenses_count", len(state.Expenses),
		"migrated", migrated,
	)

	return connect.NewResponse(&ResolveResponse{
		People:   state.People,
		Expenses: state.Expenses,
		URL:      loc.String(),
		Migrated: migrated,
	}), nil
}

// Encode builds the fragment and share link for a state.
func (s *SettleService) Encode(ctx context.Context, req *connect.Request[EncodeRequest]) (*connect.Response[EncodeResponse], error) {
	slog.Info("Encode request received",
		"people_count", len(req.Msg.People),
		"expenses_count", len(req.Msg.Expenses),
	)

	state := normalize(models.State{People: req.Msg.People, Expenses: req.Msg.Expenses})
	if err := state.Validate(); err != nil {
		slog.Error("Encode failed - invalid state", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	base := req.Msg.BaseURL
	if base == "" {
		base = s.publicURL
	}

	fragment, err := urlstate.Fragment(state)
	if err != nil {
		slog.Error("Encode failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	link, err := urlstate.ShareURL(base, state)
	if err != nil {
		slog.Error("Encode failed - bad base url", "base_url", base, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Info("Encode successful", "fragment_length", len(fragment))

	return connect.NewResponse(&EncodeResponse{
		Fragment: fragment,
		URL:      link,
	}), nil
}

// normalize replaces nil lists so responses carry [] rather than null.
func normalize(s models.State) models.State {
	if s.People == nil {
		s.People = []string{}
	}
	if s.Expenses == nil {
		s.Expenses = []models.Expense{}
	}
	return s
}
