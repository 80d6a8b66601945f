package swap

// Interfaces the controller drives. The concrete peer is
// internal/clients_api/convex.Client; tests substitute in-memory fakes.

import (
	"context"

	"vortex-swap/internal/clients_api/convex"
)

// Peer is the slice of the peer client the controller needs.
type Peer interface {
	Connect(ctx context.Context, address, seed string) (*convex.Session, error)
	Close()
	IsConnected() bool
	Address() string
	Session() *convex.Session
	Query(ctx context.Context, source, address string) (*convex.PeerResponse, error)
	GetBalance(ctx context.Context, address string) float64
	BuyTokens(ctx context.Context, tokenAddress string, amount float64) (*convex.PeerResponse, error)
	SellTokens(ctx context.Context, tokenAddress string, amount float64) (*convex.PeerResponse, error)
	GetMarket(ctx context.Context, tokenAddress string) interface{}
}

// Notifier receives the single-line user-facing messages the controller
// emits (the alert() replacement). Implementations must not block long.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
func (NopNotifier) Info(string)    {}
