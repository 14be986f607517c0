package formbridge

import (
	"context"
	"log/slog"
)

// Option configures a Bridge.
type Option func(*Bridge) error

// Storer is the minimal store interface held by the Bridge.
// It covers lifecycle operations only. The full composite interface
// (store.Store) is used in subsystem layers that don't create import
// cycles. Implementations satisfy store.Store which embeds all
// subsystem stores.
type Storer interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Bridge is the central handle for FormBridge: it owns the configuration,
// the structured logger, and the persistence backend shared by the session
// and workflow registries.
//
// Create one with New() and functional options, then wire the record
// pipelines with engine.Build(). One Bridge per process is the intended
// shape; the registries built on top of it are the process-wide shared
// state the pipelines consult.
type Bridge struct {
	config Config
	logger *slog.Logger
	store  Storer
}

// New creates a new Bridge with the given options.
func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Logger returns the bridge's logger.
func (b *Bridge) Logger() *slog.Logger { return b.logger }

// Store returns the bridge's store.
func (b *Bridge) Store() Storer { return b.store }

// Config returns a copy of the bridge's configuration.
func (b *Bridge) Config() Config { return b.config }

// Close releases the persistence backend.
func (b *Bridge) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// WithLogger sets the structured logger for the bridge.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) error {
		b.logger = l
		return nil
	}
}

// WithStore sets the persistence backend for the bridge.
// The store must implement Storer at minimum; typically it will be a
// store.Store which embeds all subsystem store interfaces.
func WithStore(s Storer) Option {
	return func(b *Bridge) error {
		b.store = s
		return nil
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(b *Bridge) error {
		b.config = c
		return nil
	}
}

// WithWriteSuccessScope sets the success interpretation for stop-on-error
// field writes.
func WithWriteSuccessScope(s WriteSuccessScope) Option {
	return func(b *Bridge) error {
		if s != ScopeAttempted && s != ScopeRequested {
			return ErrInvalidScope
		}
		b.config.WriteSuccessScope = s
		return nil
	}
}
