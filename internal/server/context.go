package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/driveretriever/internal/google"
	"github.com/teemow/driveretriever/internal/instrumentation"
	"github.com/teemow/driveretriever/internal/retriever"
)

// RetrieverFactory builds the retriever the first time a tool needs it.
type RetrieverFactory func(ctx context.Context) (*retriever.Retriever, error)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	factory       RetrieverFactory
	tokenProvider google.TokenProvider
	retriever     *retriever.Retriever
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
	mu            sync.RWMutex
	invokeMu      sync.Mutex
	shutdown      bool
}

// NewServerContext creates a new server context. The retriever is created
// lazily so the server can start before a credential has been stored.
func NewServerContext(ctx context.Context, factory RetrieverFactory, tokenProvider google.TokenProvider) (*ServerContext, error) {
	if factory == nil {
		return nil, fmt.Errorf("retriever factory is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		factory:       factory,
		tokenProvider: tokenProvider,
		logger:        slog.Default(),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Retriever returns the retriever, creating it on first use. A failed
// creation is not cached, so a credential stored later is picked up.
func (sc *ServerContext) Retriever() (*retriever.Retriever, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, fmt.Errorf("server is shutting down")
	}
	if sc.retriever != nil {
		return sc.retriever, nil
	}

	r, err := sc.factory(sc.ctx)
	if err != nil {
		return nil, err
	}
	sc.retriever = r
	return r, nil
}

// WithRetriever runs fn with the retriever. Calls are serialised because a
// retriever must not be invoked concurrently.
func (sc *ServerContext) WithRetriever(fn func(r *retriever.Retriever) error) error {
	r, err := sc.Retriever()
	if err != nil {
		return err
	}

	sc.invokeMu.Lock()
	defer sc.invokeMu.Unlock()
	return fn(r)
}

// TokenProvider returns the credential source used for readiness checks.
// May be nil.
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	return sc.tokenProvider
}

// SetMetrics sets the metrics recorder used for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil if none is configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetLogger sets the logger used by tool handlers.
func (sc *ServerContext) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.logger = logger
}

// Logger returns the logger used by tool handlers.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
