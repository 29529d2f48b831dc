package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vibey_backend/core"
	"vibey_backend/logging"
)

// Manager coordinates graceful shutdown: it owns the run context, listens
// for SIGINT/SIGTERM, and executes registered cleanup functions in priority
// order. A second signal forces an immediate exit.
//
// Usage:
//
//	manager := NewManager(logger, 30*time.Second)
//	manager.Register("database", 30, func(ctx context.Context) error {
//	    return repo.Close()
//	})
//	manager.Start()
//	run(manager.Context())
//	manager.Shutdown()
type Manager struct {
	logger   *logging.Logger
	timeout  time.Duration
	registry *Registry
	counter  *SignalCounter

	ctx    context.Context
	cancel context.CancelFunc

	sigChan chan os.Signal
}

// NewManager creates a Manager with the given cleanup timeout.
func NewManager(logger *logging.Logger, timeout time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   logger.Named("shutdown"),
		timeout:  timeout,
		registry: NewRegistry(),
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  make(chan os.Signal, 2),
	}
	m.counter = NewSignalCounter(2, func() {
		m.logger.Error("forced shutdown, exiting immediately")
		os.Exit(core.ExitCodeSIGINT)
	})
	return m
}

// Register adds a cleanup function. Lower priority values execute earlier.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
}

// Context returns the run context, cancelled on the first signal.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Start begins listening for SIGINT and SIGTERM. The first signal cancels
// the run context; the second forces an exit.
func (m *Manager) Start() {
	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			if m.counter.Increment() == 1 {
				m.logger.Info("shutdown signal received, finishing current stage",
					zap.String("signal", sig.String()))
				m.cancel()
			}
		}
	}()
}

// Shutdown cancels the run context and executes all registered cleanup
// functions under the configured timeout. It returns the cleanup errors.
func (m *Manager) Shutdown() []error {
	signal.Stop(m.sigChan)
	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	errs := m.registry.RunCleanup(ctx)
	for _, err := range errs {
		m.logger.Error("cleanup failed", zap.Error(err))
	}
	return errs
}
