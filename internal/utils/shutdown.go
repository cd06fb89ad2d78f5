package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownManager coordinates graceful teardown of the API process. Close
// hooks are registered in startup order (stores first, HTTP server last)
// and run in reverse on SIGINT/SIGTERM, so the listener stops accepting
// requests before its backing stores disconnect.
type ShutdownManager struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	hooks []func(context.Context) error
}

func NewShutdownManager(ctx context.Context) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(ctx)
	manager := &ShutdownManager{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	return ctx, manager
}

func (sm *ShutdownManager) Register(hook func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.hooks = append(sm.hooks, hook)
}

// StartListening arms the signal handler. The process exits by returning
// from main once Wait unblocks.
func (sm *ShutdownManager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[SHUTDOWN] Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sm.shutdown(ctx)
	}()
}

// Wait blocks until every registered hook has finished.
func (sm *ShutdownManager) Wait() {
	<-sm.done
}

func (sm *ShutdownManager) shutdown(ctx context.Context) {
	sm.cancel()

	sm.mu.Lock()
	hooks := make([]func(context.Context) error, len(sm.hooks))
	copy(hooks, sm.hooks)
	sm.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			log.Printf("[SHUTDOWN] Error during shutdown: %v", err)
		}
	}

	log.Println("[SHUTDOWN] Graceful shutdown complete")
	close(sm.done)
}
