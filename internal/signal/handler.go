// Package signal cancels a syncgit run when the operator interrupts it.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptError is the cancellation cause recorded when a signal arrives.
type InterruptError struct {
	Signal os.Signal
}

// Error implements the error interface.
func (e *InterruptError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// Handler owns a context that is canceled on the first SIGINT or SIGTERM.
// The cause of that cancellation is an *InterruptError.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns this context's lifetime
	cancel      context.CancelCauseFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	once        sync.Once
	stopOnce    sync.Once
}

// NewHandler starts listening for signals (SIGINT and SIGTERM when none are
// given). Call Stop when the run ends.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	ctx = h.Context()
func NewHandler(parent context.Context, signals ...os.Signal) *Handler {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	ctx, cancel := context.WithCancelCause(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// signal.Notify never blocks; one slot keeps the first signal.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, signals...)
	go h.listen()
	return h
}

// Context returns the context canceled by a signal or by Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed once a signal has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Received returns the signal that canceled the context, or nil.
func (h *Handler) Received() os.Signal {
	if ie, ok := context.Cause(h.ctx).(*InterruptError); ok {
		return ie.Signal
	}
	return nil
}

// Stop stops listening and cancels the context. Safe to call repeatedly.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel(context.Canceled)
	})
}

// handle cancels the context for the first signal; later ones are ignored.
func (h *Handler) handle(sig os.Signal) {
	h.once.Do(func() {
		h.cancel(&InterruptError{Signal: sig})
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handle(sig)
		}
	}
}
