// internal/domain/confirm/broker.go
package confirm

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when a confirmation is already waiting for an answer
	ErrBusy = errors.New("another confirmation is already pending")
	// ErrUnknownRequest is returned when an id does not match the pending confirmation
	ErrUnknownRequest = errors.New("confirmation request not found")
	// ErrBackdropDisabled is returned when dismissing a dialog that must be answered
	ErrBackdropDisabled = errors.New("confirmation cannot be dismissed")
)

// Notifier is told when a dialog should be shown or hidden
type Notifier interface {
	ConfirmationRequested(p Pending)
	ConfirmationResolved(id string, confirmed bool)
}

// Handle is the caller's side of one confirmation
type Handle struct {
	id      string
	request Request

	once      sync.Once
	done      chan struct{}
	confirmed bool
}

// ID returns the confirmation id
func (h *Handle) ID() string {
	return h.id
}

// Request returns the dialog contents
func (h *Handle) Request() Request {
	return h.request
}

// Wait blocks until the confirmation is answered or ctx ends. Every call after
// the answer returns the same result.
func (h *Handle) Wait(ctx context.Context) (bool, error) {
	select {
	case <-h.done:
		return h.confirmed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Done is closed once the confirmation is answered
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) resolve(confirmed bool) bool {
	resolved := false
	h.once.Do(func() {
		h.confirmed = confirmed
		close(h.done)
		resolved = true
	})
	return resolved
}

// Broker holds at most one outstanding confirmation. Safe for concurrent use.
type Broker struct {
	mu       sync.Mutex
	current  *Handle
	last     *Handle
	notifier Notifier
}

// NewBroker creates an idle broker
func NewBroker(notifier Notifier) *Broker {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Broker{notifier: notifier}
}

// Request shows a new dialog. It fails with ErrBusy while another is pending.
func (b *Broker) Request(req Request) (*Handle, error) {
	b.mu.Lock()
	if b.current != nil {
		b.mu.Unlock()
		return nil, ErrBusy
	}

	h := &Handle{
		id:      uuid.NewString(),
		request: req.withDefaults(),
		done:    make(chan struct{}),
	}
	b.current = h
	b.mu.Unlock()

	b.notifier.ConfirmationRequested(Pending{ID: h.id, Request: h.request})
	return h, nil
}

// Confirm answers the pending dialog with yes
func (b *Broker) Confirm(id string) error {
	return b.resolve(id, true, false)
}

// Cancel answers the pending dialog with no
func (b *Broker) Cancel(id string) error {
	return b.resolve(id, false, false)
}

// Dismiss closes the dialog from its backdrop, which counts as a cancel
// when the request allows it
func (b *Broker) Dismiss(id string) error {
	return b.resolve(id, false, true)
}

// Current returns the dialog being shown, if any
func (b *Broker) Current() (Pending, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Pending{}, false
	}
	return Pending{ID: b.current.id, Request: b.current.request}, true
}

// Lookup returns the handle for id when it is pending or was the last one answered
func (b *Broker) Lookup(id string) (*Handle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && b.current.id == id {
		return b.current, true
	}
	if b.last != nil && b.last.id == id {
		return b.last, true
	}
	return nil, false
}

func (b *Broker) resolve(id string, confirmed, backdrop bool) error {
	b.mu.Lock()
	h := b.current
	if h == nil || h.id != id {
		b.mu.Unlock()
		return ErrUnknownRequest
	}
	if backdrop && !h.request.AllowBackdropClose {
		b.mu.Unlock()
		return ErrBackdropDisabled
	}
	b.current = nil
	b.last = h
	b.mu.Unlock()

	if h.resolve(confirmed) {
		b.notifier.ConfirmationResolved(id, confirmed)
	}
	return nil
}

type nopNotifier struct{}

func (nopNotifier) ConfirmationRequested(Pending)     {}
func (nopNotifier) ConfirmationResolved(string, bool) {}
