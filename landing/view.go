package landing

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

// ConfirmationDelay is how long the confirmation panel stays up before the view resets
const ConfirmationDelay = 4000 * time.Millisecond

var (
	ErrComingSoon   = errors.New("landing: call to action disabled in coming-soon mode")
	ErrNotInForm    = errors.New("landing: form is not open")
	ErrClosed       = errors.New("landing: view closed")
	ErrUnknownField = errors.New("landing: unknown field")
)

// State is the panel a view is showing
type State int

const (
	StateHero State = iota
	StateForm
	StateConfirmation
)

func (s State) String() string {
	switch s {
	case StateHero:
		return "hero"
	case StateForm:
		return "form"
	case StateConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// ValidationError is returned by Submit when required fields are empty
type ValidationError struct {
	Fields ValidationState
}

func (e *ValidationError) Error() string {
	return "landing: required fields empty: " + strings.Join(e.Fields.Missing(), ", ")
}

// Submitter delivers a validated lead. Its error is logged and never changes view state.
type Submitter interface {
	Submit(ctx context.Context, data FormData) error
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, data FormData) error

func (f SubmitterFunc) Submit(ctx context.Context, data FormData) error {
	return f(ctx, data)
}

type viewIDKey struct{}

// ViewIDFromContext returns the id of the view that started a delivery
func ViewIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(viewIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Timer is a cancellable scheduled callback
type Timer interface {
	Stop() bool
}

// Clock schedules the confirmation reset
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options configures a View
type Options struct {
	ComingSoon bool
	Submitter  Submitter
	// Clock defaults to the system clock
	Clock Clock
	// ConfirmationDelay defaults to ConfirmationDelay
	ConfirmationDelay time.Duration

	// deliveries, when set, also counts this view's deliveries; the registry
	// uses it to wait for views that were unmounted mid-delivery
	deliveries *sync.WaitGroup
}

// Snapshot is a consistent copy of a view's state for rendering
type Snapshot struct {
	ID         string
	State      State
	ComingSoon bool
	Form       FormData
	Errors     ValidationState
	// ResetIn is the time left before a confirmation resets to the hero panel
	ResetIn time.Duration
}

// View is the landing page state machine for one page load.
// Hero -> Form -> Confirmation -> Hero, with Form -> Hero on dismiss.
type View struct {
	id         string
	comingSoon bool
	submitter  Submitter
	clock      Clock
	delay      time.Duration
	deliveries *sync.WaitGroup

	mu          sync.Mutex
	state       State
	form        FormData
	errors      ValidationState
	timer       Timer
	timerGen    uint64
	confirmedAt time.Time
	closed      bool

	inflight sync.WaitGroup
}

// NewView creates a view in the hero state
func NewView(id string, opts Options) *View {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.ConfirmationDelay <= 0 {
		opts.ConfirmationDelay = ConfirmationDelay
	}
	return &View{
		id:         id,
		comingSoon: opts.ComingSoon,
		submitter:  opts.Submitter,
		clock:      opts.Clock,
		delay:      opts.ConfirmationDelay,
		deliveries: opts.deliveries,
		state:      StateHero,
	}
}

// ID returns the view identifier
func (v *View) ID() string {
	return v.id
}

// OpenForm activates the call to action
func (v *View) OpenForm() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.comingSoon {
		return ErrComingSoon
	}
	if v.state == StateHero {
		v.setStateLocked(StateForm)
	}
	return nil
}

// SetField stores a field value and clears that field's validation flag
func (v *View) SetField(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.state != StateForm {
		return ErrNotInForm
	}
	if err := v.form.set(field, value); err != nil {
		return err
	}
	v.errors.clear(field)
	return nil
}

// CloseForm dismisses the form without submitting. Field values are kept.
func (v *View) CloseForm() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.state != StateForm {
		return ErrNotInForm
	}
	v.errors = ValidationState{}
	v.setStateLocked(StateHero)
	return nil
}

// Submit validates the form. On success it hands the lead to the submitter in
// the background and moves to the confirmation panel without waiting for it.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()

	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.state != StateForm {
		v.mu.Unlock()
		return ErrNotInForm
	}

	v.errors = v.form.Validate()
	if v.errors.Any() {
		errs := v.errors
		v.mu.Unlock()
		return &ValidationError{Fields: errs}
	}

	data := v.form
	v.enterConfirmationLocked()
	v.inflight.Add(1)
	if v.deliveries != nil {
		v.deliveries.Add(1)
	}
	v.mu.Unlock()

	// The request context ends with the HTTP response; delivery must outlive it.
	go v.deliver(context.WithValue(context.WithoutCancel(ctx), viewIDKey{}, v.id), data)
	return nil
}

func (v *View) deliver(ctx context.Context, data FormData) {
	defer v.inflight.Done()
	if v.deliveries != nil {
		defer v.deliveries.Done()
	}

	if v.submitter == nil {
		return
	}
	if err := v.submitter.Submit(ctx, data); err != nil {
		log.Printf("[WARNING] Error submitting form for view %s: %v", v.id, err)
	}
}

func (v *View) enterConfirmationLocked() {
	v.stopTimerLocked()
	v.setStateLocked(StateConfirmation)
	v.confirmedAt = v.clock.Now()

	gen := v.timerGen
	v.timer = v.clock.AfterFunc(v.delay, func() { v.expire(gen) })
}

// expire resets a confirmation. Timers from an earlier entry are ignored.
func (v *View) expire(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || gen != v.timerGen || v.state != StateConfirmation {
		return
	}
	v.timer = nil
	v.timerGen++
	v.errors = ValidationState{}
	v.setStateLocked(StateHero)
}

func (v *View) stopTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.timerGen++
}

func (v *View) setStateLocked(s State) {
	v.state = s
	viewTransitions.WithLabelValues(s.String()).Inc()
}

// Snapshot returns the current state
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		ID:         v.id,
		State:      v.state,
		ComingSoon: v.comingSoon,
		Form:       v.form,
		Errors:     v.errors,
	}
	if v.state == StateConfirmation {
		snap.ResetIn = v.delay - v.clock.Now().Sub(v.confirmedAt)
		if snap.ResetIn < 0 {
			snap.ResetIn = 0
		}
	}
	return snap
}

// Close unmounts the view and cancels any pending reset. In-flight deliveries are not cancelled.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	v.stopTimerLocked()
}

// Closed reports whether the view has been unmounted
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Wait blocks until background deliveries started by Submit have finished
func (v *View) Wait() {
	v.inflight.Wait()
}
