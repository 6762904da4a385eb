package client

import (
	"context"
	"errors"
	"sync"

	"class_portal/internal/model"
)

// State is the controller's position in the login flow.
type State int

const (
	// StateIdle holds the editable form; submissions are accepted.
	StateIdle State = iota
	// StateSubmitting means a request is in flight; further submissions
	// are rejected until it resolves.
	StateSubmitting
	// StateSuccess is terminal for the attempt; the role has been
	// resolved and navigation (if any) dispatched.
	StateSuccess
	// StateFailed is terminal for the attempt; a generic failure message
	// is available.
	StateFailed
)

// Dashboard routes dispatched after a successful login.
const (
	RouteInstructor = "/instructor"
	RouteParent     = "/parent"
)

// GenericFailureMessage is the single message shown for every failed
// attempt. It never reveals whether the email or the password was wrong.
const GenericFailureMessage = "Failed to login. Please check your credentials."

var (
	// ErrSubmitInFlight is returned when Submit is called while a
	// previous submission is still pending.
	ErrSubmitInFlight = errors.New("a login request is already in flight")
	// ErrControllerClosed is returned when the controller was discarded.
	ErrControllerClosed = errors.New("login controller is closed")
)

// Navigator receives the navigation side effect of a successful login.
type Navigator interface {
	NavigateTo(route string)
}

// Controller is the client-side login state machine:
//
//	Idle -> Submitting -> Success | Failed
//
// Success and Failed are terminal for the attempt; Reset returns the
// controller to Idle for a new one. Submissions run asynchronously; a
// result arriving after Close, or after a newer submission superseded it,
// is dropped without applying state or navigation.
type Controller struct {
	api Client
	nav Navigator

	mu       sync.Mutex
	state    State
	roleHint int
	roleID   int
	failure  string
	attempt  int
	closed   bool
	cancel   context.CancelFunc
}

// NewController creates a Controller in StateIdle. The role hint defaults
// to instructor; it is a display default only and never feeds authorization.
func NewController(api Client, nav Navigator) *Controller {
	return &Controller{
		api:      api,
		nav:      nav,
		state:    StateIdle,
		roleHint: model.RoleInstructor,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RoleID returns the server-resolved role after a successful login.
func (c *Controller) RoleID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roleID
}

// FailureMessage returns the generic message for a failed attempt, or ""
// when the last attempt did not fail.
func (c *Controller) FailureMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// SetRoleHint records the role tab the user selected. Unknown values are
// ignored.
func (c *Controller) SetRoleHint(roleID int) {
	if !model.ValidRole(roleID) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roleHint = roleID
}

// RoleHint returns the selected role tab.
func (c *Controller) RoleHint() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roleHint
}

// Submit starts an asynchronous login attempt. It returns a channel that is
// closed when the attempt has fully resolved, which callers can wait on.
// While a submission is in flight further calls fail with ErrSubmitInFlight,
// so one attempt cannot race another on the navigation side effect.
//
// The credential is passed through to the API call and kept nowhere else.
func (c *Controller) Submit(email, password string) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.state = StateSubmitting
	c.failure = ""
	c.attempt++
	attempt := c.attempt

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		roleID, err := c.api.Login(ctx, email, password)
		c.apply(attempt, roleID, err)
	}()
	return done, nil
}

// apply installs the outcome of an attempt. Results from a closed
// controller or a superseded attempt are discarded.
func (c *Controller) apply(attempt, roleID int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || attempt != c.attempt {
		return
	}

	if err != nil {
		c.state = StateFailed
		c.failure = GenericFailureMessage
		return
	}

	c.state = StateSuccess
	c.roleID = roleID

	switch roleID {
	case model.RoleInstructor:
		c.nav.NavigateTo(RouteInstructor)
	case model.RoleParent:
		c.nav.NavigateTo(RouteParent)
	default:
		// Unknown role: stay on the current view rather than guess a
		// dashboard.
	}
}

// Reset returns a terminal controller to StateIdle for a fresh attempt.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrControllerClosed
	}
	if c.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	c.state = StateIdle
	c.roleID = 0
	c.failure = ""
	return nil
}

// Close discards the controller. An in-flight submission is canceled and
// its eventual result, whatever it is, will not be applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
}
