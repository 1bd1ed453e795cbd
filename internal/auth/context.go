// Package auth composes the session store, the profile loader and the
// permission table into a single authentication context, and provides
// the route-guard decision used to gate every dashboard page.
package auth

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/permissions"
	"github.com/komiteplus/committee-backend/internal/platform"
	"github.com/komiteplus/committee-backend/internal/session"
)

// State is the authentication lifecycle state.
type State int

const (
	// StateLoading covers the startup window before the session probe
	// resolves.
	StateLoading State = iota
	// StateAnonymous means no session exists.
	StateAnonymous
	// StateProfileLoading means a session exists and the profile
	// fetch is in flight.
	StateProfileLoading
	// StateAuthenticated means a session exists and the profile fetch
	// finished, whether or not a profile row was found.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateProfileLoading:
		return "profile-loading"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Context is the process-wide authentication state: the current
// session, the cached profile, and the derived role predicates. It is
// constructed explicitly and injected where needed; Init starts it and
// Close tears it down. All writes happen through its own handlers.
type Context struct {
	client    platform.Client
	store     *session.Store
	bootstrap Bootstrap

	mu                  sync.Mutex
	state               State
	session             *platform.Session
	profile             *models.Profile
	needsPasswordChange bool
	// generation increments on every session transition; an in-flight
	// profile fetch carrying an older generation is discarded when it
	// completes.
	generation uint64
	unsub      func()
}

func NewContext(client platform.Client, store *session.Store, bootstrap Bootstrap) *Context {
	return &Context{
		client:    client,
		store:     store,
		bootstrap: bootstrap,
		state:     StateLoading,
	}
}

// Init subscribes to session transitions and runs the startup probe.
func (c *Context) Init() {
	c.mu.Lock()
	c.unsub = c.store.OnChange(c.handleSessionChange)
	c.mu.Unlock()
	c.store.Init()
}

// Close unsubscribes the context from session transitions.
func (c *Context) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	c.store.Close()
}

func (c *Context) handleSessionChange(sess *platform.Session) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.session = sess

	if sess == nil {
		c.state = StateAnonymous
		c.profile = nil
		c.needsPasswordChange = false
		c.mu.Unlock()
		return
	}

	c.state = StateProfileLoading
	c.profile = nil
	c.needsPasswordChange = sess.Metadata.NeedsPasswordChange
	subject := sess.Subject
	c.mu.Unlock()

	go c.loadProfile(gen, subject)
}

// loadProfile is the profile loader: a missing row is not an error
// (it triggers the incomplete-profile flow), and a fetch failure is
// logged and likewise treated as absent.
func (c *Context) loadProfile(gen uint64, subject uuid.UUID) {
	profile, err := c.client.FetchProfile(subject)
	if err != nil {
		lookupErr := &autherrors.ProfileLookupError{Subject: subject.String(), Err: err}
		slog.Error("profile fetch failed, treating profile as absent", "error", lookupErr, "user_id", subject.String())
		profile = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A newer session transition happened while this fetch was in
		// flight; its result no longer describes the current subject.
		return
	}
	c.profile = profile
	c.state = StateAuthenticated
}

// SignIn delegates to the session store; the resulting transition
// drives the state machine. Failures surface as an AuthError and
// leave the context anonymous.
func (c *Context) SignIn(email, password string) error {
	_, err := c.store.SignIn(email, password)
	return err
}

// SignOut clears the session best-effort.
func (c *Context) SignOut() {
	c.store.SignOut()
}

// RefreshProfile re-runs the profile loader for the current subject
// and replaces the cached profile. Unlike the background loader this
// is caller-initiated, so failures are returned instead of absorbed.
func (c *Context) RefreshProfile() error {
	c.mu.Lock()
	sess := c.session
	gen := c.generation
	c.mu.Unlock()

	if sess == nil {
		return &autherrors.AuthError{Op: "refresh profile", Err: platform.ErrNoSession}
	}

	profile, err := c.client.FetchProfile(sess.Subject)
	if err != nil {
		return &autherrors.ProfileLookupError{Subject: sess.Subject.String(), Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.profile = profile
	return nil
}

// ClearPasswordChangeRequirement updates the account metadata flag and
// then local state. A remote failure is returned to the caller and
// leaves local state unchanged.
func (c *Context) ClearPasswordChangeRequirement() error {
	if err := c.client.UpdateUserMetadata(platform.SessionMetadata{NeedsPasswordChange: false}); err != nil {
		return &autherrors.AuthError{Op: "clear password change requirement", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.needsPasswordChange = false
	if c.session != nil {
		updated := *c.session
		updated.Metadata.NeedsPasswordChange = false
		c.session = &updated
	}
	return nil
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsLoading is true while the startup probe or a profile fetch is
// outstanding. Route decisions block on it so no page renders before
// the role is known.
func (c *Context) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateLoading || c.state == StateProfileLoading
}

func (c *Context) Session() *platform.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Context) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

func (c *Context) NeedsPasswordChange() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needsPasswordChange
}

func (c *Context) IsSuperAdmin() bool {
	return IsSuperAdmin(c.Profile(), c.bootstrap)
}

func (c *Context) IsAdmin() bool {
	return IsAdmin(c.Profile(), c.bootstrap)
}

func (c *Context) IsSpecial() bool {
	return IsSpecial(c.Profile(), c.bootstrap)
}

func (c *Context) CanViewPage(page permissions.Page) bool {
	return CanViewPage(c.Profile(), c.bootstrap, page)
}

func (c *Context) CanEditPage(page permissions.Page) bool {
	return CanEditPage(c.Profile(), c.bootstrap, page)
}

// Decide evaluates the route guard against the current state.
func (c *Context) Decide(route RouteConfig) Decision {
	c.mu.Lock()
	st := GuardState{
		Loading:   c.state == StateLoading || c.state == StateProfileLoading,
		SignedIn:  c.session != nil,
		Profile:   c.profile,
		Bootstrap: c.bootstrap,
	}
	c.mu.Unlock()
	return Decide(st, route)
}
