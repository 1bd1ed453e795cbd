package platform

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/dto"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/services"
)

// ErrNoSession is returned by session-bound operations when the client
// is signed out.
var ErrNoSession = errors.New("no active session")

// LocalClient is the production Client, backed by the Postgres-side
// services instead of a hosted platform. It is session-bound: one
// instance represents one signed-in principal, the way an embedded
// SDK client would.
type LocalClient struct {
	auth          *services.AuthService
	notifications *services.NotificationService

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(*Session)
	nextID    int
}

func NewLocalClient(auth *services.AuthService, notifications *services.NotificationService) *LocalClient {
	return &LocalClient{
		auth:          auth,
		notifications: notifications,
		listeners:     make(map[int]func(*Session)),
	}
}

func (c *LocalClient) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (c *LocalClient) GetSession() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

func (c *LocalClient) OnSessionChange(fn func(*Session)) Unsubscribe {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *LocalClient) SignInWithPassword(email, password string) (*Session, error) {
	resp, err := c.auth.Login(&dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	s := sessionFromAuthResponse(resp)
	c.setSession(s)
	return s, nil
}

func (c *LocalClient) SignOut() error {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()

	var err error
	if current != nil {
		err = c.auth.Logout(current.RefreshToken)
	}

	// The session is dropped locally regardless of whether revocation
	// reached the database.
	c.setSession(nil)
	return err
}

func (c *LocalClient) UpdateUserMetadata(meta SessionMetadata) error {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()
	if current == nil {
		return ErrNoSession
	}

	if err := c.auth.SetPasswordChangeFlag(current.Subject, meta.NeedsPasswordChange); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session != nil {
		updated := *c.session
		updated.Metadata = meta
		c.session = &updated
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalClient) FetchProfile(subject uuid.UUID) (*models.Profile, error) {
	return c.auth.GetProfile(subject)
}

func (c *LocalClient) ListNotifications(subject uuid.UUID) ([]models.Notification, error) {
	return c.notifications.List(subject)
}

func (c *LocalClient) SubscribeToInserts(fn func(models.Notification)) Unsubscribe {
	return Unsubscribe(c.notifications.SubscribeInserts(fn))
}

func (c *LocalClient) MarkNotificationRead(id uuid.UUID) error {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()
	if current == nil {
		return ErrNoSession
	}
	return c.notifications.MarkRead(current.Subject, id)
}

func (c *LocalClient) MarkAllNotificationsRead(subject uuid.UUID) error {
	return c.notifications.MarkAllRead(subject)
}

func sessionFromAuthResponse(resp *dto.AuthResponse) *Session {
	return &Session{
		Subject:      resp.User.ID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
		Metadata:     SessionMetadata{NeedsPasswordChange: resp.User.NeedsPasswordChange},
	}
}
