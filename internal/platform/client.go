// Package platform defines the data-platform boundary the auth and
// notification subsystems are built against: session issuance and
// change events, profile row lookup, and the notification insert
// stream. The production implementation is backed by Postgres
// (local.go); an in-memory implementation (memory.go) backs the test
// suites and local development.
package platform

import (
	"time"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
)

// SessionMetadata carries account flags set at invitation time,
// outside the profile row.
type SessionMetadata struct {
	NeedsPasswordChange bool `json:"needs_password_change"`
}

// Session is the credential bundle for a signed-in subject. It is
// replaced wholesale on login, refresh and logout; never mutated in
// place.
type Session struct {
	Subject      uuid.UUID       `json:"subject"`
	Email        string          `json:"email"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Metadata     SessionMetadata `json:"metadata"`
}

// Unsubscribe removes a previously registered listener.
type Unsubscribe func()

// Client is the platform surface consumed by the session store, auth
// context and notifications channel.
type Client interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession() (*Session, error)

	// OnSessionChange registers a listener invoked with the new
	// session (or nil) on every transition. Listeners fire
	// synchronously, in subscription order.
	OnSessionChange(fn func(*Session)) Unsubscribe

	// SignInWithPassword exchanges credentials for a session and
	// announces it to session listeners.
	SignInWithPassword(email, password string) (*Session, error)

	// SignOut invalidates the current session. The local session is
	// cleared and announced even when the remote call fails.
	SignOut() error

	// UpdateUserMetadata patches the current subject's account
	// metadata (e.g. clearing needs_password_change).
	UpdateUserMetadata(meta SessionMetadata) error

	// FetchProfile looks up the profile row for a subject. A missing
	// row returns (nil, nil), not an error.
	FetchProfile(subject uuid.UUID) (*models.Profile, error)

	// ListNotifications returns the subject's notifications, newest
	// first.
	ListNotifications(subject uuid.UUID) ([]models.Notification, error)

	// SubscribeToInserts registers a listener for every notification
	// insert, regardless of owner. Callers filter by user_id.
	SubscribeToInserts(fn func(models.Notification)) Unsubscribe

	// MarkNotificationRead flips is_read on a single notification.
	MarkNotificationRead(id uuid.UUID) error

	// MarkAllNotificationsRead flips is_read on every unread
	// notification owned by subject.
	MarkAllNotificationsRead(subject uuid.UUID) error
}
