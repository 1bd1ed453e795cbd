package platform

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type memoryAccount struct {
	id       uuid.UUID
	password string
	metadata SessionMetadata
}

// MemoryClient is an in-memory Client used by the test suites and for
// local development without Postgres. The exported error fields let
// tests inject remote failures.
type MemoryClient struct {
	mu               sync.Mutex
	accounts         map[string]*memoryAccount
	profiles         map[uuid.UUID]*models.Profile
	notifications    []models.Notification
	session          *Session
	sessionListeners []sessionListener
	insertListeners  []insertListener
	nextListenerID   int

	// Failure injection for tests. Nil means the call succeeds.
	SignInErr            error
	SignOutErr           error
	GetSessionErr        error
	UpdateMetadataErr    error
	ListNotificationsErr error
	MarkReadErr          error
	MarkAllReadErr       error
	FetchProfileHook     func(subject uuid.UUID) (*models.Profile, error)
}

type sessionListener struct {
	id int
	fn func(*Session)
}

type insertListener struct {
	id int
	fn func(models.Notification)
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		accounts: make(map[string]*memoryAccount),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

// AddAccount registers a credential pair and returns the subject ID.
func (m *MemoryClient) AddAccount(email, password string, meta SessionMetadata) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.accounts[email] = &memoryAccount{id: id, password: password, metadata: meta}
	return id
}

// SetProfile stores a profile row keyed by its ID.
func (m *MemoryClient) SetProfile(p *models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// RemoveProfile deletes a profile row, simulating an account that has
// not onboarded yet.
func (m *MemoryClient) RemoveProfile(subject uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, subject)
}

// SeedSession installs a session without announcing it, as if it were
// persisted from a previous run.
func (m *MemoryClient) SeedSession(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

// Invalidate simulates a platform-pushed session expiry: the session
// is dropped and listeners are told.
func (m *MemoryClient) Invalidate() {
	m.setSession(nil)
}

// InsertNotification stores a row and publishes it to insert
// listeners, as a platform-side trigger would.
func (m *MemoryClient) InsertNotification(n models.Notification) {
	m.mu.Lock()
	m.notifications = append(m.notifications, n)
	listeners := make([]insertListener, len(m.insertListeners))
	copy(listeners, m.insertListeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.fn(n)
	}
}

// Notifications returns a copy of the stored rows for assertions.
func (m *MemoryClient) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

func (m *MemoryClient) setSession(s *Session) {
	m.mu.Lock()
	m.session = s
	listeners := make([]sessionListener, len(m.sessionListeners))
	copy(listeners, m.sessionListeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.fn(s)
	}
}

func (m *MemoryClient) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSessionErr != nil {
		return nil, m.GetSessionErr
	}
	return m.session, nil
}

func (m *MemoryClient) OnSessionChange(fn func(*Session)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextListenerID++
	id := m.nextListenerID
	m.sessionListeners = append(m.sessionListeners, sessionListener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.sessionListeners {
			if l.id == id {
				m.sessionListeners = append(m.sessionListeners[:i], m.sessionListeners[i+1:]...)
				return
			}
		}
	}
}

func (m *MemoryClient) SignInWithPassword(email, password string) (*Session, error) {
	m.mu.Lock()
	if m.SignInErr != nil {
		err := m.SignInErr
		m.mu.Unlock()
		return nil, err
	}
	acct, ok := m.accounts[email]
	if !ok || acct.password != password {
		m.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	s := &Session{
		Subject:      acct.id,
		Email:        email,
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		Metadata:     acct.metadata,
	}
	m.mu.Unlock()

	m.setSession(s)
	return s, nil
}

func (m *MemoryClient) SignOut() error {
	m.mu.Lock()
	err := m.SignOutErr
	m.mu.Unlock()

	// Local session is dropped even when the remote call failed.
	m.setSession(nil)
	return err
}

func (m *MemoryClient) UpdateUserMetadata(meta SessionMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateMetadataErr != nil {
		return m.UpdateMetadataErr
	}
	if m.session == nil {
		return errors.New("no active session")
	}
	if acct, ok := m.accounts[m.session.Email]; ok {
		acct.metadata = meta
	}
	updated := *m.session
	updated.Metadata = meta
	m.session = &updated
	return nil
}

func (m *MemoryClient) FetchProfile(subject uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	hook := m.FetchProfileHook
	m.mu.Unlock()
	if hook != nil {
		return hook(subject)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[subject]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryClient) ListNotifications(subject uuid.UUID) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListNotificationsErr != nil {
		return nil, m.ListNotificationsErr
	}
	out := make([]models.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID == subject {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryClient) SubscribeToInserts(fn func(models.Notification)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextListenerID++
	id := m.nextListenerID
	m.insertListeners = append(m.insertListeners, insertListener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.insertListeners {
			if l.id == id {
				m.insertListeners = append(m.insertListeners[:i], m.insertListeners[i+1:]...)
				return
			}
		}
	}
}

func (m *MemoryClient) MarkNotificationRead(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkReadErr != nil {
		return m.MarkReadErr
	}
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (m *MemoryClient) MarkAllNotificationsRead(subject uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkAllReadErr != nil {
		return m.MarkAllReadErr
	}
	for i := range m.notifications {
		if m.notifications[i].UserID == subject {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}
