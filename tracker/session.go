package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAuthDelay matches the simulated API latency of the mock provider.
const DefaultAuthDelay = 800 * time.Millisecond

// SessionStore holds the current user identity, or none. The auth provider
// is a mock: login and register accept any credentials, wait out a simulated
// delay, and mint a user. The password is read and discarded.
type SessionStore struct {
	storage  *Storage
	notifier *Notifier
	logger   *zap.Logger
	delay    time.Duration

	user *User
}

// NewSessionStore restores a persisted session if one exists. A malformed
// stored record silently degrades to the anonymous state.
func NewSessionStore(storage *Storage, notifier *Notifier, logger *zap.Logger, delay time.Duration) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionStore{storage: storage, notifier: notifier, logger: logger, delay: delay}
	s.restore()
	return s
}

func (s *SessionStore) restore() {
	raw, ok, err := s.storage.Get(userKey)
	if err != nil {
		s.logger.Warn("session restore failed, staying anonymous", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn("discarding malformed session record", zap.Error(err))
		return
	}
	s.user = &u
}

// Current returns the authenticated user, or nil when anonymous.
func (s *SessionStore) Current() *User { return s.user }

// IsAuthenticated reports whether a user identity is present.
func (s *SessionStore) IsAuthenticated() bool { return s.user != nil }

// Login mints a user for the given email after the simulated delay. The
// username is the email's local part. It fails only if persisting the
// session fails; the state stays anonymous in that case.
func (s *SessionStore) Login(email, password string) (*User, error) {
	time.Sleep(s.delay)

	username := email
	if at := strings.Index(email, "@"); at >= 0 {
		username = email[:at]
	}
	return s.establish(username, email,
		"Successfully logged in", "Login failed. Please try again.")
}

// Register behaves like Login but keeps the supplied username.
func (s *SessionStore) Register(username, email, password string) (*User, error) {
	time.Sleep(s.delay)
	return s.establish(username, email,
		"Account created successfully", "Registration failed. Please try again.")
}

func (s *SessionStore) establish(username, email, okMsg, failMsg string) (*User, error) {
	u := &User{ID: userID(email), Username: username, Email: email}

	raw, err := json.Marshal(u)
	if err == nil {
		err = s.storage.Set(userKey, string(raw))
	}
	if err != nil {
		s.notifier.Publish(KindError, failMsg)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.user = u
	s.logger.Debug("session established",
		zap.String("user_id", u.ID),
		zap.String("username", u.Username))
	s.notifier.Publish(KindSuccess, okMsg)
	return u, nil
}

// Logout returns to the anonymous state. Only the session record is cleared;
// the account's collection stays under its own key so the same email gets
// the same books back at the next login.
func (s *SessionStore) Logout() error {
	if s.user == nil {
		return nil
	}
	if err := s.storage.Delete(userKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.user = nil
	s.notifier.Publish(KindInfo, "You have been logged out")
	return nil
}

// userID derives a stable opaque id from the email so the per-user books key
// refers to the same collection across logins.
func userID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("booktracker://"+strings.ToLower(email))).String()
}
