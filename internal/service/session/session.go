package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

// DefaultLoginFailure is shown when the server gives no better reason.
const DefaultLoginFailure = "Login failed. Please signup if you don't have an account."

var errLoginNoUser = errors.New("login response has no user")

// Authenticator is the login endpoint of the fare gateway.
type Authenticator interface {
	Login(ctx context.Context, srcode, password string) (*models.LoginResponse, error)
}

// LoginError carries a message that can be shown to the user as is.
type LoginError struct {
	Message string
	Cause   error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Cause
}

// Store owns the authenticated identity of the process.
type Store struct {
	storage Storage
	auth    Authenticator
	log     logger.Logger

	mu       sync.RWMutex
	identity *models.SessionIdentity
}

func NewStore(storage Storage, auth Authenticator, log logger.Logger) *Store {
	return &Store{
		storage: storage,
		auth:    auth,
		log:     log,
	}
}

// Restore loads a stored identity. Unreadable or malformed state is discarded
// and the store stays unauthenticated.
func (s *Store) Restore(ctx context.Context) {
	ctx = wrap.WithAction(ctx, types.ActionSessionRestore)

	data, err := s.storage.Read()
	if err != nil {
		s.log.Warn(ctx, "failed to read session storage", "error", err.Error())
		s.discard(ctx)
		return
	}
	if data == nil {
		return
	}

	var identity models.SessionIdentity
	if err := json.Unmarshal(data, &identity); err != nil || !identity.Valid() {
		s.log.Debug(ctx, "discarding malformed session")
		s.discard(ctx)
		return
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.log.Debug(wrap.WithUserID(ctx, identity.SRCode), "session restored")
}

// Login authenticates against the gateway, persists the identity and only then
// marks the store authenticated. Every error is a *LoginError.
func (s *Store) Login(ctx context.Context, srcode, password string) (*models.SessionIdentity, error) {
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	resp, err := s.auth.Login(ctx, srcode, password)
	if err != nil {
		s.log.Debug(ctx, "login request failed", "error", err.Error())
		return nil, &LoginError{Message: failureMessage(err), Cause: err}
	}

	if resp == nil || !resp.Success {
		msg := DefaultLoginFailure
		if resp != nil && strings.TrimSpace(resp.Message) != "" {
			msg = resp.Message
		}
		return nil, &LoginError{Message: msg}
	}

	if resp.User == nil || strings.TrimSpace(resp.User.SRCode) == "" {
		return nil, &LoginError{Message: DefaultLoginFailure, Cause: errLoginNoUser}
	}

	identity := &models.SessionIdentity{
		SRCode:  resp.User.SRCode,
		Name:    resp.User.Name,
		College: resp.User.College,
		Token:   resp.Token,
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return nil, &LoginError{Message: DefaultLoginFailure, Cause: err}
	}
	if err := s.storage.Write(data); err != nil {
		s.log.Error(ctx, "failed to persist session", err)
		return nil, &LoginError{Message: DefaultLoginFailure, Cause: err}
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	s.log.Debug(wrap.WithUserID(ctx, identity.SRCode), "logged in")

	c := *identity
	return &c, nil
}

// Logout forgets the identity in memory and in storage. Calling it twice is harmless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear session storage: %w", err)
	}
	return nil
}

// Identity returns a copy of the current identity, or nil.
func (s *Store) Identity() *models.SessionIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return nil
	}
	c := *s.identity
	return &c
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity != nil
}

func (s *Store) discard(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.log.Warn(ctx, "failed to clear session storage", "error", err.Error())
	}
}

// userMessenger is implemented by gateway errors that carry server wording.
type userMessenger interface {
	UserMessage() string
}

func failureMessage(err error) string {
	var m userMessenger
	if errors.As(err, &m) && strings.TrimSpace(m.UserMessage()) != "" {
		return m.UserMessage()
	}
	return DefaultLoginFailure
}
