// Package session owns the storefront's identity lifecycle.
//
// A Store is resolved against the server on startup and after every login,
// registration or logout; it never trusts a locally cached identity. Other
// components learn about identity transitions through Subscribe.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/client/apiclient"
)

// State is the position of a Store in its lifecycle.
type State int

const (
	Unresolved State = iota
	Resolving
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

// Cause names the operation behind an identity transition.
type Cause string

const (
	CauseResolve  Cause = "resolve"
	CauseLogin    Cause = "login"
	CauseRegister Cause = "register"
	CauseLogout   Cause = "logout"
)

// Event is delivered to subscribers after every identity transition.
// Identity is nil when the session became anonymous.
type Event struct {
	Identity *apiclient.User
	Cause    Cause
}

// API is the subset of the API client the Store needs.
type API interface {
	Me(ctx context.Context) (*apiclient.MeResponse, error)
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, data apiclient.RegisterData) (*apiclient.AuthResponse, error)
	Logout(ctx context.Context) (*apiclient.MessageResponse, error)
}

type Store struct {
	api API
	log zerolog.Logger

	mu       sync.RWMutex
	state    State
	identity *apiclient.User

	resolved     chan struct{}
	resolvedOnce sync.Once

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func NewStore(api API, log zerolog.Logger) *Store {
	return &Store{
		api:      api,
		log:      log,
		resolved: make(chan struct{}),
		subs:     make(map[int]func(Event)),
	}
}

// Resolve asks the server who the current user is. Any failure leaves the
// session anonymous and is not reported. The first call to finish closes the
// channel returned by Resolved.
func (s *Store) Resolve(ctx context.Context) {
	s.mu.Lock()
	s.state = Resolving
	s.mu.Unlock()

	var user *apiclient.User
	resp, err := s.api.Me(ctx)
	switch {
	case err != nil:
		s.log.Debug().Err(err).Msg("identity not resolved")
	case resp == nil || !resp.Success || resp.User == nil:
		s.log.Debug().Msg("server reported no identity")
	default:
		user = resp.User
	}

	s.set(user, CauseResolve)
	s.resolvedOnce.Do(func() { close(s.resolved) })
}

// Login authenticates with email and password. A response with success=false
// is returned as *AuthError; the identity is left untouched on any failure.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !accepted(resp) {
		return newAuthError(message(resp), loginFailed)
	}
	s.set(resp.User, CauseLogin)
	s.log.Info().Str("user_id", resp.User.ID).Msg("logged in")
	return nil
}

// Register creates an account and signs in as it.
func (s *Store) Register(ctx context.Context, data apiclient.RegisterData) error {
	resp, err := s.api.Register(ctx, data)
	if err != nil {
		return err
	}
	if !accepted(resp) {
		return newAuthError(message(resp), registrationFailed)
	}
	s.set(resp.User, CauseRegister)
	s.log.Info().Str("user_id", resp.User.ID).Msg("registered")
	return nil
}

// Logout asks the server to end the session. The local identity is cleared
// whatever the outcome; a server failure is still returned.
func (s *Store) Logout(ctx context.Context) error {
	_, err := s.api.Logout(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}
	s.set(nil, CauseLogout)
	return err
}

// Identity returns a copy of the current user, or nil when anonymous.
func (s *Store) Identity() *apiclient.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	u := *s.identity
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// IsAdmin is true only while an identity with the admin role is present.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.Role == apiclient.RoleAdmin
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Resolved is closed once the first Resolve has finished.
func (s *Store) Resolved() <-chan struct{} {
	return s.resolved
}

// Subscribe registers fn for identity transitions and returns a function that
// removes it. fn runs synchronously on the goroutine that caused the
// transition.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) set(user *apiclient.User, cause Cause) {
	var stored *apiclient.User
	if user != nil {
		u := *user
		stored = &u
	}

	s.mu.Lock()
	s.identity = stored
	if stored != nil {
		s.state = Authenticated
	} else {
		s.state = Anonymous
	}
	s.mu.Unlock()

	s.notify(Event{Identity: s.Identity(), Cause: cause})
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func accepted(resp *apiclient.AuthResponse) bool {
	return resp != nil && resp.Success && resp.User != nil
}

func message(resp *apiclient.AuthResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Message
}

// IsAuthError reports whether err is a semantic authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
