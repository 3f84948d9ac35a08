package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurawell/storefront/internal/client/apiclient"
)

type stubAPI struct {
	me       *apiclient.MeResponse
	meErr    error
	login    *apiclient.AuthResponse
	loginErr error
	reg      *apiclient.AuthResponse
	regErr   error
	logout   error

	lastLogin    [2]string
	lastRegister apiclient.RegisterData
	logoutCalls  int
}

func (s *stubAPI) Me(context.Context) (*apiclient.MeResponse, error) { return s.me, s.meErr }

func (s *stubAPI) Login(_ context.Context, email, password string) (*apiclient.AuthResponse, error) {
	s.lastLogin = [2]string{email, password}
	return s.login, s.loginErr
}

func (s *stubAPI) Register(_ context.Context, data apiclient.RegisterData) (*apiclient.AuthResponse, error) {
	s.lastRegister = data
	return s.reg, s.regErr
}

func (s *stubAPI) Logout(context.Context) (*apiclient.MessageResponse, error) {
	s.logoutCalls++
	if s.logout != nil {
		return nil, s.logout
	}
	return &apiclient.MessageResponse{Success: true, Message: "Logged out successfully"}, nil
}

var (
	alice = &apiclient.User{ID: "u1", Email: "alice@example.com", FirstName: "Alice", Role: apiclient.RoleUser}
	root  = &apiclient.User{ID: "u2", Email: "admin@aurawell.my", FirstName: "Admin", Role: apiclient.RoleAdmin}
)

func newStore(api *stubAPI) *Store {
	return NewStore(api, zerolog.Nop())
}

func TestResolve_Authenticated(t *testing.T) {
	s := newStore(&stubAPI{me: &apiclient.MeResponse{Success: true, User: alice}})
	assert.Equal(t, Unresolved, s.State())

	s.Resolve(context.Background())

	assert.Equal(t, Authenticated, s.State())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "u1", s.Identity().ID)
	select {
	case <-s.Resolved():
	default:
		t.Fatalf("resolved channel not closed")
	}
}

func TestResolve_FailureIsAnonymousAndSilent(t *testing.T) {
	s := newStore(&stubAPI{meErr: &apiclient.Error{Message: "Not authenticated"}})

	s.Resolve(context.Background())

	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Identity())
	assert.False(t, s.IsAdmin())
	<-s.Resolved()
}

func TestResolve_ClosesResolvedOnlyOnce(t *testing.T) {
	s := newStore(&stubAPI{me: &apiclient.MeResponse{Success: false}})
	s.Resolve(context.Background())
	assert.NotPanics(t, func() { s.Resolve(context.Background()) })
}

func TestLogin_Success(t *testing.T) {
	api := &stubAPI{login: &apiclient.AuthResponse{Success: true, Message: "Login successful", User: root}}
	s := newStore(api)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, s.Login(context.Background(), "admin@aurawell.my", "secret"))

	assert.Equal(t, [2]string{"admin@aurawell.my", "secret"}, api.lastLogin)
	assert.True(t, s.IsAdmin())
	require.Len(t, events, 1)
	assert.Equal(t, CauseLogin, events[0].Cause)
	assert.Equal(t, "u2", events[0].Identity.ID)
}

func TestLogin_SemanticFailureKeepsIdentityAbsent(t *testing.T) {
	s := newStore(&stubAPI{login: &apiclient.AuthResponse{Success: false, Message: "Invalid credentials"}})

	notified := false
	s.Subscribe(func(Event) { notified = true })

	err := s.Login(context.Background(), "a@b.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, IsAuthError(err))
	assert.Nil(t, s.Identity())
	assert.False(t, notified)
}

func TestLogin_SemanticFailureFallbackMessage(t *testing.T) {
	s := newStore(&stubAPI{login: &apiclient.AuthResponse{Success: false}})
	err := s.Login(context.Background(), "a@b.com", "wrong")
	assert.EqualError(t, err, "Login failed")
}

func TestLogin_RequestFailurePropagates(t *testing.T) {
	reqErr := &apiclient.Error{Message: "Invalid email or password"}
	s := newStore(&stubAPI{
		me:       &apiclient.MeResponse{Success: true, User: alice},
		loginErr: reqErr,
	})
	s.Resolve(context.Background())

	err := s.Login(context.Background(), "a@b.com", "wrong")

	assert.Same(t, reqErr, err)
	assert.False(t, IsAuthError(err))
	assert.Equal(t, "u1", s.Identity().ID, "identity must be untouched on failure")
}

func TestRegister_AutoLogin(t *testing.T) {
	api := &stubAPI{reg: &apiclient.AuthResponse{Success: true, User: alice}}
	s := newStore(api)
	data := apiclient.RegisterData{Email: "alice@example.com", Password: "pw", FirstName: "Alice", LastName: "Tan"}

	require.NoError(t, s.Register(context.Background(), data))

	assert.Equal(t, data, api.lastRegister)
	assert.Equal(t, Authenticated, s.State())
	assert.False(t, s.IsAdmin())
}

func TestRegister_SemanticFailure(t *testing.T) {
	s := newStore(&stubAPI{reg: &apiclient.AuthResponse{Success: false, Message: "Email already registered"}})
	err := s.Register(context.Background(), apiclient.RegisterData{Email: "a@b.com"})
	assert.EqualError(t, err, "Email already registered")
	assert.False(t, s.IsAuthenticated())
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	serverErr := errors.New("network down")
	api := &stubAPI{login: &apiclient.AuthResponse{Success: true, User: root}, logout: serverErr}
	s := newStore(api)
	require.NoError(t, s.Login(context.Background(), "x", "y"))

	var last Event
	s.Subscribe(func(ev Event) { last = ev })

	err := s.Logout(context.Background())

	assert.ErrorIs(t, err, serverErr)
	assert.Equal(t, 1, api.logoutCalls)
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Identity())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, CauseLogout, last.Cause)
	assert.Nil(t, last.Identity)
}

func TestIsAdmin_OnlyForAdminRole(t *testing.T) {
	cases := []struct {
		name string
		user *apiclient.User
		want bool
	}{
		{"anonymous", nil, false},
		{"user", alice, false},
		{"admin", root, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubAPI{me: &apiclient.MeResponse{Success: tc.user != nil, User: tc.user}}
			s := newStore(api)
			s.Resolve(context.Background())
			assert.Equal(t, tc.want, s.IsAdmin())
		})
	}
}

func TestIdentity_ReturnsCopy(t *testing.T) {
	s := newStore(&stubAPI{me: &apiclient.MeResponse{Success: true, User: alice}})
	s.Resolve(context.Background())

	id := s.Identity()
	id.Role = apiclient.RoleAdmin

	assert.False(t, s.IsAdmin())
	assert.Equal(t, apiclient.RoleUser, alice.Role)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := newStore(&stubAPI{me: &apiclient.MeResponse{Success: false}})

	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })
	s.Resolve(context.Background())
	unsubscribe()
	s.Resolve(context.Background())

	assert.Equal(t, 1, calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "unknown", State(42).String())
}
