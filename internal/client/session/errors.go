package session

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
)

// AuthError is a login or registration rejected by the server with a
// success=false payload, as opposed to a failed request.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func newAuthError(msg, fallback string) *AuthError {
	if msg == "" {
		msg = fallback
	}
	return &AuthError{Message: msg}
}
