// Package identity authenticates the user against Firebase and hands out
// short-lived bearer tokens for backend calls. The rest of the client sees it
// only through small interfaces: a fresh token per call and the current user
// record. Identity state is never ambient; it is injected where needed.
package identity

import "time"

// User is the signed-in identity record.
type User struct {
	UID         string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Name returns the display name with the original app's fallback.
func (u User) Name() string {
	if u.DisplayName == "" {
		return "there"
	}
	return u.DisplayName
}

// AuthFailure is a provider rejection with a human-readable message. Known
// provider codes map to specific sentences; everything else gets a generic
// one.
type AuthFailure struct {
	Code    string
	Message string
}

func (e *AuthFailure) Error() string { return e.Message }

const (
	msgBadCredentials = "Oops! The email or password you entered is incorrect. Please try again."
	msgEmailInUse     = "An account with this email address already exists. Please log in."
	msgGeneric        = "An unexpected error occurred. Please try again later."
)

// failureFor converts a Firebase error code into an AuthFailure. Codes can
// arrive with trailing detail ("TOO_MANY_ATTEMPTS_TRY_LATER : ..."), so the
// match is on the leading token.
func failureFor(code string) *AuthFailure {
	switch leadingToken(code) {
	case "INVALID_LOGIN_CREDENTIALS", "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "USER_NOT_FOUND":
		return &AuthFailure{Code: code, Message: msgBadCredentials}
	case "EMAIL_EXISTS":
		return &AuthFailure{Code: code, Message: msgEmailInUse}
	default:
		return &AuthFailure{Code: code, Message: msgGeneric}
	}
}

func leadingToken(code string) string {
	for i := 0; i < len(code); i++ {
		if code[i] == ' ' || code[i] == ':' {
			return code[:i]
		}
	}
	return code
}
