package domain

// Backend endpoints and browser-side locations used by the auth flows.
const (
	RegisterPath    = "/register"
	TokenPath       = "/token"
	LoginViewPath   = "/login"
	ProfileViewPath = "/profile"

	// AccessTokenKey is the storage key the login flow writes the token under.
	AccessTokenKey = "access_token"
)

// Credentials is the request body for both /register and /token.
// Values are copied verbatim from the submitted form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by a successful /token call.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
