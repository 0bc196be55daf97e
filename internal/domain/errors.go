package domain

import "errors"

// Sentinel errors for the auth client. These provide consistent, checkable
// errors for failures that end in the generic "unexpected error" branch.
var (
	// ErrMalformedResponse indicates the backend answered with a body that
	// could not be decoded as the JSON the flow expected.
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrMissingAccessToken indicates a successful login response that did
	// not carry a usable access token.
	ErrMissingAccessToken = errors.New("login response has no access token")
)
