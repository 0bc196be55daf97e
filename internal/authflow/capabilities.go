package authflow

import (
	"net/http"

	"github.com/nfrund/authform/internal/domain"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier presents a message to the user. Implementations may block until
// the user acknowledges it.
type Notifier interface {
	Notify(message string, severity domain.Severity)
}

// Navigator moves the user to another view.
type Navigator interface {
	NavigateTo(path string)
}

// TokenStore persists string values under a key.
type TokenStore interface {
	Save(key, value string) error
}
