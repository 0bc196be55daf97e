// Package messages holds the user-facing strings of the auth flows.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	RegisterSucceeded  = "User registered successfully!"
	RegisterFailed     = "Registration error:\n%s"
	RegisterUnexpected = "An unexpected error occurred during registration"

	LoginFailed     = "Login error:\n%s"
	LoginUnexpected = "An unexpected error occurred during login"
)

var supported = []language.Tag{language.English, language.Ukrainian}

var matcher = language.NewMatcher(supported)

func init() {
	for _, e := range []struct {
		tag  language.Tag
		key  string
		text string
	}{
		{language.English, RegisterSucceeded, RegisterSucceeded},
		{language.English, RegisterFailed, RegisterFailed},
		{language.English, RegisterUnexpected, RegisterUnexpected},
		{language.English, LoginFailed, LoginFailed},
		{language.English, LoginUnexpected, LoginUnexpected},

		{language.Ukrainian, RegisterSucceeded, "Користувач успішно зареєстрований!"},
		{language.Ukrainian, RegisterFailed, "Помилка реєстрації:\n%s"},
		{language.Ukrainian, RegisterUnexpected, "Сталася неочікувана помилка під час реєстрації"},
		{language.Ukrainian, LoginFailed, "Помилка входу:\n%s"},
		{language.Ukrainian, LoginUnexpected, "Сталася неочікувана помилка під час входу"},
	} {
		_ = message.SetString(e.tag, e.key, e.text)
	}
}

// NewPrinter returns a printer for the best supported match of lang.
// Unknown or empty tags fall back to English.
func NewPrinter(lang string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	for _, s := range supported {
		if b, _ := s.Base(); b == base {
			return message.NewPrinter(s)
		}
	}
	return message.NewPrinter(language.English)
}
