package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/nfrund/authform/internal/browser"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/messages"
	"github.com/nfrund/authform/internal/transport"
	"github.com/spf13/afero"
	"golang.org/x/text/message"
)

// Dependencies holds the runtime services the flows are wired to.
// It is built once per command from the configuration.
type Dependencies struct {
	Config   config.Provider
	BaseURL  *url.URL
	Client   *http.Client
	Cookies  *browser.CookieJar // nil unless credentials are included
	Storage  *browser.Storage
	Location *browser.Location
	Alerter  browser.Alerter
	Messages *message.Printer
	Logger   *slog.Logger
}

// New builds the dependencies for cfg. Storage lives on fs under the
// configured directory, alerts and navigations go to out, and prompt-mode
// acknowledgments are read from in.
func New(cfg config.Provider, fs afero.Fs, out io.Writer, in io.Reader) (*Dependencies, error) {
	base, err := url.Parse(cfg.GetBaseURL())
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// Cookies persist per origin next to the storage file, so a session
	// started by one command is sent by the next.
	var cookies *browser.CookieJar
	if cfg.GetIncludeCredentials() {
		mem, err := transport.NewJar()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(cfg.GetStorageDir(), browser.CookieFile(base))
		if cookies, err = browser.NewCookieJar(fs, path, mem); err != nil {
			return nil, err
		}
	}

	opts := transport.Options{
		Timeout:            cfg.GetHTTPTimeout(),
		IncludeCredentials: cookies != nil,
	}
	if cookies != nil {
		opts.Jar = cookies
	}
	client, err := transport.NewClient(opts)
	if err != nil {
		return nil, err
	}

	alerter, err := browser.NewAlerter(cfg, out, in)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:   cfg,
		BaseURL:  base,
		Client:   client,
		Cookies:  cookies,
		Storage:  browser.NewStorage(fs, filepath.Join(cfg.GetStorageDir(), browser.OriginFile(base))),
		Location: browser.NewLocation(base, out),
		Alerter:  alerter,
		Messages: messages.NewPrinter(cfg.GetLang()),
		Logger:   slog.Default(),
	}, nil
}
