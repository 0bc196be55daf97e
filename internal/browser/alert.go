package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/domain"
)

// Alerter shows a message to the user. It satisfies authflow.Notifier.
type Alerter interface {
	Notify(message string, severity domain.Severity)
}

// --- ConsoleAlerter ---

// ConsoleAlerter writes alerts to a terminal. With an acknowledgment reader
// it behaves like a modal dialog: Notify returns only after the user
// confirms with Enter.
type ConsoleAlerter struct {
	mu  sync.Mutex
	out io.Writer
	ack *bufio.Reader
}

// NewConsoleAlerter creates an alerter writing to out. ack may be nil for
// non-blocking alerts.
func NewConsoleAlerter(out io.Writer, ack io.Reader) *ConsoleAlerter {
	a := &ConsoleAlerter{out: out}
	if ack != nil {
		a.ack = bufio.NewReader(ack)
	}
	return a
}

// Notify prints the message and, when blocking, waits for acknowledgment.
func (a *ConsoleAlerter) Notify(message string, severity domain.Severity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprintln(a.out, message)
	if a.ack == nil {
		return
	}
	fmt.Fprint(a.out, "[OK] ")
	if _, err := a.ack.ReadString('\n'); err != nil && err != io.EOF {
		slog.Debug("Alert acknowledgment failed", "error", err)
	}
}

// --- LogAlerter ---

// LogAlerter sends alerts to the structured log instead of a terminal.
type LogAlerter struct {
	logger *slog.Logger
}

// NewLogAlerter creates a LogAlerter. A nil logger means slog.Default().
func NewLogAlerter(logger *slog.Logger) *LogAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogAlerter{logger: logger}
}

// Notify logs the message at a level matching its severity.
func (a *LogAlerter) Notify(message string, severity domain.Severity) {
	level := slog.LevelInfo
	if severity == domain.SeverityError {
		level = slog.LevelWarn
	}
	a.logger.Log(context.Background(), level, "Alert", "severity", severity.String(), "message", message)
}

// NewAlerter creates an alerter based on the configuration.
func NewAlerter(cfg config.Provider, out io.Writer, in io.Reader) (Alerter, error) {
	switch cfg.GetAlertMode() {
	case config.AlertConsole:
		return NewConsoleAlerter(out, nil), nil
	case config.AlertPrompt:
		if in == nil {
			return nil, fmt.Errorf("alert mode %q needs an input to read acknowledgments from", config.AlertPrompt)
		}
		return NewConsoleAlerter(out, in), nil
	case config.AlertLog:
		return NewLogAlerter(nil), nil
	default:
		return nil, fmt.Errorf("unknown alert mode: %s", cfg.GetAlertMode())
	}
}
