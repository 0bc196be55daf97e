package domain

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

func (s Severity) String() string { return string(s) }
