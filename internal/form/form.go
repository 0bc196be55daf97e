// Package form models a submitted HTML form and the submit event that
// carries it to a handler.
package form

import (
	"context"
	"net/url"
)

// Form holds the named field values of a submitted form.
type Form struct {
	values url.Values
}

// New creates a form from the given field values.
func New(values url.Values) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{values: values}
}

// FromFields is a convenience constructor for single-valued fields.
func FromFields(fields map[string]string) *Form {
	values := url.Values{}
	for name, v := range fields {
		values.Set(name, v)
	}
	return New(values)
}

// Get returns the first value of the named field, or "" when it is absent.
func (f *Form) Get(name string) string {
	return f.values.Get(name)
}

// Set replaces the value of the named field.
func (f *Form) Set(name, value string) {
	f.values.Set(name, value)
}

// SubmitEvent is dispatched once per submission of a form.
type SubmitEvent struct {
	form             *Form
	defaultPrevented bool
}

// NewSubmitEvent creates a submit event for f.
func NewSubmitEvent(f *Form) *SubmitEvent {
	return &SubmitEvent{form: f}
}

// Form returns the submitted form.
func (e *SubmitEvent) Form() *Form { return e.form }

// PreventDefault suppresses the default full-page submission.
func (e *SubmitEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler suppressed the default submission.
func (e *SubmitEvent) DefaultPrevented() bool { return e.defaultPrevented }

// Handler reacts to form submissions.
type Handler interface {
	HandleSubmit(ctx context.Context, e *SubmitEvent)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, e *SubmitEvent)

// HandleSubmit calls fn(ctx, e).
func (fn HandlerFunc) HandleSubmit(ctx context.Context, e *SubmitEvent) { fn(ctx, e) }

// Binding attaches a handler to a form.
type Binding struct {
	form    *Form
	handler Handler
}

// Bind attaches h to f. It returns nil when there is no form to bind to,
// so callers can wire optional forms without checking first.
func Bind(f *Form, h Handler) *Binding {
	if f == nil || h == nil {
		return nil
	}
	return &Binding{form: f, handler: h}
}

// Submit dispatches one submit event to the bound handler and returns it
// once the handler has run to completion.
func (b *Binding) Submit(ctx context.Context) *SubmitEvent {
	e := NewSubmitEvent(b.form)
	b.handler.HandleSubmit(ctx, e)
	return e
}
