// Package audit provides structured audit logging for the gateway's two
// codemode tools. It is narrowed from the teacher's HTTP-middleware-shaped
// auditor to a direct Record(event) call, since this module has no HTTP
// request/response cycle of its own to wrap (spec.md places the outer
// request-routing surface out of scope).
package audit

import (
	"encoding/json"
	"time"

	"github.com/mcpgateway/codemode/pkg/logger"
)

// Event types this gateway emits.
const (
	EventTypeSearch  = "codemode_search"
	EventTypeExecute = "codemode_execute"
)

// Outcomes an audit event may carry.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// Event is one audit record.
type Event struct {
	Type      string         `json:"type"`
	Outcome   string         `json:"outcome"`
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	Target    map[string]any `json:"target,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent constructs an Event of the given type/outcome stamped at ts.
func NewEvent(eventType, outcome, component string, ts time.Time) *Event {
	return &Event{Type: eventType, Outcome: outcome, Component: component, Timestamp: ts}
}

// WithTarget attaches target information (e.g. the tool/server invoked).
func (e *Event) WithTarget(target map[string]any) *Event {
	e.Target = target
	return e
}

// WithMetadata attaches free-form metadata (e.g. duration, call count).
func (e *Event) WithMetadata(metadata map[string]any) *Event {
	e.Metadata = metadata
	return e
}

// Config controls whether and what the Auditor records.
type Config struct {
	Enabled   bool
	Component string
}

// Auditor records audit events as structured log lines, mirroring the
// teacher's Auditor.logEvent behaviour (JSON-marshal then pkg/logger.Info)
// without the HTTP request/response capture that drives it there.
type Auditor struct {
	config Config
}

// NewAuditor constructs an Auditor.
func NewAuditor(config Config) *Auditor {
	return &Auditor{config: config}
}

// Record logs event as a JSON structured log line, unless auditing is
// disabled.
func (a *Auditor) Record(event *Event) {
	if !a.config.Enabled {
		return
	}
	if event.Component == "" {
		event.Component = a.config.Component
	}
	b, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("failed to marshal audit event: %v", err)
		return
	}
	logger.Info(string(b))
}
