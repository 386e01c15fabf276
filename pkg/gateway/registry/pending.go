package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPendingRequestTimeout is the default lifetime of a pending
// sampling/elicitation request before it should be considered abandoned,
// per spec.md §4.4.
const DefaultPendingRequestTimeout = 5 * time.Minute

// PendingKind distinguishes the two host-forwarded request types the
// registry buffers. Actually forwarding these to a human operator is an
// external collaborator (spec.md §1 Out of scope); the registry only holds
// them and resolves their lifecycle.
type PendingKind string

// PendingKind values.
const (
	PendingSampling    PendingKind = "sampling"
	PendingElicitation PendingKind = "elicitation"
)

// PendingStatus is the lifecycle state of a PendingRequest.
type PendingStatus string

// PendingStatus values.
const (
	PendingAwaiting PendingStatus = "awaiting"
	PendingResolved PendingStatus = "resolved"
	PendingRejected PendingStatus = "rejected"
)

// PendingRequest is a sampling or elicitation request initiated by a
// backend, awaiting a response routed back from the gateway's human-facing
// surface.
type PendingRequest struct {
	ID        string
	Server    string
	Kind      PendingKind
	Params    map[string]any
	Status    PendingStatus
	Result    map[string]any
	Reason    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type pendingStore struct {
	mu      sync.Mutex
	timeout time.Duration
	items   map[string]*PendingRequest
}

func newPendingStore() pendingStore {
	return pendingStore{
		timeout: DefaultPendingRequestTimeout,
		items:   make(map[string]*PendingRequest),
	}
}

// Enqueue registers a new pending request and returns its generated ID.
func (p *pendingStore) Enqueue(server string, kind PendingKind, params map[string]any) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	p.items[id] = &PendingRequest{
		ID:        id,
		Server:    server,
		Kind:      kind,
		Params:    params,
		Status:    PendingAwaiting,
		CreatedAt: now,
		ExpiresAt: now.Add(p.timeout),
	}
	return id
}

// List returns a snapshot of all pending requests still awaiting resolution.
func (p *pendingStore) List() []PendingRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]PendingRequest, 0, len(p.items))
	for _, req := range p.items {
		if req.Status == PendingAwaiting {
			out = append(out, *req)
		}
	}
	return out
}

// Respond resolves a pending request with a result payload.
func (p *pendingStore) Respond(id string, result map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, ok := p.items[id]
	if !ok {
		return fmt.Errorf("no pending request with id %q", id)
	}
	if req.Status != PendingAwaiting {
		return fmt.Errorf("pending request %q is already %s", id, req.Status)
	}
	req.Status = PendingResolved
	req.Result = result
	return nil
}

// Reject rejects a pending request with a reason.
func (p *pendingStore) Reject(id, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, ok := p.items[id]
	if !ok {
		return fmt.Errorf("no pending request with id %q", id)
	}
	if req.Status != PendingAwaiting {
		return fmt.Errorf("pending request %q is already %s", id, req.Status)
	}
	req.Status = PendingRejected
	req.Reason = reason
	return nil
}

// rejectForServer rejects every awaiting request from the named server,
// per spec.md §4.4 ("on server removal, rejecting that server's pending
// requests with \"Server '<name>' disconnected\"").
func (p *pendingStore) rejectForServer(server string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reason := fmt.Sprintf("Server '%s' disconnected", server)
	for _, req := range p.items {
		if req.Server == server && req.Status == PendingAwaiting {
			req.Status = PendingRejected
			req.Reason = reason
		}
	}
}

// rejectAll rejects every awaiting request with a shutdown reason, per
// spec.md §4.4 ("on registry shutdown, rejecting all pending with
// \"Registry shutting down\"").
func (p *pendingStore) rejectAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, req := range p.items {
		if req.Status == PendingAwaiting {
			req.Status = PendingRejected
			req.Reason = "Registry shutting down"
		}
	}
}

// ListPending exposes the snapshot from the outer Registry.
func (r *Registry) ListPending() []PendingRequest { return r.pending.List() }

// EnqueuePending registers a new pending sampling/elicitation request.
func (r *Registry) EnqueuePending(server string, kind PendingKind, params map[string]any) string {
	return r.pending.Enqueue(server, kind, params)
}

// RespondPending resolves a pending request.
func (r *Registry) RespondPending(id string, result map[string]any) error {
	return r.pending.Respond(id, result)
}

// RejectPending rejects a pending request with a reason.
func (r *Registry) RejectPending(id, reason string) error {
	return r.pending.Reject(id, reason)
}
