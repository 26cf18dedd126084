// Package logoprobe decides whether an externally supplied image URL is
// usable as a QR overlay. A Resolver tracks one mutable reference through
// an Idle/Loading/Valid/Invalid state machine; probes run asynchronously
// and only the probe for the most recent reference may write state.
package logoprobe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mhalong/qrstudio/internal/logger"
)

// State is the resolver's observable position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateValid
	StateInvalid
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateValid:
		return "valid"
	default:
		return "invalid"
	}
}

// Terminal reports whether the state ends a reference's lifecycle.
func (s State) Terminal() bool { return s == StateValid || s == StateInvalid }

// Status couples a state with its user-facing error message, which is only
// set for StateInvalid.
type Status struct {
	State State
	Err   string
}

// The two failure messages are deliberately distinct so callers can tell a
// slow resource from a broken one.
const (
	reasonTimeout  = "logo took too long to load"
	reasonUnusable = "could not load logo, check the URL"
)

// Resolver owns the logo resolution state for a single mutable reference.
type Resolver struct {
	client   *resty.Client
	timeout  time.Duration
	log      *logger.Logger
	onChange func(Status)

	mu     sync.Mutex
	gen    uint64
	status Status
	done   chan struct{}
}

// NewResolver builds a Resolver probing through client with the given
// per-reference timeout.
func NewResolver(client *resty.Client, timeout time.Duration, log *logger.Logger) *Resolver {
	if client == nil {
		client = resty.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{client: client, timeout: timeout, log: log}
}

// OnChange registers a callback invoked after every state transition. Must
// be set before the first Set call.
func (r *Resolver) OnChange(fn func(Status)) { r.onChange = fn }

// Status returns the current status.
func (r *Resolver) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Set replaces the tracked reference. An empty reference resets to Idle,
// clearing any prior error. A non-empty reference enters Loading and starts
// an asynchronous probe; any in-flight probe for an earlier reference is
// superseded and its eventual outcome is discarded.
func (r *Resolver) Set(ctx context.Context, ref string) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	if r.done != nil {
		// Wake waiters of the superseded reference.
		close(r.done)
		r.done = nil
	}

	if strings.TrimSpace(ref) == "" {
		st := Status{State: StateIdle}
		r.status = st
		r.mu.Unlock()
		r.notify(st)
		return
	}

	st := Status{State: StateLoading}
	r.status = st
	r.done = make(chan struct{})
	r.mu.Unlock()
	r.notify(st)

	go r.probe(ctx, gen, ref)
}

// Await blocks until the current reference reaches a terminal state, the
// reference is superseded, or ctx is done, and returns the status at that
// point.
func (r *Resolver) Await(ctx context.Context) Status {
	r.mu.Lock()
	st, ch := r.status, r.done
	r.mu.Unlock()
	if st.State != StateLoading || ch == nil {
		return st
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return r.Status()
}

func (r *Resolver) probe(ctx context.Context, gen uint64, ref string) {
	probeID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := Fetch(ctx, r.client, ref)
	switch {
	case err == nil:
		r.resolve(gen, Status{State: StateValid})
	case errors.Is(err, ErrTimeout):
		r.log.Debug().Str("probe_id", probeID).Str("ref", ref).
			Msg("logo probe timed out")
		r.resolve(gen, Status{State: StateInvalid, Err: reasonTimeout})
	default:
		r.log.Debug().Str("probe_id", probeID).Str("ref", ref).Err(err).
			Msg("logo probe failed")
		r.resolve(gen, Status{State: StateInvalid, Err: reasonUnusable})
	}
}

// resolve writes a terminal status only if gen is still the live
// generation; a stale probe is a silent no-op.
func (r *Resolver) resolve(gen uint64, st Status) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.status = st
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	r.mu.Unlock()
	r.notify(st)
}

func (r *Resolver) notify(st Status) {
	if r.onChange != nil {
		r.onChange(st)
	}
}
