// ABOUTME: Fire-and-forget analytics emitter gated on installation identity
// ABOUTME: Sends JSON payloads over HTTP and discards every delivery failure

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/2389/admin-shell/internal/identity"
)

// DefaultEndpoint is the analytics collector URL.
const DefaultEndpoint = "https://analytics.strapi.io/track"

// DefaultTimeout bounds a single send.
const DefaultTimeout = 5 * time.Second

// EventAccessedAdministration is emitted once per successful sign-in.
const EventAccessedAdministration = "didAccessAuthenticatedAdministration"

// Properties are the free-form attributes of an event.
type Properties map[string]any

// Payload is the JSON body sent to the analytics endpoint.
type Payload struct {
	Event      string     `json:"event"`
	Properties Properties `json:"properties"`
	UUID       string     `json:"uuid"`
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures an Emitter.
type Options struct {
	Endpoint    string
	ProjectType string
	Timeout     time.Duration
	Client      Doer
}

// Emitter sends analytics events in the background.
type Emitter struct {
	identity    identity.Identity
	endpoint    string
	projectType string
	timeout     time.Duration
	client      Doer
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewEmitter creates an Emitter for the given installation identity.
func NewEmitter(id identity.Identity, opts Options) *Emitter {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &Emitter{
		identity:    id,
		endpoint:    opts.Endpoint,
		projectType: opts.ProjectType,
		timeout:     opts.Timeout,
		client:      opts.Client,
		logger:      slog.Default().With("component", "telemetry"),
	}
}

// Enabled reports whether Emit will attempt a send.
func (e *Emitter) Enabled() bool {
	return e != nil && e.identity.Enabled()
}

// Emit schedules the event for delivery and returns immediately.
// Delivery failures are intentionally discarded.
func (e *Emitter) Emit(event string, props Properties) {
	if !e.Enabled() {
		return
	}

	body, err := json.Marshal(e.payload(event, props))
	if err != nil {
		e.logger.Debug("dropping unencodable event", "event", event, "error", err)
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Debug("telemetry send panicked", "event", event, "panic", r)
			}
		}()
		e.send(event, body)
	}()
}

// Wait blocks until all in-flight sends have completed.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}

func (e *Emitter) payload(event string, props Properties) Payload {
	merged := make(Properties, len(props)+1)
	maps.Copy(merged, props)
	merged["projectType"] = e.projectType

	return Payload{
		Event:      event,
		Properties: merged,
		UUID:       e.identity.UUID,
	}
}

func (e *Emitter) send(event string, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		e.logger.Debug("building telemetry request", "event", event, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("telemetry send failed", "event", event, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("telemetry endpoint rejected event", "event", event, "status", resp.StatusCode)
	}
}
