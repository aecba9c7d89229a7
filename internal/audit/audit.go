// Package audit emits structured security audit events. Emission is
// best-effort and fire-and-forget: a slow or unavailable sink never blocks or
// fails the request that produced the event.
package audit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tidescale/crmhub/internal/log"
)

// Kind classifies an audit event.
type Kind string

const (
	// KindDecisionDenied records an authorization deny.
	KindDecisionDenied Kind = "authz_denied"
	// KindAuthorizerFault records an internal authorizer error that was
	// converted into a fail-closed response.
	KindAuthorizerFault Kind = "authz_fault"
)

// Event is one security audit record.
type Event struct {
	Time      time.Time
	Kind      Kind
	Principal string
	Role      string
	TenantID  string
	Resource  string
	Action    string
	Reason    string
	RequestID string
}

// Sink records audit events.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// LogSink writes audit events to the structured log.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Record(ctx context.Context, event Event) {
	log.Warn(ctx, "[AUDIT] "+string(event.Kind),
		log.String("principal", event.Principal),
		log.String("role", event.Role),
		log.String("tenant_id", event.TenantID),
		log.String("resource", event.Resource),
		log.String("action", event.Action),
		log.String("reason", event.Reason),
		log.String("audit_request_id", event.RequestID),
	)
}

// RedisSink publishes audit events to a Redis stream for external collection.
type RedisSink struct {
	client  redis.UniversalClient
	stream  string
	timeout time.Duration
}

// NewRedisSink returns a sink appending to the given stream.
func NewRedisSink(client redis.UniversalClient, stream string) *RedisSink {
	if stream == "" {
		stream = "crmhub:audit"
	}

	return &RedisSink{
		client:  client,
		stream:  stream,
		timeout: 2 * time.Second,
	}
}

// Record appends the event asynchronously. Publish failures are logged and
// otherwise ignored; the request path never observes them.
func (s *RedisSink) Record(ctx context.Context, event Event) {
	// Detach from the request lifecycle so a finished request does not cancel
	// the publish, then bound it so a dead Redis cannot leak goroutines.
	detached := context.WithoutCancel(ctx)

	go func() {
		publishCtx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if err := s.publish(publishCtx, event); err != nil {
			log.Debug(detached, "audit: redis publish failed", log.Cause(err))
		}
	}()
}

func (s *RedisSink) publish(ctx context.Context, event Event) error {
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"time":       event.Time.UTC().Format(time.RFC3339Nano),
			"kind":       string(event.Kind),
			"principal":  event.Principal,
			"role":       event.Role,
			"tenant_id":  event.TenantID,
			"resource":   event.Resource,
			"action":     event.Action,
			"reason":     event.Reason,
			"request_id": event.RequestID,
		},
	}).Err()
}

// Sinks fans out to multiple sinks.
type Sinks []Sink

func (s Sinks) Record(ctx context.Context, event Event) {
	for _, sink := range s {
		sink.Record(ctx, event)
	}
}
