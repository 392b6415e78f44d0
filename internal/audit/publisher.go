package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

// Publisher enriches events from the request context and hands them to the
// sink. Synchronous by default; WithAsyncBuffer moves sink writes onto a
// background worker so request latency never pays for a slow sink.
//
// Audit emission never fails the business operation: sink errors are logged
// and dropped.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	inbox chan Event
	done  chan struct{}
	wg    sync.WaitGroup
}

type Option func(*Publisher)

// WithAsyncBuffer enables background publishing with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(sink Sink, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: logger,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event, stamping timestamp and request metadata from ctx
// when not already set.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.DeviceOS == "" {
		event.DeviceOS = requestcontext.DeviceOS(ctx)
	}

	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action, "record_id", event.RecordID)
		}
		return
	}
	p.append(ctx, event)
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			p.append(context.Background(), event)
		case <-p.done:
			// Drain whatever is still buffered before exiting.
			for {
				select {
				case event := <-p.inbox:
					p.append(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) append(ctx context.Context, event Event) {
	if err := p.sink.Append(ctx, event); err != nil {
		p.logger.Error("failed to append audit event",
			"action", event.Action,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

// Close drains the async buffer. Safe to call on a synchronous publisher.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	close(p.done)
	p.wg.Wait()
}
