// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/metrics"
	"github.com/netrika/netrika/internal/workflow"
)

// Compile-time check: *EventWorker must satisfy workflow.EventSink.
var _ workflow.EventSink = (*EventWorker)(nil)

// Broadcaster delivers a feed event to connected WebSocket clients.
type Broadcaster interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// feedJob is one moderation event queued for broadcast.
type feedJob struct {
	eventType string
	data      json.RawMessage
}

// EventWorker buffers moderation events and broadcasts them via a single
// worker goroutine, keeping slow feed delivery off the request path.
type EventWorker struct {
	broadcaster Broadcaster
	log         *logrus.Logger
	jobs        chan feedJob
}

// NewEventWorker creates an EventWorker with the given queue capacity.
func NewEventWorker(broadcaster Broadcaster, log *logrus.Logger, queueSize int) *EventWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &EventWorker{
		broadcaster: broadcaster,
		log:         log,
		jobs:        make(chan feedJob, queueSize),
	}
}

// Publish queues a moderation event for broadcast. Non-blocking; drops the
// event if the queue is full.
func (w *EventWorker) Publish(eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		w.log.WithError(err).WithField("event_type", eventType).Warn("failed to marshal feed event")
		return
	}

	select {
	case w.jobs <- feedJob{eventType: eventType, data: raw}:
		metrics.EventQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("event_type", eventType).Warn("event queue full, dropping event")
	}
}

// Run processes feed events until the context is cancelled, then drains the
// remaining queue.
func (w *EventWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *EventWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *EventWorker) process(job feedJob) {
	w.broadcaster.BroadcastEvent(job.eventType, job.data)
	metrics.EventQueueDepth.Set(float64(len(w.jobs)))
}

// QueueDepth returns the number of events waiting for broadcast.
func (w *EventWorker) QueueDepth() int {
	return len(w.jobs)
}
