package blinkmenu

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

// DefaultQueueCapacity is the number of presses that may be pending before new ones are dropped.
const DefaultQueueCapacity = 10

// ErrQueueFull is logged when a press is dropped because the consumer fell behind.
var ErrQueueFull = errors.New("event queue full")

// EventQueue carries button presses from interrupt handlers to the single consumer task.
type EventQueue struct {
	ch      chan ButtonID
	dropped atomic.Uint32
}

func NewEventQueue(capacity int) (*EventQueue, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "queue capacity %d", capacity)
	}
	return &EventQueue{ch: make(chan ButtonID, capacity)}, nil
}

// Push enqueues id without blocking. It returns false and counts a drop if the queue is full.
func (q *EventQueue) Push(id ButtonID) bool {
	select {
	case q.ch <- id:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Pop waits for the next press. It returns false if ctx is done first; pass context.Background to wait forever.
func (q *EventQueue) Pop(ctx context.Context) (ButtonID, bool) {
	select {
	case id := <-q.ch:
		return id, true
	case <-ctx.Done():
		return 0, false
	}
}

func (q *EventQueue) Len() int { return len(q.ch) }

func (q *EventQueue) Cap() int { return cap(q.ch) }

// Dropped returns how many pushes have failed because the queue was full.
func (q *EventQueue) Dropped() uint32 { return q.dropped.Load() }
