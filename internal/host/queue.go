package host

import "context"

// Command is one unit of work for the host's event loop.
type Command func(*Host)

// Queue feeds commands to a single goroutine so scene, save and pickup
// events reach the booster one at a time, as they do in the game.
type Queue struct {
	ch chan Command
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 16
	}
	return &Queue{ch: make(chan Command, size)}
}

// Enqueue reports false when the queue is saturated and cmd was dropped.
func (q *Queue) Enqueue(cmd Command) bool {
	if q == nil || cmd == nil {
		return false
	}
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

func (q *Queue) Dequeue() (Command, bool) {
	if q == nil {
		return nil, false
	}
	select {
	case cmd := <-q.ch:
		return cmd, true
	default:
		return nil, false
	}
}

// Run executes commands against h until ctx is done.
func (q *Queue) Run(ctx context.Context, h *Host) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-q.ch:
			cmd(h)
		}
	}
}
