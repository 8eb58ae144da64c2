// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package inspection

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatcherQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "inspect_dispatcher_queue_depth",
	Help: "Units of work waiting for the single-writer dispatcher",
})

// confinedKey marks contexts handed to work running on a dispatcher.
type confinedKey struct{}

// IsConfined reports whether ctx belongs to work running on a dispatcher
// worker.
func IsConfined(ctx context.Context) bool {
	_, ok := ctx.Value(confinedKey{}).(*Dispatcher)
	return ok
}

// Owns reports whether ctx belongs to work running on this dispatcher.
func (d *Dispatcher) Owns(ctx context.Context) bool {
	owner, ok := ctx.Value(confinedKey{}).(*Dispatcher)
	return ok && owner == d
}

type task struct {
	ctx      context.Context
	fn       func(ctx context.Context) error
	err      error
	queuedAt time.Time
	done     chan struct{}
}

// Dispatcher runs submitted work one unit at a time on a single goroutine
// locked to one OS thread.
//
// Description:
//
//	Submissions form an unbounded FIFO queue. A unit always runs to
//	completion: the caller's cancellation is not propagated to it and
//	there is no timeout or priority. Close stops intake, drains what is
//	already queued and waits for the worker to exit.
//
// Thread Safety: Submit and Close are safe for concurrent use.
type Dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*task
	closed bool
	exited chan struct{}
}

// NewDispatcher starts the worker.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{exited: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Submit enqueues fn and blocks until it has run.
//
// Description:
//
//	fn receives a context that carries the caller's values (trace spans,
//	request ids) but not its cancellation, and that is marked as confined.
//	A Submit from inside running work executes fn inline, since queueing
//	behind itself would deadlock.
//
// Outputs:
//
//	error - fn's error, or ErrDispatcherClosed if Close was called first.
func (d *Dispatcher) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.Owns(ctx) {
		return fn(ctx)
	}

	t := &task{ctx: ctx, fn: fn, queuedAt: time.Now(), done: make(chan struct{})}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.queue = append(d.queue, t)
	dispatcherQueueDepth.Set(float64(len(d.queue)))
	d.cond.Signal()
	d.mu.Unlock()

	<-t.done
	return t.err
}

// Close stops intake and waits until queued work has drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.exited
}

// QueueDepth returns the number of units waiting to run.
func (d *Dispatcher) QueueDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Dispatcher) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.exited)

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		t := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		dispatcherQueueDepth.Set(float64(len(d.queue)))
		d.mu.Unlock()

		d.execute(t)
	}
}

func (d *Dispatcher) execute(t *task) {
	ctx := context.WithValue(context.WithoutCancel(t.ctx), confinedKey{}, d)
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("dispatched work panicked: %v", r)
		}
		recordDispatchMetrics(ctx, started.Sub(t.queuedAt), time.Since(started))
		close(t.done)
	}()
	t.err = t.fn(ctx)
}
