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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsWorkConfined(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	assert.False(t, IsConfined(context.Background()))
	err := d.Submit(context.Background(), func(ctx context.Context) error {
		assert.True(t, IsConfined(ctx))
		return nil
	})
	require.NoError(t, err)
}

func TestDispatcher_ReturnsWorkError(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	boom := errors.New("boom")
	err := d.Submit(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_PanicBecomesError(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	err := d.Submit(context.Background(), func(context.Context) error { panic("bad check") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad check")

	require.NoError(t, d.Submit(context.Background(), func(context.Context) error { return nil }),
		"worker survives a panic")
}

func TestDispatcher_MutualExclusion(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var inFlight, maxInFlight int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Submit(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&maxInFlight)
					if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
						break
					}
				}
				time.Sleep(100 * time.Microsecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInFlight)
}

func TestDispatcher_FIFO(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = d.Submit(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = d.Submit(context.Background(), func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}(i)
		require.Eventually(t, func() bool { return d.QueueDepth() == i+1 }, time.Second, time.Millisecond)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatcher_IgnoresCallerCancellation(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := d.Submit(ctx, func(ctx context.Context) error {
		ran = true
		return ctx.Err()
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestDispatcher_NestedSubmitRunsInline(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	inner := false
	err := d.Submit(context.Background(), func(ctx context.Context) error {
		return d.Submit(ctx, func(ctx context.Context) error {
			inner = IsConfined(ctx)
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, inner)
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	d := NewDispatcher()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = d.Submit(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var ran atomic.Bool
	queued := make(chan error, 1)
	go func() {
		queued <- d.Submit(context.Background(), func(context.Context) error {
			ran.Store(true)
			return nil
		})
	}()
	require.Eventually(t, func() bool { return d.QueueDepth() == 1 }, time.Second, time.Millisecond)

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	close(release)
	<-closed

	require.NoError(t, <-queued)
	assert.True(t, ran.Load())
	assert.ErrorIs(t, d.Submit(context.Background(), func(context.Context) error { return nil }), ErrDispatcherClosed)
}
