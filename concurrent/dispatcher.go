//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package concurrent provides a small generic, bounded worker pool used
// to schedule CPU-bound codec work (AEAD seal/open, compression,
// signature verification) across a fixed number of goroutines instead of
// spawning one per inbound request.
package concurrent

import (
	"context"
	"sync"
	"sync/atomic"
)

// Dispatchable is implemented by whatever a Dispatcher fans work out to.
type Dispatchable[T, R any] interface {

	// Worker pulls tasks from taskCh and pushes results onto resCh until
	// ctx is done.
	Worker(ctx context.Context, n int, taskCh chan T, resCh chan R)

	// Eval inspects one worker result and reports whether the dispatcher
	// should stop (true) or keep running.
	Eval(result R) bool
}

// Dispatcher runs a fixed pool of worker goroutines behind a task queue.
type Dispatcher[T, R any] struct {
	taskCh  chan T
	resCh   chan R
	ctrl    chan int
	running atomic.Bool
}

// NewDispatcher starts numWorker goroutines driven by disp and returns
// once they're running. The pool stops when ctx is cancelled, Quit is
// called, or disp.Eval returns true for a result.
func NewDispatcher[T, R any](ctx context.Context, numWorker int, disp Dispatchable[T, R]) *Dispatcher[T, R] {
	d := new(Dispatcher[T, R])
	d.taskCh = make(chan T)
	d.resCh = make(chan R)
	d.ctrl = make(chan int)

	// start worker go-routines
	wg := new(sync.WaitGroup)
	for n := 0; n < numWorker; n++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			disp.Worker(ctx, num, d.taskCh, d.resCh)
		}(n)
	}

	// run dispatcher loop
	d.running.Store(true)
	go func() {
		// clean-up on exit
		defer func() {
			d.running.Store(false)
			wg.Wait()
			close(d.taskCh)
			close(d.resCh)
		}()

		ctxD, cancel := context.WithCancel(ctx)
		for {
			select {
			// handle termination
			case <-ctxD.Done():
				cancel()
				return
			case <-d.ctrl:
				cancel()
				return

			// handle result
			case x := <-d.resCh:
				if disp.Eval(x) {
					cancel()
					return
				}
			}
		}
	}()
	return d
}

// Process a task. Returns false if the dispatcher is closed.
func (d *Dispatcher[T, R]) Process(task T) bool {
	if !d.running.Load() {
		return false
	}
	d.taskCh <- task
	return true
}

// Quit dispatcher run
func (d *Dispatcher[T, R]) Quit() {
	d.ctrl <- 0
}
