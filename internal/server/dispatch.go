//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package server

import (
	"context"
	"time"

	"github.com/norgance/chatrouille/chatrouille"
	"github.com/norgance/chatrouille/concurrent"
	"github.com/norgance/chatrouille/logger"
)

// job is a single inbound query packet waiting to be unpacked, handed to
// the (out-of-scope) application, and turned into a response packet. It
// carries its own reply channel because concurrent.Dispatcher fans results
// back through a single aggregation point (Eval), not point-to-point — a
// per-job channel is how a request/response host gets its answer back to
// the right HTTP handler goroutine.
type job struct {
	packet  []byte
	replyCh chan jobOutcome
}

// jobOutcome is what a worker hands back to the HTTP handler that
// submitted the job.
type jobOutcome struct {
	response []byte
	status   int
	err      error
}

// workPool adapts gospel's generic worker dispatcher (concurrent.Dispatcher)
// to Chatrouille's codec: each worker pulls a job, unpacks it with the
// host's server secret, calls the application handler on the decrypted
// payload, packs the reply, and answers on the job's own channel.
type workPool struct {
	host *Host
	m    *metrics
}

// Worker implements concurrent.Dispatchable.
func (p *workPool) Worker(ctx context.Context, n int, taskCh chan job, resCh chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-taskCh:
			if !ok {
				return
			}
			j.replyCh <- p.handle(j.packet)
			select {
			case resCh <- struct{}{}:
			case <-ctx.Done():
			}
		}
	}
}

// Eval implements concurrent.Dispatchable. The pool never self-terminates
// on a result; it only stops when its context is cancelled.
func (p *workPool) Eval(struct{}) bool {
	return false
}

func (p *workPool) handle(packet []byte) jobOutcome {
	unpacked, err := chatrouille.UnpackQuery(packet, p.host.serverSecret)
	if err != nil {
		status := statusForError(err)
		p.m.unpackErrors.WithLabelValues(errorKind(err)).Inc()
		logger.Printf(logger.WARN, "[chatrouille] unpack failed: %v\n", err)
		return jobOutcome{status: status, err: err}
	}
	p.m.packetsUnpacked.WithLabelValues(unpacked.Mode.String()).Inc()

	if unpacked.Mode == chatrouille.ModeSignedQuery && p.host.signatureVerifier != nil {
		if err := p.host.signatureVerifier(unpacked.Payload, unpacked.Signature); err != nil {
			p.m.unpackErrors.WithLabelValues(errorKind(err)).Inc()
			logger.Printf(logger.WARN, "[chatrouille] signature verification failed: %v\n", err)
			return jobOutcome{status: statusForError(err), err: err}
		}
	}

	responsePayload := p.host.handler(unpacked.Payload)

	start := time.Now()
	response, err := chatrouille.PackResponse(responsePayload, unpacked.Shared)
	p.m.packLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Printf(logger.ERROR, "[chatrouille] pack response failed: %v\n", err)
		return jobOutcome{status: 500, err: err}
	}
	return jobOutcome{response: response, status: 200}
}

// newWorkPool starts a bounded dispatcher of size workers processing jobs
// for host until ctx is cancelled.
func newWorkPool(ctx context.Context, host *Host, m *metrics, workers int) (*concurrent.Dispatcher[job, struct{}], *workPool) {
	pool := &workPool{host: host, m: m}
	return concurrent.NewDispatcher[job, struct{}](ctx, workers, pool), pool
}
