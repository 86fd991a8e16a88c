//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
//
// Chatrouille is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/norgance/chatrouille/logger"
)

// rateLimiter computes rate-limit-compliant delays for the query
// endpoint, tracked per remote address. The codec itself has no concept
// of rate limiting (spec.md leaves abuse control to the host); this is
// purely a transport-level courtesy against a client hammering the
// endpoint with malformed packets.
type rateLimiter struct {
	rates []int // [sec, min, hr, day, week]

	mu      sync.Mutex
	clients map[string]*clientHistory
}

type clientHistory struct {
	lock        sync.Mutex
	last, first *rateEntry
	intern      bool
}

type rateEntry struct {
	ts   int64
	prev *rateEntry
}

func newRateEntry() *rateEntry {
	return &rateEntry{ts: time.Now().Unix()}
}

// newRateLimiter builds a limiter from per-second/minute/hour/day/week
// caps; a zero entry disables that window.
func newRateLimiter(rate ...int) *rateLimiter {
	rates := make([]int, 5)
	copy(rates, rate)
	return &rateLimiter{rates: rates, clients: make(map[string]*clientHistory)}
}

func (lim *rateLimiter) historyFor(client string) *clientHistory {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	h, ok := lim.clients[client]
	if !ok {
		h = &clientHistory{}
		lim.clients[client] = h
	}
	return h
}

// pass blocks the calling goroutine until client is compliant with the
// configured rate windows, then records the request.
func (lim *rateLimiter) pass(client string) {
	h := lim.historyFor(client)
	h.lock.Lock()
	h.intern = true
	defer func() {
		h.intern = false
		h.lock.Unlock()
	}()

	stats := lim.stats(h)
	if delay := stats.wait(); delay > 0 {
		logger.Printf(logger.DBG, "[chatrouille] rate limiting %s for %ds\n", client, delay)
		time.Sleep(time.Duration(delay) * time.Second)
	}

	e := newRateEntry()
	e.prev = h.last
	h.last = e
	if h.first == nil {
		h.first = e
	}
}

type rateStats struct {
	ts                               int64
	rSec, rMin, rHr, rDay, rWeek     int
	pSec, pMin, pHr, pDay, pWeek     int
	xHr, xDay, xWeek, xOldest        *rateEntry
}

func (lim *rateLimiter) stats(h *clientHistory) *rateStats {
	stats := &rateStats{
		ts:    time.Now().Unix(),
		rSec:  lim.rates[0],
		rMin:  lim.rates[1],
		rHr:   lim.rates[2],
		rDay:  lim.rates[3],
		rWeek: lim.rates[4],
	}
	var e, next *rateEntry
walk:
	for e, next = h.last, nil; e != nil; next, e = e, e.prev {
		tDiff := stats.ts - e.ts
		switch {
		case tDiff > 3600*24*7:
			// drop this entry and everything older
			if next != nil {
				next.prev = nil
			} else {
				h.last = nil
			}
			h.first = next
			break walk
		case tDiff > 3600*24:
			stats.xOldest = e
			stats.pWeek++
		case tDiff > 3600:
			stats.xWeek = e
			stats.pDay++
		case tDiff > 60:
			stats.xDay = e
			stats.pHr++
		case tDiff > 0:
			stats.xHr = e
			stats.pMin++
		case tDiff == 0:
			stats.pSec++
		}
	}
	stats.pMin += stats.pSec
	stats.pHr += stats.pMin
	stats.pDay += stats.pHr
	stats.pWeek += stats.pDay

	if stats.xHr == nil {
		stats.xHr = h.first
	}
	if stats.xHr == nil {
		// empty history: nothing recorded yet for this client
		stats.xHr = &rateEntry{ts: stats.ts}
	}
	if stats.xDay == nil {
		stats.xDay = stats.xHr
	}
	if stats.xWeek == nil {
		stats.xWeek = stats.xDay
	}
	if stats.xOldest == nil {
		stats.xOldest = stats.xWeek
	}
	return stats
}

func (rs *rateStats) wait() int {
	delay := 0
	eval := func(r, p, d int) {
		if r > 0 && p+1 > r {
			if d < 1 {
				d = 1
			}
			if d > delay {
				delay = d
			}
		}
	}
	eval(rs.rSec, rs.pSec, 1)
	eval(rs.rMin, rs.pMin, 61-int(rs.ts-rs.xHr.ts))
	eval(rs.rHr, rs.pHr, 3601-int(rs.ts-rs.xDay.ts))
	eval(rs.rDay, rs.pDay, 86401-int(rs.ts-rs.xWeek.ts))
	eval(rs.rWeek, rs.pWeek, 604801-int(rs.ts-rs.xOldest.ts))
	return delay
}

// rateLimitMiddleware delays (rather than rejects) requests from a
// single remote address past the configured windows.
func rateLimitMiddleware(lim *rateLimiter, next http.Handler) http.Handler {
	if lim == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim.pass(r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
