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

// Package server is the HTTP transport host for the Chatrouille codec.
// It is explicitly the "external collaborator" spec.md §1 places out of
// the codec's scope: it exists so the codec has a runnable harness, not
// as part of the wire-format's compatibility contract.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/gorilla/mux"
	"github.com/norgance/chatrouille/chatrouille"
	"github.com/norgance/chatrouille/concurrent"
	"github.com/norgance/chatrouille/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = 4 << 10 // ~4 KiB, per spec.md §5 size limits.

// PayloadHandler processes an opaque, already-decrypted application
// payload and returns the opaque plaintext to seal into the response.
// The application semantics it implements (citizen id, expiration,
// embedded request document) are out of scope for this repository; a
// real host wires in its own implementation here.
type PayloadHandler func(payload []byte) []byte

// SignatureVerifier is handed the decrypted payload (so it can recover a
// claimed client identifier) and the signature handle of a SignedQuery,
// and decides whether the query is authorized.
type SignatureVerifier func(payload []byte, sig *chatrouille.SignatureHandle) error

// Host wires the Chatrouille codec to an HTTP transport.
type Host struct {
	serverSecret chatrouille.ServerSecret
	serverPublic chatrouille.ServerPublic
	signingKey   ed25519.PrivateKey // signs the published server public key

	handler           PayloadHandler
	signatureVerifier SignatureVerifier

	metrics    *metrics
	registry   *prometheus.Registry
	dispatcher *concurrent.Dispatcher[job, struct{}]
	limiter    *rateLimiter
}

// NewHost builds a Host around a server X448 secret and an Ed25519 key
// used only to sign the server's published public key (spec.md §6); the
// codec itself never touches the Ed25519 secret for that purpose.
func NewHost(ctx context.Context, cfg Config, secret chatrouille.ServerSecret, signingKey ed25519.PrivateKey, handler PayloadHandler, verifier SignatureVerifier) *Host {
	reg := prometheus.NewRegistry()
	h := &Host{
		serverSecret:      secret,
		serverPublic:      chatrouille.PublicOf(secret),
		signingKey:        signingKey,
		handler:           handler,
		signatureVerifier: verifier,
		metrics:           newMetrics(reg),
		registry:          reg,
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	h.dispatcher, _ = newWorkPool(ctx, h, h.metrics, workers)
	if len(cfg.RateLimit) > 0 {
		h.limiter = newRateLimiter(cfg.RateLimit...)
	}
	return h
}

// Router assembles the gorilla/mux router exposing the three endpoints
// described in SPEC_FULL.md §6.
func (h *Host) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/chatrouille/query", rateLimitMiddleware(h.limiter, http.HandlerFunc(h.handleQuery))).Methods(http.MethodPost)
	r.HandleFunc("/chatrouille/server-key", h.handleServerKey).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func (h *Host) handleQuery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		http.Error(w, "unable to read request body", http.StatusInternalServerError)
		return
	}
	if len(body) > maxRequestBody {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	replyCh := make(chan jobOutcome, 1)
	if !h.dispatcher.Process(job{packet: body, replyCh: replyCh}) {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	select {
	case outcome := <-replyCh:
		if outcome.err != nil {
			http.Error(w, outcome.err.Error(), outcome.status)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(outcome.response)
	case <-time.After(30 * time.Second):
		http.Error(w, "timed out", http.StatusGatewayTimeout)
	}
}

// serverKeyResponse is the published-key body, base64 per spec.md §6.
type serverKeyResponse struct {
	X448PublicKeyBase64    string `json:"x448_public_key_base64"`
	Ed25519SignatureBase64 string `json:"ed25519_signature_base64"`
}

func (h *Host) handleServerKey(w http.ResponseWriter, r *http.Request) {
	pub := h.serverPublic
	sig := ed25519.Sign(h.signingKey, pub[:])
	resp := serverKeyResponse{
		X448PublicKeyBase64:    base64.RawStdEncoding.EncodeToString(pub[:]),
		Ed25519SignatureBase64: base64.RawStdEncoding.EncodeToString(sig),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Printf(logger.ERROR, "[chatrouille] writing json response: %v\n", err)
	}
}
