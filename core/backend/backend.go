// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/kisii/core/gateway"
	"github.com/relabs-tech/kisii/core/logger"
)

// Gateway is the table gateway the backend serves. It is satisfied by *gateway.Gateway.
type Gateway interface {
	List(ctx context.Context, table gateway.Table) ([]gateway.Record, error)
	Create(ctx context.Context, table gateway.Table, fields map[string]interface{}) (gateway.Record, error)
	Update(ctx context.Context, table gateway.Table, id string, fields map[string]interface{}) (gateway.Record, error)
	Authenticate(ctx context.Context, email, password string) (*gateway.Record, error)
}

// Backend is the REST backend of the school application
type Backend struct {
	gateway   Gateway
	router    *mux.Router
	accessLog io.Writer
}

// Builder is a builder helper for the Backend
type Builder struct {
	// Gateway is the table gateway. This is mandatory.
	Gateway Gateway
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// AccessLog receives one line per request in Apache combined log format. This is optional.
	AccessLog io.Writer
}

// New realizes the actual backend and adds all routes to the router
func New(bb *Builder) *Backend {
	if bb.Gateway == nil {
		panic("Gateway is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}

	b := &Backend{
		gateway:   bb.Gateway,
		router:    bb.Router,
		accessLog: bb.AccessLog,
	}

	logger.AddRequestID(b.router)
	b.handleRoot(b.router)
	b.handleVersion(b.router)
	b.handleRoutes(b.router)
	b.handleLogin(b.router)
	return b
}

// Router returns the mux router with all routes of the backend
func (b *Backend) Router() *mux.Router {
	return b.router
}

// Handler returns the router wrapped into the outer middleware: panic recovery,
// access log, CORS and compression.
func (b *Backend) Handler() http.Handler {
	var h http.Handler = handlers.CompressHandler(b.router)
	h = b.handleCORS(h)
	if b.accessLog != nil {
		h = handlers.CombinedLoggingHandler(b.accessLog, h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.Default()),
		handlers.PrintRecoveryStack(true),
	)(h)
}

func (b *Backend) handleRoot(router *mux.Router) {
	logger.Default().Debugln("  handle root route: / GET")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{
			"message": "Kisii School Backend API",
			"status":  "running",
		})
	}).Methods(http.MethodGet)
}
