// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/api"
	"github.com/ClusterCockpit/cc-state-store/internal/config"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/ClusterCockpit/cc-state-store/internal/metrics"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

var (
	router *mux.Router
	server *http.Server
)

func serverInit(store *datastore.Datastore) {
	router = mux.NewRouter()

	restAPI := api.New(store)
	restAPI.MountRoutes(router)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.Use(handlers.CompressHandler)
	router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))
	router.Use(handlers.CORS(
		handlers.AllowCredentials(),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization", "Origin"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"}),
		handlers.AllowedOrigins([]string{"*"})))
}

func serverStart() {
	handler := handlers.CustomLoggingHandler(io.Discard, router, func(_ io.Writer, params handlers.LogFormatterParams) {
		if strings.HasPrefix(params.Request.RequestURI, "/api/") {
			cclog.Debugf("%s %s (%d, %.02fkb, %dms)",
				params.Request.Method, params.URL.RequestURI(),
				params.StatusCode, float32(params.Size)/1024,
				time.Since(params.TimeStamp).Milliseconds())
		}
	})

	server = &http.Server{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		Handler:      handler,
		Addr:         config.Keys.Addr,
	}

	listener, err := net.Listen("tcp", config.Keys.Addr)
	if err != nil {
		cclog.Abortf("Server Start: Starting http listener on '%s' failed.\nError: %s\n", config.Keys.Addr, err.Error())
	}

	cclog.Printf("HTTP server listening at %s...", config.Keys.Addr)

	if err = server.Serve(listener); err != nil && err != http.ErrServerClosed {
		cclog.Abortf("Server Start: Starting server failed.\nError: %s\n", err.Error())
	}
}

func serverShutdown() {
	// Gracefully: wait for all ongoing requests before tearing down the
	// store behind them.
	server.Shutdown(context.Background())
}
