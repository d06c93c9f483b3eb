// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
	"github.com/gorilla/mux"
)

// statusFor maps the store's error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, nestedmap.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, datastore.ErrStoreClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getState godoc
// @summary     Read the newest version at a key
// @tags        state
// @description Returns the newest version stored at the exact dot-delimited key.
// @produce     json
// @param       key path string true "dot-delimited key"
// @success     200 {object} api.GetResponse "Item found"
// @failure     400 {object} api.ErrorResponse "Bad Request"
// @failure     404 {object} api.ErrorResponse "No item at this key"
// @failure     503 {object} api.ErrorResponse "Store is shutting down"
// @router      /state/{key} [get]
func (api *RestApi) getState(rw http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	item, found, err := api.Store.Get(r.Context(), key)
	if err != nil {
		handleError(err, statusFor(err), rw)
		return
	}
	if !found {
		handleError(fmt.Errorf("no item found for key '%s'", key), http.StatusNotFound, rw)
		return
	}

	respond(rw, GetResponse{Item: &Item{Key: item.Key, Value: item.Value}})
}

// setState godoc
// @summary     Write a new version at a key
// @tags        state
// @description Stores the request body's value at the key. Options select history preservation and a TTL in seconds.
// @accept      json
// @produce     json
// @param       key     path string         true "dot-delimited key"
// @param       request body api.SetRequest true "value and options"
// @success     200 {object} api.SetResponse "Write accepted"
// @failure     400 {object} api.ErrorResponse "Bad Request"
// @failure     503 {object} api.ErrorResponse "Store is shutting down"
// @router      /state/{key} [post]
func (api *RestApi) setState(rw http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req SetRequest
	if err := decode(r.Body, &req); err != nil {
		handleError(fmt.Errorf("parsing request body failed: %w", err), http.StatusBadRequest, rw)
		return
	}

	opts := nestedmap.SetOptions{}
	if req.Options != nil {
		opts.PreserveHistory = req.Options.PreserveHistory
		if req.Options.TTL > 0 {
			opts.TTL = time.Duration(req.Options.TTL) * time.Second
		}
	}

	id, err := api.Store.Set(r.Context(), key, req.Value, opts)
	if err != nil {
		handleError(err, statusFor(err), rw)
		return
	}

	respond(rw, SetResponse{Success: true, ID: id})
}

// queryState godoc
// @summary     Query by pattern
// @tags        state
// @description Returns all items matched by the pattern. '*' matches one segment, a final '>' collects every leaf below.
// @produce     json
// @param       pattern       path  string true  "pattern"
// @param       history-count query int    false "newest versions returned per matched leaf (default 1)"
// @success     200 {object} api.QueryResponse "Matched items"
// @failure     400 {object} api.ErrorResponse "Bad Request"
// @failure     404 {object} api.ErrorResponse "Nothing matched"
// @failure     503 {object} api.ErrorResponse "Store is shutting down"
// @router      /query/{pattern} [get]
func (api *RestApi) queryState(rw http.ResponseWriter, r *http.Request) {
	pattern := mux.Vars(r)["pattern"]

	opts := nestedmap.GetOptions{HistoryCount: 1}
	if raw := r.URL.Query().Get("history-count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			handleError(fmt.Errorf("parsing history-count failed: %w", err), http.StatusBadRequest, rw)
			return
		}
		if count > 0 {
			opts.HistoryCount = count
		}
	}

	items, err := api.Store.Query(r.Context(), pattern, opts)
	if err != nil {
		handleError(err, statusFor(err), rw)
		return
	}
	if len(items) == 0 {
		handleError(fmt.Errorf("no items found for pattern '%s'", pattern), http.StatusNotFound, rw)
		return
	}

	resp := QueryResponse{Items: make([]Item, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, Item{Key: item.Key, Value: item.Value})
	}

	respond(rw, resp)
}

// deleteState godoc
// @summary     Delete a subtree
// @tags        state
// @description Removes the node at the key together with everything below it.
// @produce     json
// @param       key path string true "dot-delimited key"
// @success     200 {object} api.DeleteResponse "Subtree removed"
// @failure     400 {object} api.ErrorResponse "Bad Request"
// @failure     404 {object} api.ErrorResponse "No node at this key"
// @failure     503 {object} api.ErrorResponse "Store is shutting down"
// @router      /state/{key} [delete]
func (api *RestApi) deleteState(rw http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	deleted, err := api.Store.Delete(r.Context(), key)
	if err != nil {
		handleError(err, statusFor(err), rw)
		return
	}
	if !deleted {
		handleError(fmt.Errorf("no node found for key '%s'", key), http.StatusNotFound, rw)
		return
	}

	respond(rw, DeleteResponse{Deleted: true})
}

// deleteStateAtIndex godoc
// @summary     Delete one version from a key's history
// @tags        state
// @description Removes the index-th newest version at the key. Index 0 is the newest version.
// @produce     json
// @param       key   path string true "dot-delimited key"
// @param       index path int    true "history position"
// @success     200 {object} api.DeleteResponse "Version removed"
// @failure     400 {object} api.ErrorResponse "Bad Request"
// @failure     404 {object} api.ErrorResponse "No such version"
// @failure     503 {object} api.ErrorResponse "Store is shutting down"
// @router      /state/{key}/index/{index} [delete]
func (api *RestApi) deleteStateAtIndex(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]

	index, err := strconv.Atoi(vars["index"])
	if err != nil || index < 0 {
		handleError(fmt.Errorf("invalid history index '%s'", vars["index"]), http.StatusBadRequest, rw)
		return
	}

	deleted, err := api.Store.DeleteAtIndex(r.Context(), key, index)
	if err != nil {
		handleError(err, statusFor(err), rw)
		return
	}
	if !deleted {
		handleError(fmt.Errorf("no version at index %d for key '%s'", index, key), http.StatusNotFound, rw)
		return
	}

	respond(rw, DeleteResponse{Deleted: true})
}

// healthCheck godoc
// @summary     Liveness probe
// @tags        health
// @produce     plain
// @success     200 {string} string "ok"
// @router      /healthcheck/ [get]
func (api *RestApi) healthCheck(rw http.ResponseWriter, r *http.Request) {
	// The round-trip proves the event loop is draining commands.
	if _, _, err := api.Store.Get(r.Context(), "healthcheck"); err != nil && !errors.Is(err, nestedmap.ErrInvalidKey) {
		handleError(err, statusFor(err), rw)
		return
	}

	rw.WriteHeader(http.StatusOK)
	fmt.Fprintln(rw, "ok")
}
