// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package api exposes the state store over a JSON REST surface and ingests
// telemetry published via NATS.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/gorilla/mux"
)

// @title                      cc-state-store REST API
// @version                    1.0.0
// @description                API for the hierarchical state store

// @contact.name               ClusterCockpit Project
// @contact.url                https://clustercockpit.org
// @contact.email              support@clustercockpit.org

// @license.name               MIT License
// @license.url                https://opensource.org/licenses/MIT

// @host                       localhost:7777
// @basePath                   /api/

// RestApi bundles the handlers around the one store instance.
type RestApi struct {
	Store *datastore.Datastore
}

func New(store *datastore.Datastore) *RestApi {
	return &RestApi{Store: store}
}

// MountRoutes attaches all state endpoints below /api.
func (api *RestApi) MountRoutes(r *mux.Router) {
	r = r.PathPrefix("/api").Subrouter()

	r.HandleFunc("/state/{key}", api.getState).Methods(http.MethodGet)
	r.HandleFunc("/state/{key}", api.setState).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/state/{key}", api.deleteState).Methods(http.MethodDelete)
	r.HandleFunc("/state/{key}/index/{index}", api.deleteStateAtIndex).Methods(http.MethodDelete)
	r.HandleFunc("/query/{pattern}", api.queryState).Methods(http.MethodGet)
	r.HandleFunc("/healthcheck/", api.healthCheck).Methods(http.MethodGet)
}

// ErrorResponse model
type ErrorResponse struct {
	// Statustext of Errorcode
	Status string `json:"status"`
	Error  string `json:"error"` // Error Message
}

// Item is the wire representation of one stored version. The value travels
// base64-encoded.
type Item struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// SetRequestOptions model
type SetRequestOptions struct {
	PreserveHistory bool `json:"preserve-history"`
	// TTL in seconds; zero or negative disables expiration
	TTL int64 `json:"ttl"`
}

// SetRequest model
type SetRequest struct {
	Value   []byte             `json:"value"`
	Options *SetRequestOptions `json:"options,omitempty"`
}

// SetResponse model
type SetResponse struct {
	Success bool `json:"success"`
	// Version id assigned to the write
	ID int64 `json:"id"`
}

// GetResponse model
type GetResponse struct {
	Item *Item `json:"item"`
}

// QueryResponse model
type QueryResponse struct {
	Items []Item `json:"items"`
}

// DeleteResponse model
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

func handleError(err error, statusCode int, rw http.ResponseWriter) {
	cclog.Warnf("REST ERROR : %s", err.Error())
	rw.Header().Add("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(ErrorResponse{
		Status: http.StatusText(statusCode),
		Error:  err.Error(),
	})
}

func decode(r io.Reader, val any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(val)
}

func respond(rw http.ResponseWriter, val any) {
	rw.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(val); err != nil {
		cclog.Errorf("encoding response failed: %s", err.Error())
	}
}
