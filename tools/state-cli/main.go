// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// state-cli is a small command line client for cc-state-store:
//
//	state-cli get <key>
//	state-cli set <key> <value> [ttl_seconds]
//	state-cli query <pattern> [history_count]
//
// The server address is taken from REMOTE_HOST (default 127.0.0.1) and
// REMOTE_PORT (default 7777); a ./.env file is honored.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type wireItem struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

type setRequest struct {
	Value   []byte         `json:"value"`
	Options *setReqOptions `json:"options,omitempty"`
}

type setReqOptions struct {
	PreserveHistory bool  `json:"preserve-history"`
	TTL             int64 `json:"ttl"`
}

type getResponse struct {
	Item *wireItem `json:"item"`
}

type queryResponse struct {
	Items []wireItem `json:"items"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s get <key>
  %[1]s set <key> <value> [ttl_seconds]
  %[1]s query <pattern> [history_count]
`, os.Args[0])
	os.Exit(1)
}

func baseURL() string {
	host := os.Getenv("REMOTE_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REMOTE_PORT")
	if port == "" {
		port = "7777"
	}
	return "http://" + host + ":" + port + "/api"
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "state-cli: %s\n", err.Error())
	os.Exit(1)
}

// checkStatus decodes the server's error envelope on non-2xx responses.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, errResp.Error)
}

func get(base, key string) {
	resp, err := http.Get(base + "/state/" + url.PathEscape(key))
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		fail(err)
	}

	var body getResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fail(err)
	}
	if body.Item == nil {
		fail(fmt.Errorf("no item found for key '%s'", key))
	}

	fmt.Printf("%s: %s\n", body.Item.Key, body.Item.Value)
}

func set(base, key, value string, ttl int64) {
	req := setRequest{Value: []byte(value)}
	if ttl > 0 {
		req.Options = &setReqOptions{TTL: ttl}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		fail(err)
	}

	resp, err := http.Post(base+"/state/"+url.PathEscape(key), "application/json", bytes.NewReader(payload))
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		fail(err)
	}
}

func query(base, pattern string, historyCount int) {
	u := base + "/query/" + url.PathEscape(pattern)
	if historyCount > 0 {
		u += "?history-count=" + strconv.Itoa(historyCount)
	}

	resp, err := http.Get(u)
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return // nothing matched, empty output
	}
	if err := checkStatus(resp); err != nil {
		fail(err)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fail(err)
	}

	for _, item := range body.Items {
		fmt.Printf("%s: %s\n", item.Key, item.Value)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fail(err)
	}

	if len(os.Args) < 2 {
		usage()
	}

	base := baseURL()

	switch os.Args[1] {
	case "get":
		if len(os.Args) != 3 {
			usage()
		}
		get(base, os.Args[2])

	case "set":
		if len(os.Args) != 4 && len(os.Args) != 5 {
			usage()
		}
		var ttl int64
		if len(os.Args) == 5 {
			parsed, err := strconv.ParseInt(os.Args[4], 10, 64)
			if err != nil {
				fail(fmt.Errorf("invalid ttl '%s': %w", os.Args[4], err))
			}
			ttl = parsed
		}
		set(base, os.Args[2], os.Args[3], ttl)

	case "query":
		if len(os.Args) != 3 && len(os.Args) != 4 {
			usage()
		}
		historyCount := 0
		if len(os.Args) == 4 {
			parsed, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fail(fmt.Errorf("invalid history_count '%s': %w", os.Args[3], err))
			}
			historyCount = parsed
		}
		query(base, os.Args[2], historyCount)

	default:
		usage()
	}
}
