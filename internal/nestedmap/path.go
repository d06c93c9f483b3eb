// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey marks keys that cannot address a node: empty keys,
	// keys with empty segments, or writes using reserved segments.
	ErrInvalidKey = errors.New("invalid key")
)

// SplitPattern splits a dot-delimited key or query pattern into segments.
// Wildcard and collector segments are allowed; empty keys and empty
// segments (leading, trailing or doubled dots) are not.
func SplitPattern(key string) ([]string, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	segments := strings.Split(key, Delimiter)
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidKey, key)
		}
	}

	return segments, nil
}

// SplitKey splits a key that addresses exactly one node, as used by writes
// and point reads. On top of the SplitPattern rules it rejects the pattern
// metacharacters and the reserved marker segment.
func SplitKey(key string) ([]string, error) {
	segments, err := SplitPattern(key)
	if err != nil {
		return nil, err
	}

	for _, seg := range segments {
		switch seg {
		case Wildcard, Collector, valueKey:
			return nil, fmt.Errorf("%w: reserved segment %q in %q", ErrInvalidKey, seg, key)
		}
	}

	return segments, nil
}

// JoinKey is the inverse of SplitKey.
func JoinKey(segments []string) string {
	return strings.Join(segments, Delimiter)
}
