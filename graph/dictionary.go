// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"encoding/json"
	"fmt"
	"math"
)

// KeyRefreshFlags is the dictionary key under which passes publish
// [RefreshFlags] for the current frame.
const KeyRefreshFlags = "_refreshFlags"

// RefreshFlags tell downstream passes that output characteristics changed
// and accumulated state (temporal history, frame averages) must be dropped.
type RefreshFlags uint32

const (
	// RefreshNone means nothing changed.
	RefreshNone RefreshFlags = 0

	// RefreshRenderOptionsChanged is set when a pass option that affects the
	// output changed.
	RefreshRenderOptionsChanged RefreshFlags = 1 << 0

	// RefreshLightingChanged is set when scene lighting changed.
	RefreshLightingChanged RefreshFlags = 1 << 1
)

// String returns a readable form of the flags.
func (f RefreshFlags) String() string {
	switch f {
	case RefreshNone:
		return "None"
	case RefreshRenderOptionsChanged:
		return "RenderOptionsChanged"
	case RefreshLightingChanged:
		return "LightingChanged"
	case RefreshRenderOptionsChanged | RefreshLightingChanged:
		return "RenderOptionsChanged|LightingChanged"
	default:
		return fmt.Sprintf("RefreshFlags(%d)", uint32(f))
	}
}

// Dictionary is a string-keyed bag of values.
//
// It serves two purposes: the construction-time configuration of a pass
// (scripting dictionary) and the per-frame dictionary shared by all passes
// of a graph. Values are expected to be JSON-compatible scalars so that a
// dictionary survives a round trip through [ParseDictionary].
type Dictionary map[string]any

// ParseDictionary decodes a JSON object into a Dictionary.
func ParseDictionary(data []byte) (Dictionary, error) {
	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("graph: parse dictionary: %w", err)
	}
	if d == nil {
		d = Dictionary{}
	}
	return d, nil
}

// Has reports whether key is present.
func (d Dictionary) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Bool returns the boolean stored under key, or def when the key is
// missing or holds another type.
func (d Dictionary) Bool(key string, def bool) bool {
	if v, ok := d[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer stored under key, or def when the key is missing
// or does not hold an integral number. JSON numbers (float64) are accepted
// when they carry no fractional part.
func (d Dictionary) Int(key string, def int) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		if v > math.MaxInt32 {
			return def
		}
		return int(v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return def
		}
		return int(n)
	default:
		return def
	}
}

// RefreshFlags returns the refresh flags published for this frame.
func (d Dictionary) RefreshFlags() RefreshFlags {
	v := d.Int(KeyRefreshFlags, 0)
	if v < 0 {
		return RefreshNone
	}
	return RefreshFlags(v) //nolint:gosec // checked non-negative
}

// AddRefreshFlags ORs flags into the frame's refresh flags.
func (d Dictionary) AddRefreshFlags(flags RefreshFlags) {
	d[KeyRefreshFlags] = int(d.RefreshFlags() | flags)
}

// Clone returns a shallow copy of the dictionary.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the dictionary as a JSON object. A nil dictionary
// encodes as an empty object.
func (d Dictionary) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(d))
}
