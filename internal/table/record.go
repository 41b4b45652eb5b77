// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

// Record is an ordered mapping from column name to cell value. Keys keep
// insertion order, which for parsed rows is the header order. The zero value
// is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from parallel key and value slices. Keys beyond
// the end of values are left absent, matching a CSV row with fewer fields than
// its header.
func NewRecord(keys []string, values []string) Record {
	var r Record
	for i, k := range keys {
		if i >= len(values) {
			break
		}
		r.Set(k, values[i])
	}
	return r
}

// Set assigns value to key, appending key to the order if it is new.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key or "" when absent.
func (r Record) Value(key string) string {
	return r.values[key]
}

// Keys returns a copy of the keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len is the number of keys present.
func (r Record) Len() int {
	return len(r.keys)
}

// Values returns the values for cols in order; absent keys yield "".
func (r Record) Values(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = r.values[c]
	}
	return out
}

// Map returns a copy of the record as a plain map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// Equal reports whether r and o have the same key set with identical values.
// Key order is not significant.
func (r Record) Equal(o Record) bool {
	if len(r.values) != len(o.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := o.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Merge returns a new record holding r's pairs overlaid with o's. Shared keys
// keep r's position but take o's value; keys only in o are appended.
func (r Record) Merge(o Record) Record {
	var out Record
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	for _, k := range o.keys {
		out.Set(k, o.values[k])
	}
	return out
}

// ChangedKeys lists keys whose presence or value differs between r and o:
// r's keys first in r's order, then keys only in o.
func (r Record) ChangedKeys(o Record) []string {
	var changed []string
	for _, k := range r.keys {
		ov, ok := o.values[k]
		if !ok || ov != r.values[k] {
			changed = append(changed, k)
		}
	}
	for _, k := range o.keys {
		if _, ok := r.values[k]; !ok {
			changed = append(changed, k)
		}
	}
	return changed
}
