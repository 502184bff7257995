package model

import (
	"net/url"
	"strconv"
)

// Query is the flat parameter set sent to GET /jobs. Keys map to single
// primitive values rendered as strings.
type Query map[string]string

// Values converts the query to url.Values.
func (q Query) Values() url.Values {
	v := make(url.Values, len(q))
	for k, val := range q {
		v.Set(k, val)
	}
	return v
}

// Encode renders the canonical form (keys sorted). Two equal queries always
// encode identically, which makes it usable as a cache or dedup key.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Equal reports whether both queries carry the same keys and values.
func (q Query) Equal(other Query) bool {
	if len(q) != len(other) {
		return false
	}
	for k, v := range q {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Int returns the integer value of key, or def when absent or malformed.
func (q Query) Int(key string, def int) int {
	if s, ok := q[key]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func itoa(n int) string { return strconv.Itoa(n) }
