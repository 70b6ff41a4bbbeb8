package server

import (
	"net/http"
	"strconv"
)

// queryInt reads a positive integer query parameter, falling back to
// def on absence or garbage and clamping to max. Clamping happens here
// so the services never see an unbounded limit.
func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return def
	}
	if max > 0 && value > max {
		return max
	}
	return value
}
