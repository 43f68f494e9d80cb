package main

import (
	"strconv"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// parseFloat wraps strconv.ParseFloat with the house zkerr.Input error,
// matching the "bad argument" reporting used throughout the dispatcher.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, zkerr.WrapInput(err, "invalid number %q", s)
	}
	return v, nil
}

// parseInt wraps strconv.ParseInt(s, 10, 64) the same way, for quantity
// arguments.
func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, zkerr.WrapInput(err, "invalid integer %q", s)
	}
	return v, nil
}
