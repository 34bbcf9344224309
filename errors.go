package vl53l0x

import "errors"

var (
	// ErrRegisterIDMismatch is returned by New when the identification
	// registers do not hold the VL53L0X signature
	ErrRegisterIDMismatch = errors.New("unexpected model ID")
	// ErrTimeout is returned when a polling loop exceeds the configured timeout
	ErrTimeout = errors.New("timeout")
	// ErrInvalidRateLimit is returned for signal rate limits outside [0, 511.99]
	ErrInvalidRateLimit = errors.New("signal rate limit out of range")
	// ErrBudgetExceeded is returned when a timing budget is smaller than the
	// enabled sequence steps require
	ErrBudgetExceeded = errors.New("timing budget too low")
	// ErrInvalidVcselPeriod is returned for unsupported VCSEL pulse periods
	ErrInvalidVcselPeriod = errors.New("invalid VCSEL pulse period")
	// ErrClosed is returned by any call made after Close
	ErrClosed = errors.New("sensor closed")
)
