package vl53l0x

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds sensor settings, only the fields that are set are applied
type Options struct {
	// Timeout in milliseconds for polling the sensor, 0 disables the timeout
	Timeout *uint32 `yaml:"timeout"`
	// RateLimit is the final range signal rate limit in MCPS
	RateLimit *float32 `yaml:"rate_limit"`
	// TimingBudget is the measurement timing budget in microseconds
	TimingBudget *uint32 `yaml:"timing_budget"`
}

// Uint32 returns a pointer to v for use in Options
func Uint32(v uint32) *uint32 {
	return &v
}

// Float32 returns a pointer to v for use in Options
func Float32(v float32) *float32 {
	return &v
}

// Merge returns o with every field that is set in other replacing its value
func (o Options) Merge(other Options) Options {

	if other.Timeout != nil {
		o.Timeout = other.Timeout
	}

	if other.RateLimit != nil {
		o.RateLimit = other.RateLimit
	}

	if other.TimingBudget != nil {
		o.TimingBudget = other.TimingBudget
	}

	return o
}

// ParseOptions decodes YAML formatted options. Keys that are not recognized
// are ignored.
func ParseOptions(data []byte) (Options, error) {

	var opts Options

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}

	return opts, nil
}

// LoadOptions reads YAML formatted options from a file
func LoadOptions(path string) (Options, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return Options{}, err
	}

	return ParseOptions(data)
}

// Configure applies the options that are set. The rate limit is validated
// and the timing budget checked against the enabled sequence steps before
// anything is changed, so an invalid option leaves the sensor and handle as
// they were.
func (v *VL53L0X) Configure(opts Options) error {

	if v.bus == nil {
		return ErrClosed
	}

	if opts.RateLimit != nil {
		if _, err := encodeRateLimit(*opts.RateLimit); err != nil {
			return fmt.Errorf("%w: %v", err, *opts.RateLimit)
		}
	}

	// the budget is written only once it fits the enabled steps
	if opts.TimingBudget != nil {
		if err := v.SetMeasurementTimingBudget(*opts.TimingBudget); err != nil {
			return err
		}
	}

	if opts.RateLimit != nil {
		if err := v.SetSignalRateLimit(*opts.RateLimit); err != nil {
			return err
		}
	}

	if opts.Timeout != nil {
		v.SetTimeout(time.Duration(*opts.Timeout) * time.Millisecond)
	}

	return nil
}
