package vl53l0x

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {

	opts, err := ParseOptions([]byte(`
timeout: 20
rate_limit: 0.5
timing_budget: 33000
mode: long
`))

	require.NoError(t, err)
	require.NotNil(t, opts.Timeout)
	require.NotNil(t, opts.RateLimit)
	require.NotNil(t, opts.TimingBudget)
	assert.Equal(t, uint32(20), *opts.Timeout)
	assert.Equal(t, float32(0.5), *opts.RateLimit)
	assert.Equal(t, uint32(33000), *opts.TimingBudget)
}

func TestParseOptionsPartial(t *testing.T) {

	opts, err := ParseOptions([]byte("timeout: 0\n"))

	require.NoError(t, err)
	require.NotNil(t, opts.Timeout)
	assert.Equal(t, uint32(0), *opts.Timeout)
	assert.Nil(t, opts.RateLimit)
	assert.Nil(t, opts.TimingBudget)
}

func TestParseOptionsInvalid(t *testing.T) {

	_, err := ParseOptions([]byte("timeout: [1, 2]\n"))

	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {

	path := filepath.Join(t.TempDir(), "sensor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit: 0.1\n"), 0o644))

	opts, err := LoadOptions(path)

	require.NoError(t, err)
	require.NotNil(t, opts.RateLimit)
	assert.Equal(t, float32(0.1), *opts.RateLimit)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigureOnlyAppliesSetFields(t *testing.T) {

	v, bus := newTestSensor(t)

	v.SetTimeout(75 * time.Millisecond)
	words := len(bus.words)

	require.NoError(t, v.Configure(Options{}))
	assert.Equal(t, 75*time.Millisecond, v.GetTimeout())
	assert.Len(t, bus.words, words)

	require.NoError(t, v.Configure(Options{Timeout: Uint32(0)}))
	assert.Equal(t, time.Duration(0), v.GetTimeout())
	assert.Len(t, bus.words, words)
}

func TestConfigure(t *testing.T) {

	v, bus := newTestSensor(t)

	err := v.Configure(Options{
		RateLimit:    Float32(1.5),
		TimingBudget: Uint32(50000),
	})

	require.NoError(t, err)
	assert.Equal(t, uint16(192), bus.reg16(FINAL_RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT))
	assert.Equal(t, uint32(50000), v.measurementTimingBudgetUs)
}

func TestConfigureInvalidRateLimit(t *testing.T) {

	v, bus := newTestSensor(t)

	words := len(bus.words)

	err := v.Configure(Options{
		RateLimit:    Float32(600),
		TimingBudget: Uint32(50000),
	})

	assert.ErrorIs(t, err, ErrInvalidRateLimit)
	assert.Len(t, bus.words, words, "no register is written")
}

func TestConfigureInvalidHasNoSideEffects(t *testing.T) {

	v, bus := newTestSensor(t)

	v.SetTimeout(75 * time.Millisecond)
	budget := v.measurementTimingBudgetUs
	words := len(bus.words)

	err := v.Configure(Options{
		Timeout:      Uint32(5),
		RateLimit:    Float32(600),
		TimingBudget: Uint32(50000),
	})

	assert.ErrorIs(t, err, ErrInvalidRateLimit)
	assert.Equal(t, 75*time.Millisecond, v.GetTimeout())
	assert.Equal(t, budget, v.measurementTimingBudgetUs)
	assert.Len(t, bus.words, words)

	err = v.Configure(Options{
		Timeout:      Uint32(5),
		RateLimit:    Float32(1.5),
		TimingBudget: Uint32(100),
	})

	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 75*time.Millisecond, v.GetTimeout())
	assert.Equal(t, budget, v.measurementTimingBudgetUs)
	assert.Len(t, bus.words, words)
}

func TestOptionsMerge(t *testing.T) {

	defaults := Options{Timeout: Uint32(500), RateLimit: Float32(0.25)}

	fileOpts, err := ParseOptions([]byte("rate_limit: 0.1\ntiming_budget: 33000\n"))
	require.NoError(t, err)

	opts := defaults.Merge(fileOpts)

	require.NotNil(t, opts.Timeout)
	require.NotNil(t, opts.RateLimit)
	require.NotNil(t, opts.TimingBudget)
	assert.Equal(t, uint32(500), *opts.Timeout)
	assert.Equal(t, float32(0.1), *opts.RateLimit)
	assert.Equal(t, uint32(33000), *opts.TimingBudget)

	// merging an empty set keeps every default
	assert.Equal(t, defaults, defaults.Merge(Options{}))

	zero, err := ParseOptions([]byte("timeout: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), *defaults.Merge(zero).Timeout)
}
